// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ui

import (
	"context"
	"errors"
	"net/url"
)

// ErrNoModal means no modal can be presented for the current call.
var ErrNoModal = errors.New("ui: no modal presenter available")

// ConfirmedField is the event value set when a modal has been accepted.
const ConfirmedField = "confirmed"

// Prompt is the content of a confirmation.
type Prompt struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	Danger       bool
}

// Modal is a rendered-to-be confirmation dialog whose accept button replays the event.
type Modal struct {
	Prompt
	Action string
	Values url.Values
}

// Confirmer asks the visitor to confirm a destructive action.
//
// Answers are non-blocking: a false answer with a nil error may mean the
// question has only been asked, and the event will come back confirmed.
type Confirmer interface {
	Confirm(ctx context.Context, prompt Prompt) (bool, error)
}

// ConfirmFunc adapts a function into a [Confirmer].
type ConfirmFunc func(ctx context.Context, prompt Prompt) (bool, error)

// Confirm implements [Confirmer].
func (fn ConfirmFunc) Confirm(ctx context.Context, prompt Prompt) (bool, error) {
	return fn(ctx, prompt)
}

// Always answers every prompt with the same value.
func Always(answer bool) Confirmer {
	return ConfirmFunc(func(context.Context, Prompt) (bool, error) { return answer, nil })
}

// ModalConfirmer presents prompts as modals through the request's [Feed].
type ModalConfirmer struct{}

// Confirm implements [Confirmer].
func (ModalConfirmer) Confirm(ctx context.Context, prompt Prompt) (bool, error) {
	feed := FeedFrom(ctx)
	if feed == nil {
		return false, ErrNoModal
	}
	if feed.confirmed {
		return true, nil
	}

	values := url.Values{}
	for key, list := range feed.repost.Values {
		values[key] = append([]string(nil), list...)
	}
	values.Set(ConfirmedField, "true")

	feed.pushModal(Modal{Prompt: prompt, Action: feed.repost.URL, Values: values})
	return false, nil
}

// WithFallback answers with fallback whenever primary cannot present a modal.
func WithFallback(primary, fallback Confirmer) Confirmer {
	return ConfirmFunc(func(ctx context.Context, prompt Prompt) (bool, error) {
		answer, err := primary.Confirm(ctx, prompt)
		if errors.Is(err, ErrNoModal) {
			return fallback.Confirm(ctx, prompt)
		}
		return answer, err
	})
}
