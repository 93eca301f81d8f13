// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ui holds the collaborators widgets use to talk back to the visitor:
toasts, confirmation modals and localized messages.

Widgets receive a [Notifier] and a [Confirmer] at construction. Both are
request-aware: what they produce lands in the [Feed] carried by the context
of the event being handled, and is rendered after the widget fragment.
*/
package ui

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
)

// Kind is the visual category of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Toast is one transient notification.
type Toast struct {
	Kind    Kind   `json:"type"`
	Message string `json:"message"`
}

// Notifier shows toasts to the visitor of the current request.
type Notifier interface {
	Toast(ctx context.Context, kind Kind, message string)
}

// Repost is how the browser replays the current event, e.g. once a modal is confirmed.
type Repost struct {
	URL    string
	Values url.Values
}

// Feed buffers what a single event produced besides the widget fragment.
type Feed struct {
	mu        sync.Mutex
	toasts    []Toast
	modals    []Modal
	confirmed bool
	repost    Repost
}

// NewFeed creates the feed of one event. confirmed tells whether the event is the
// replay of an accepted modal.
func NewFeed(confirmed bool, repost Repost) *Feed {
	return &Feed{confirmed: confirmed, repost: repost}
}

// Push appends a toast.
func (feed *Feed) Push(toast Toast) {
	feed.mu.Lock()
	defer feed.mu.Unlock()
	feed.toasts = append(feed.toasts, toast)
}

// Toasts returns a copy of the buffered toasts.
func (feed *Feed) Toasts() []Toast {
	feed.mu.Lock()
	defer feed.mu.Unlock()
	return append([]Toast(nil), feed.toasts...)
}

// Modals returns a copy of the buffered modals.
func (feed *Feed) Modals() []Modal {
	feed.mu.Lock()
	defer feed.mu.Unlock()
	return append([]Modal(nil), feed.modals...)
}

// HeaderValue encodes the toasts for the X-Widget-Toasts header, "" when none.
func (feed *Feed) HeaderValue() string {
	toasts := feed.Toasts()
	if len(toasts) == 0 {
		return ""
	}
	encoded, err := json.Marshal(toasts)
	if err != nil {
		return ""
	}
	return string(encoded)
}

func (feed *Feed) pushModal(modal Modal) {
	feed.mu.Lock()
	defer feed.mu.Unlock()
	feed.modals = append(feed.modals, modal)
}

type feedKey struct{}

// WithFeed attaches feed to ctx.
func WithFeed(ctx context.Context, feed *Feed) context.Context {
	return context.WithValue(ctx, feedKey{}, feed)
}

// FeedFrom returns the feed of ctx, or nil.
func FeedFrom(ctx context.Context) *Feed {
	feed, _ := ctx.Value(feedKey{}).(*Feed)
	return feed
}

// FeedNotifier writes toasts into the request's [Feed]. Outside of a request they are dropped.
type FeedNotifier struct{}

// Toast implements [Notifier].
func (FeedNotifier) Toast(ctx context.Context, kind Kind, message string) {
	if feed := FeedFrom(ctx); feed != nil {
		feed.Push(Toast{Kind: kind, Message: message})
	}
}

// Recorder is a [Notifier] keeping every toast, for tests and tools.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

// Toast implements [Notifier].
func (recorder *Recorder) Toast(_ context.Context, kind Kind, message string) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.toasts = append(recorder.toasts, Toast{Kind: kind, Message: message})
}

// Toasts returns what was recorded so far.
func (recorder *Recorder) Toasts() []Toast {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]Toast(nil), recorder.toasts...)
}

// Last returns the most recent toast, or the zero value.
func (recorder *Recorder) Last() Toast {
	toasts := recorder.Toasts()
	if len(toasts) == 0 {
		return Toast{}
	}
	return toasts[len(toasts)-1]
}
