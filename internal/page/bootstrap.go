// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/yomira-widgets/internal/comments"
	"github.com/taibuivan/yomira-widgets/internal/content"
	"github.com/taibuivan/yomira-widgets/internal/platform/apperr"
	"github.com/taibuivan/yomira-widgets/internal/ratings"
	"github.com/taibuivan/yomira-widgets/internal/ui"
	"github.com/taibuivan/yomira-widgets/pkg/uuid"
)

// Backend is the CMS API surface of every widget.
type Backend interface {
	comments.Backend
	ratings.Backend
}

// Features are the deployment switches, read once when the bootstrapper is built.
type Features struct {
	Comments        bool
	Ratings         bool
	CommentsPerPage int
}

// Bootstrapper creates the widget instances of a page.
type Bootstrapper struct {
	features  Features
	backend   Backend
	registry  *Registry
	messages  ui.Messages
	notifier  ui.Notifier
	confirmer ui.Confirmer
	logger    *slog.Logger
}

// NewBootstrapper wires a bootstrapper and registers it as the registry's remounter.
func NewBootstrapper(features Features, backend Backend, registry *Registry, messages ui.Messages, logger *slog.Logger) *Bootstrapper {
	if logger == nil {
		logger = slog.Default()
	}
	boot := &Bootstrapper{
		features:  features,
		backend:   backend,
		registry:  registry,
		messages:  messages,
		notifier:  ui.FeedNotifier{},
		confirmer: ui.WithFallback(ui.ModalConfirmer{}, ui.Always(false)),
		logger:    logger,
	}
	registry.SetRemounter(boot)
	return boot
}

// Features returns the switches in effect.
func (boot *Bootstrapper) Features() Features { return boot.features }

/*
Mount creates a session for a content page.

Description: A comment thread is created when comments are enabled and ref
supports them. A rating widget is created for ref and each of extraRatings
when ratings are enabled. Duplicate rating refs share one widget.

Returns:
  - *Session: The registered session
  - error: Validation error for an invalid ref, or a store failure
*/
func (boot *Bootstrapper) Mount(ctx context.Context, ref content.Ref, extraRatings []content.Ref) (*Session, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	for _, extra := range extraRatings {
		if err := extra.Validate(); err != nil {
			return nil, err
		}
	}

	descriptor := Descriptor{
		ID:        uuid.New(),
		Ref:       ref,
		Comments:  boot.features.Comments && ref.Type.Commentable(),
		CreatedAt: time.Now().UTC(),
	}
	if boot.features.Ratings {
		descriptor.Ratings = dedupe(append([]content.Ref{ref}, extraRatings...))
	}

	session, err := boot.build(ctx, descriptor)
	if err != nil {
		return nil, err
	}
	if err := boot.registry.Register(ctx, session); err != nil {
		session.Destroy()
		return nil, err
	}

	boot.logger.Info("widgets_mounted",
		slog.String("session", session.ID()),
		slog.String("content", ref.Key()),
		slog.Bool("comments", descriptor.Comments),
		slog.Int("ratings", len(descriptor.Ratings)),
	)
	return session, nil
}

// Remount implements [Remounter]. Feature switches apply again, so a widget
// disabled since the mount is not rebuilt.
func (boot *Bootstrapper) Remount(ctx context.Context, descriptor Descriptor) (*Session, error) {
	if !boot.features.Comments {
		descriptor.Comments = false
	}
	if !boot.features.Ratings {
		descriptor.Ratings = nil
	}
	return boot.build(ctx, descriptor)
}

func (boot *Bootstrapper) build(ctx context.Context, descriptor Descriptor) (*Session, error) {
	if descriptor.ID == "" {
		return nil, apperr.ValidationError("Session id is required")
	}
	session := NewSession(descriptor.ID, descriptor.Ref, descriptor.CreatedAt)

	if descriptor.Comments {
		options := comments.DefaultOptions()
		if boot.features.CommentsPerPage > 0 {
			options.PerPage = boot.features.CommentsPerPage
		}
		thread, err := comments.New(ctx, descriptor.Ref, options, comments.Deps{
			Backend:   boot.backend,
			Notifier:  boot.notifier,
			Confirmer: boot.confirmer,
			Messages:  boot.messages,
			Logger:    boot.logger.With(slog.String("module", comments.ModuleName)),
		})
		if err != nil {
			return nil, err
		}
		session.AttachComments(thread)
	}

	for _, ref := range descriptor.Ratings {
		rating, err := ratings.New(ctx, ref, ratings.DefaultOptions(), ratings.Deps{
			Backend:   boot.backend,
			Notifier:  boot.notifier,
			Confirmer: boot.confirmer,
			Messages:  boot.messages,
			Logger:    boot.logger.With(slog.String("module", ratings.ModuleName)),
		})
		if err != nil {
			session.Destroy()
			return nil, err
		}
		session.AttachRating(rating)
	}

	return session, nil
}

func dedupe(refs []content.Ref) []content.Ref {
	seen := make(map[string]bool, len(refs))
	unique := make([]content.Ref, 0, len(refs))
	for _, ref := range refs {
		if seen[ref.Key()] {
			continue
		}
		seen[ref.Key()] = true
		unique = append(unique, ref)
	}
	return unique
}
