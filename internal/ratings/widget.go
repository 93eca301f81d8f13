// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ratings implements the star rating widget.

Several widgets may live on one page, one per [content.Ref], each identified by
its instance key "{type}-{id}". Every displayed number comes from the CMS
aggregate; a submission replaces the aggregate with the one the CMS answers.
*/
package ratings

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taibuivan/yomira-widgets/internal/cmsapi"
	"github.com/taibuivan/yomira-widgets/internal/content"
	"github.com/taibuivan/yomira-widgets/internal/platform/apperr"
	"github.com/taibuivan/yomira-widgets/internal/platform/constants"
	"github.com/taibuivan/yomira-widgets/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-widgets/internal/platform/validate"
	"github.com/taibuivan/yomira-widgets/internal/ui"
	"github.com/taibuivan/yomira-widgets/internal/widget"
)

// ModuleName labels the widget in logs and metrics.
const ModuleName = "ratings"

// Backend is the part of the CMS API the widget consumes.
type Backend interface {
	RatingStats(ctx context.Context, ref content.Ref) (*cmsapi.RatingStats, error)
	WeightedAlbumStats(ctx context.Context, albumID int64) (*cmsapi.RatingStats, error)
	SubmitRating(ctx context.Context, ref content.Ref, value int) (*cmsapi.RatingMutation, error)
	RemoveRating(ctx context.Context, ref content.Ref) (*cmsapi.RatingMutation, error)
}

// Options tune a widget.
type Options struct {
	AutoLoad         bool
	ShowDistribution bool
}

// DefaultOptions loads on creation and shows the distribution.
func DefaultOptions() Options {
	return Options{AutoLoad: true, ShowDistribution: true}
}

// Deps are the collaborators of a widget.
type Deps struct {
	Backend   Backend
	Notifier  ui.Notifier
	Confirmer ui.Confirmer
	Messages  ui.Messages
	Logger    *slog.Logger
}

// Widget is one live rating instance.
type Widget struct {
	ref      content.Ref
	options  Options
	deps     Deps
	bindings *widget.Bindings

	submitting widget.Guard

	mu            sync.Mutex
	stats         *cmsapi.RatingStats
	currentRating int
	hoverRating   int
	loaded        bool
	loadFailed    bool
	generation    uint64
	destroyed     bool
}

// New creates and binds a rating widget for ref. A failed initial load leaves
// the widget in its retry state and is not an error of New.
func New(ctx context.Context, ref content.Ref, options Options, deps Deps) (*Widget, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Notifier == nil {
		deps.Notifier = ui.FeedNotifier{}
	}
	if deps.Confirmer == nil {
		deps.Confirmer = ui.WithFallback(ui.ModalConfirmer{}, ui.Always(false))
	}

	rating := &Widget{
		ref:      ref,
		options:  options,
		deps:     deps,
		bindings: widget.NewBindings(ScopeFor(ref)),
	}
	rating.bind()

	if options.AutoLoad {
		_ = rating.LoadRatingStats(ctx)
	}
	return rating, nil
}

// InstanceKey identifies the widget among the ratings of a page.
func InstanceKey(ref content.Ref) string {
	return ref.Key()
}

// ScopeFor is the container id of the widget of ref.
func ScopeFor(ref content.Ref) string {
	return "rating-" + InstanceKey(ref)
}

// Ref returns the rated content.
func (rating *Widget) Ref() content.Ref { return rating.ref }

// Key returns the instance key.
func (rating *Widget) Key() string { return InstanceKey(rating.ref) }

// Bindings exposes the dispatch table.
func (rating *Widget) Bindings() *widget.Bindings { return rating.bindings }

// Dispatch routes a visitor event through the widget's dispatch table.
func (rating *Widget) Dispatch(ctx context.Context, ev widget.Event) (widget.Outcome, bool, error) {
	return rating.bindings.Dispatch(ctx, ev)
}

// Destroy releases the bindings.
func (rating *Widget) Destroy() {
	rating.mu.Lock()
	rating.destroyed = true
	rating.mu.Unlock()
	rating.bindings.Release()
}

// Snapshot is a read-only copy of the widget state.
type Snapshot struct {
	Stats         *cmsapi.RatingStats
	CurrentRating int
	HoverRating   int
	Loaded        bool
	LoadFailed    bool
}

// Snapshot copies the current state.
func (rating *Widget) Snapshot() Snapshot {
	rating.mu.Lock()
	defer rating.mu.Unlock()
	return Snapshot{
		Stats:         cloneStats(rating.stats),
		CurrentRating: rating.currentRating,
		HoverRating:   rating.hoverRating,
		Loaded:        rating.loaded,
		LoadFailed:    rating.loadFailed,
	}
}

/*
LoadRatingStats fetches the aggregate of the rated content.

Description: Albums use the weighted endpoint, which blends chapter ratings
and carries the chapter breakdown; other content uses the flat aggregate.
The viewer's own rating is taken from the answer.
*/
func (rating *Widget) LoadRatingStats(ctx context.Context) error {
	rating.mu.Lock()
	if rating.destroyed {
		rating.mu.Unlock()
		return nil
	}
	rating.generation++
	generation := rating.generation
	rating.mu.Unlock()

	var (
		stats *cmsapi.RatingStats
		err   error
	)
	if rating.ref.Type == content.TypeAlbum {
		stats, err = rating.deps.Backend.WeightedAlbumStats(ctx, rating.ref.ID)
	} else {
		stats, err = rating.deps.Backend.RatingStats(ctx, rating.ref)
	}

	rating.mu.Lock()
	defer rating.mu.Unlock()

	if rating.destroyed || generation != rating.generation {
		return nil
	}
	if err != nil {
		rating.loadFailed = true
		rating.deps.Logger.Warn("rating_stats_failed",
			slog.String("content", rating.ref.Key()),
			slog.Any("error", err),
		)
		return err
	}

	rating.stats = cloneStats(stats)
	rating.loaded = true
	rating.loadFailed = false
	rating.currentRating = 0
	if stats.UserRating != nil {
		rating.currentRating = *stats.UserRating
	}
	return nil
}

/*
SubmitRating sets the viewer's rating to value.

Description: Anonymous visitors are told to log in and no request is made.
value must lie in 1..5. Only one submission runs at a time.

Errors:
  - apperr.CodeUnauthorized: No viewer
  - apperr.CodeValidation: value out of range
  - apperr.CodeBusy: A submission is in flight
*/
func (rating *Widget) SubmitRating(ctx context.Context, value int) error {
	messages := rating.deps.Messages

	if ctxutil.ViewerID(ctx) == "" {
		rating.deps.Notifier.Toast(ctx, ui.KindError, messages.LoginToRate)
		return apperr.Unauthorized(messages.LoginToRate)
	}

	err := (&validate.Validator{}).
		Range("rating_value", value, constants.RatingMin, constants.RatingMax).
		Err()
	if err != nil {
		rating.deps.Notifier.Toast(ctx, ui.KindWarning, err.Error())
		return err
	}

	if !rating.submitting.TryAcquire() {
		return apperr.Busy("Rating submission")
	}
	defer rating.submitting.Release()

	mutation, err := rating.deps.Backend.SubmitRating(ctx, rating.ref, value)
	if err != nil {
		return rating.fail(ctx, "submit", err)
	}

	rating.mu.Lock()
	rating.applyLocked(mutation, &value)
	rating.currentRating = value
	rating.hoverRating = 0
	rating.mu.Unlock()

	rating.deps.Logger.Info("rating_submitted",
		slog.String("content", rating.ref.Key()),
		slog.Int("value", value),
		slog.String("viewer", ctxutil.ViewerID(ctx)),
	)
	rating.deps.Notifier.Toast(ctx, ui.KindSuccess, messages.RatingSaved)
	return nil
}

// RemoveRating deletes the viewer's rating once confirmed. removed is false
// with a nil error while the confirmation is pending.
func (rating *Widget) RemoveRating(ctx context.Context) (removed bool, err error) {
	messages := rating.deps.Messages

	if ctxutil.ViewerID(ctx) == "" {
		rating.deps.Notifier.Toast(ctx, ui.KindError, messages.LoginToRate)
		return false, apperr.Unauthorized(messages.LoginToRate)
	}

	confirmed, err := rating.deps.Confirmer.Confirm(ctx, ui.Prompt{
		Title:        messages.RemoveRatingTitle,
		Message:      messages.RemoveRatingMessage,
		ConfirmLabel: messages.RemoveRating,
		CancelLabel:  messages.Cancel,
		Danger:       true,
	})
	if err != nil {
		return false, rating.fail(ctx, "remove", err)
	}
	if !confirmed {
		return false, nil
	}

	if !rating.submitting.TryAcquire() {
		return false, apperr.Busy("Rating removal")
	}
	defer rating.submitting.Release()

	mutation, err := rating.deps.Backend.RemoveRating(ctx, rating.ref)
	if err != nil {
		return false, rating.fail(ctx, "remove", err)
	}

	rating.mu.Lock()
	rating.applyLocked(mutation, nil)
	rating.currentRating = 0
	rating.mu.Unlock()

	rating.deps.Notifier.Toast(ctx, ui.KindSuccess, messages.RatingRemoved)
	return true, nil
}

// Hover previews value without submitting it.
func (rating *Widget) Hover(value int) error {
	if value < constants.RatingMin || value > constants.RatingMax {
		return validate.ErrInvalidPayload
	}
	rating.mu.Lock()
	defer rating.mu.Unlock()
	rating.hoverRating = value
	return nil
}

// HoverEnd clears the preview.
func (rating *Widget) HoverEnd() {
	rating.mu.Lock()
	defer rating.mu.Unlock()
	rating.hoverRating = 0
}

// Submitting reports whether a submission is in flight.
func (rating *Widget) Submitting() bool {
	return rating.submitting.Held()
}

// applyLocked replaces the aggregate with the one answered by the CMS. The
// chapter breakdown is not part of the answer and is kept.
func (rating *Widget) applyLocked(mutation *cmsapi.RatingMutation, userRating *int) {
	next := &cmsapi.RatingStats{
		AverageRating:      mutation.AverageRating,
		RatingCount:        mutation.RatingCount,
		RatingDistribution: make(map[int]int, len(mutation.RatingDistribution)),
		UserRating:         userRating,
	}
	for star, count := range mutation.RatingDistribution {
		next.RatingDistribution[star] = count
	}
	if rating.stats != nil {
		next.ChapterBreakdown = rating.stats.ChapterBreakdown
	}
	rating.stats = next
	rating.loaded = true
	rating.loadFailed = false
}

func (rating *Widget) fail(ctx context.Context, operation string, err error) error {
	rating.deps.Logger.Warn("rating_operation_failed",
		slog.String("content", rating.ref.Key()),
		slog.String("operation", operation),
		slog.Any("error", err),
	)
	rating.deps.Notifier.Toast(ctx, ui.KindError, rating.deps.Messages.ErrorText(err))
	return err
}

func cloneStats(stats *cmsapi.RatingStats) *cmsapi.RatingStats {
	if stats == nil {
		return nil
	}
	clone := *stats
	clone.RatingDistribution = make(map[int]int, len(stats.RatingDistribution))
	for star, count := range stats.RatingDistribution {
		clone.RatingDistribution[star] = count
	}
	clone.ChapterBreakdown = append([]cmsapi.ChapterRating(nil), stats.ChapterBreakdown...)
	if stats.UserRating != nil {
		value := *stats.UserRating
		clone.UserRating = &value
	}
	return &clone
}
