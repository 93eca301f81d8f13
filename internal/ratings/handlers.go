// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratings

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/taibuivan/yomira-widgets/internal/platform/apperr"
	"github.com/taibuivan/yomira-widgets/internal/platform/metrics"
	"github.com/taibuivan/yomira-widgets/internal/platform/validate"
	"github.com/taibuivan/yomira-widgets/internal/ui"
	"github.com/taibuivan/yomira-widgets/internal/widget"
)

// Actions handled by the widget.
const (
	ActionRate     = "rate"
	ActionHover    = "hover"
	ActionHoverEnd = "hover-end"
	ActionRemove   = "remove"
	ActionRetry    = "retry"
)

// FieldRating carries the star value of rate and hover events.
const FieldRating = "rating"

func (rating *Widget) bind() {
	on := func(eventType, action string, handler widget.Handler) {
		rating.bindings.On(eventType, action, rating.instrument(action, handler))
	}

	on(widget.EventClick, ActionRate, rating.onRate)
	on(widget.EventHover, ActionHover, rating.onHover)
	on(widget.EventHover, ActionHoverEnd, rating.onHoverEnd)
	on(widget.EventClick, ActionRemove, rating.onRemove)
	on(widget.EventClick, ActionRetry, rating.onRetry)
}

func (rating *Widget) instrument(action string, handler widget.Handler) widget.Handler {
	return func(ctx context.Context, ev widget.Event) (widget.Outcome, error) {
		outcome, err := handler(ctx, ev)

		switch {
		case err == nil:
			metrics.Action(ModuleName, action, metrics.OutcomeOK)
			return outcome, nil
		case apperr.HasCode(err, apperr.CodeBusy):
			metrics.Action(ModuleName, action, metrics.OutcomeSkipped)
			return widget.Unchanged(), nil
		case errors.Is(err, validate.ErrInvalidPayload):
			metrics.Action(ModuleName, action, metrics.OutcomeRejected)
			rating.deps.Notifier.Toast(ctx, ui.KindError, rating.deps.Messages.Generic)
			return widget.Unchanged(), nil
		case apperr.HasCode(err, apperr.CodeValidation), apperr.HasCode(err, apperr.CodeUnauthorized):
			metrics.Action(ModuleName, action, metrics.OutcomeRejected)
			return outcome, nil
		case apperr.IsAppError(err):
			metrics.Action(ModuleName, action, metrics.OutcomeFailed)
			return outcome, nil
		default:
			metrics.Action(ModuleName, action, metrics.OutcomeFailed)
			return widget.Unchanged(), err
		}
	}
}

// starValue reads the star from the rating field, falling back to the target.
func starValue(ev widget.Event) (int, error) {
	raw := ev.Value(FieldRating)
	if raw == "" {
		raw = ev.Target
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, validate.ErrInvalidPayload
	}
	return value, nil
}

func (rating *Widget) onRate(ctx context.Context, ev widget.Event) (widget.Outcome, error) {
	value, err := starValue(ev)
	if err != nil {
		return widget.Unchanged(), err
	}
	if err := rating.SubmitRating(ctx, value); err != nil {
		return widget.Unchanged(), err
	}
	return widget.Full(), nil
}

func (rating *Widget) onHover(_ context.Context, ev widget.Event) (widget.Outcome, error) {
	value, err := starValue(ev)
	if err != nil {
		return widget.Unchanged(), err
	}
	if err := rating.Hover(value); err != nil {
		return widget.Unchanged(), err
	}
	return widget.Full(), nil
}

func (rating *Widget) onHoverEnd(context.Context, widget.Event) (widget.Outcome, error) {
	rating.HoverEnd()
	return widget.Full(), nil
}

func (rating *Widget) onRemove(ctx context.Context, _ widget.Event) (widget.Outcome, error) {
	removed, err := rating.RemoveRating(ctx)
	if err != nil || !removed {
		return widget.Unchanged(), err
	}
	return widget.Full(), nil
}

func (rating *Widget) onRetry(ctx context.Context, _ widget.Event) (widget.Outcome, error) {
	return widget.Full(), rating.LoadRatingStats(ctx)
}
