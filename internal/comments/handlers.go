// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comments

import (
	"context"
	"errors"
	"strconv"

	"github.com/taibuivan/yomira-widgets/internal/platform/apperr"
	"github.com/taibuivan/yomira-widgets/internal/platform/metrics"
	"github.com/taibuivan/yomira-widgets/internal/platform/validate"
	"github.com/taibuivan/yomira-widgets/internal/ui"
	"github.com/taibuivan/yomira-widgets/internal/widget"
)

// Actions handled by the thread.
const (
	ActionSubmit       = "submit"
	ActionEdit         = "edit"
	ActionSaveEdit     = "save-edit"
	ActionCancelEdit   = "cancel-edit"
	ActionDelete       = "delete"
	ActionLike         = "like"
	ActionDislike      = "dislike"
	ActionReply        = "reply"
	ActionCancelReply  = "cancel-reply"
	ActionReport       = "report"
	ActionSubmitReport = "submit-report"
	ActionCancelReport = "cancel-report"
	ActionIntersect    = "intersect"
	ActionLoadMore     = "load-more"
	ActionRetry        = "retry"
)

// Form fields read from events.
const (
	FieldContent     = "content"
	FieldParentID    = "parent_id"
	FieldReason      = "reason"
	FieldDescription = "description"
)

func (thread *Thread) bind() {
	on := func(eventType, action string, handler widget.Handler) {
		thread.bindings.On(eventType, action, thread.instrument(action, handler))
	}

	on(widget.EventSubmit, ActionSubmit, thread.onSubmit)
	on(widget.EventClick, ActionEdit, thread.onEdit)
	on(widget.EventSubmit, ActionSaveEdit, thread.onSaveEdit)
	on(widget.EventClick, ActionCancelEdit, thread.onCancelEdit)
	on(widget.EventClick, ActionDelete, thread.onDelete)
	on(widget.EventClick, ActionLike, thread.onReact(true))
	on(widget.EventClick, ActionDislike, thread.onReact(false))
	on(widget.EventClick, ActionReply, thread.onReply)
	on(widget.EventClick, ActionCancelReply, thread.onCancelReply)
	on(widget.EventClick, ActionReport, thread.onReport)
	on(widget.EventSubmit, ActionSubmitReport, thread.onSubmitReport)
	on(widget.EventClick, ActionCancelReport, thread.onCancelReport)
	on(widget.EventIntersect, ActionIntersect, thread.onIntersect)
	on(widget.EventClick, ActionLoadMore, thread.onLoadMore)
	on(widget.EventClick, ActionRetry, thread.onRetry)
}

// instrument records the outcome of every handled action. Errors the visitor
// has been told about are absorbed so the transport renders normally.
func (thread *Thread) instrument(action string, handler widget.Handler) widget.Handler {
	return func(ctx context.Context, ev widget.Event) (widget.Outcome, error) {
		outcome, err := handler(ctx, ev)

		switch {
		case err == nil:
			metrics.Action(ModuleName, action, metrics.OutcomeOK)
			return outcome, nil
		case apperr.HasCode(err, apperr.CodeBusy):
			metrics.Action(ModuleName, action, metrics.OutcomeSkipped)
			return widget.Unchanged(), nil
		case errors.Is(err, validate.ErrInvalidPayload),
			apperr.HasCode(err, apperr.CodeNotFound),
			apperr.HasCode(err, apperr.CodeForbidden),
			apperr.HasCode(err, apperr.CodeUnauthorized):
			metrics.Action(ModuleName, action, metrics.OutcomeRejected)
			thread.deps.Notifier.Toast(ctx, ui.KindError, thread.deps.Messages.ErrorText(err))
			return widget.Unchanged(), nil
		case apperr.HasCode(err, apperr.CodeValidation):
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

func (thread *Thread) onSubmit(ctx context.Context, ev widget.Event) (widget.Outcome, error) {
	draft := Draft{Content: ev.Value(FieldContent)}
	if raw := ev.Value(FieldParentID); raw != "" {
		parentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parentID <= 0 {
			return widget.Unchanged(), validate.ErrInvalidPayload
		}
		draft.ParentID = &parentID
	}
	if err := thread.SubmitComment(ctx, draft); err != nil {
		return widget.Unchanged(), err
	}
	return widget.Full(), nil
}

func (thread *Thread) onEdit(ctx context.Context, ev widget.Event) (widget.Outcome, error) {
	id, err := ev.TargetID()
	if err != nil {
		return widget.Unchanged(), err
	}
	if err := thread.EditComment(ctx, id); err != nil {
		return widget.Unchanged(), err
	}
	return widget.Item(id), nil
}

func (thread *Thread) onSaveEdit(ctx context.Context, ev widget.Event) (widget.Outcome, error) {
	id, err := ev.TargetID()
	if err != nil {
		return widget.Unchanged(), err
	}
	if err := thread.SaveEditComment(ctx, id, ev.Value(FieldContent)); err != nil {
		return widget.Unchanged(), err
	}
	return widget.Full(), nil
}

func (thread *Thread) onCancelEdit(_ context.Context, ev widget.Event) (widget.Outcome, error) {
	id, err := ev.TargetID()
	if err != nil {
		return widget.Unchanged(), err
	}
	thread.CancelEditComment(id)
	return widget.Item(id), nil
}

func (thread *Thread) onDelete(ctx context.Context, ev widget.Event) (widget.Outcome, error) {
	id, err := ev.TargetID()
	if err != nil {
		return widget.Unchanged(), err
	}
	deleted, err := thread.DeleteComment(ctx, id)
	if err != nil || !deleted {
		return widget.Unchanged(), err
	}
	return widget.Full(), nil
}

func (thread *Thread) onReact(isLike bool) widget.Handler {
	return func(ctx context.Context, ev widget.Event) (widget.Outcome, error) {
		id, err := ev.TargetID()
		if err != nil {
			return widget.Unchanged(), err
		}
		if err := thread.LikeComment(ctx, id, isLike); err != nil {
			return widget.Unchanged(), err
		}
		return widget.Item(id), nil
	}
}

func (thread *Thread) onReply(_ context.Context, ev widget.Event) (widget.Outcome, error) {
	id, err := ev.TargetID()
	if err != nil {
		return widget.Unchanged(), err
	}
	if err := thread.ShowReplyForm(id); err != nil {
		return widget.Unchanged(), err
	}
	return widget.Item(id), nil
}

func (thread *Thread) onCancelReply(_ context.Context, ev widget.Event) (widget.Outcome, error) {
	id, err := ev.TargetID()
	if err != nil {
		return widget.Unchanged(), err
	}
	thread.HideReplyForm(id)
	return widget.Item(id), nil
}

func (thread *Thread) onReport(_ context.Context, ev widget.Event) (widget.Outcome, error) {
	id, err := ev.TargetID()
	if err != nil {
		return widget.Unchanged(), err
	}
	if err := thread.ShowReportForm(id); err != nil {
		return widget.Unchanged(), err
	}
	return widget.Full(), nil
}

func (thread *Thread) onSubmitReport(ctx context.Context, ev widget.Event) (widget.Outcome, error) {
	id, err := ev.TargetID()
	if err != nil {
		return widget.Unchanged(), err
	}
	if err := thread.SubmitReport(ctx, id, ev.Value(FieldReason), ev.Value(FieldDescription)); err != nil {
		return widget.Unchanged(), err
	}
	return widget.Full(), nil
}

func (thread *Thread) onCancelReport(context.Context, widget.Event) (widget.Outcome, error) {
	thread.HideReportForm()
	return widget.Full(), nil
}

func (thread *Thread) onIntersect(ctx context.Context, ev widget.Event) (widget.Outcome, error) {
	before := thread.Snapshot().CurrentPage
	if !thread.observer.Notify(ctx, ev.Target, ev.Ratio) {
		return widget.Unchanged(), nil
	}
	after := thread.Snapshot()
	switch {
	case after.LoadFailed:
		return widget.Full(), nil
	case after.CurrentPage > before:
		return widget.Appended(), nil
	default:
		return widget.Unchanged(), nil
	}
}

func (thread *Thread) onLoadMore(ctx context.Context, _ widget.Event) (widget.Outcome, error) {
	loaded, err := thread.LoadMore(ctx)
	if err != nil {
		return widget.Full(), err
	}
	if !loaded {
		return widget.Unchanged(), nil
	}
	return widget.Appended(), nil
}

func (thread *Thread) onRetry(ctx context.Context, _ widget.Event) (widget.Outcome, error) {
	if err := thread.Retry(ctx); err != nil {
		return widget.Full(), err
	}
	return widget.Full(), nil
}
