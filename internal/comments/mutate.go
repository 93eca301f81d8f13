// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comments

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/yomira-widgets/internal/cmsapi"
	"github.com/taibuivan/yomira-widgets/internal/platform/apperr"
	"github.com/taibuivan/yomira-widgets/internal/platform/constants"
	"github.com/taibuivan/yomira-widgets/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-widgets/internal/platform/validate"
	"github.com/taibuivan/yomira-widgets/internal/ui"
	"github.com/taibuivan/yomira-widgets/pkg/pagination"
)

// ReportReasons are the reasons the CMS accepts for a report.
var ReportReasons = []string{"spam", "harassment", "inappropriate", "misinformation", "other"}

// Draft is a submitted comment form. ParentID is set for replies.
type Draft struct {
	Content  string
	ParentID *int64
}

// normalizeBody returns the NFC form of raw without surrounding whitespace.
func normalizeBody(raw string) string {
	return strings.TrimSpace(norm.NFC.String(raw))
}

func (thread *Thread) validateBody(body string) error {
	messages := thread.deps.Messages
	return (&validate.Validator{}).
		Custom("content", body == "", messages.CommentRequired).
		Custom("content", utf8.RuneCountInString(body) > constants.CommentMaxLength, messages.CommentTooLong).
		Err()
}

// fail toasts err and hands it back.
func (thread *Thread) fail(ctx context.Context, operation string, err error) error {
	level := slog.LevelWarn
	if ae := apperr.As(err); ae == nil || ae.Code == apperr.CodeInternal {
		level = slog.LevelError
	}
	thread.deps.Logger.Log(ctx, level, "comment_operation_failed",
		slog.String("content", thread.ref.Key()),
		slog.String("operation", operation),
		slog.Any("error", err),
	)
	thread.deps.Notifier.Toast(ctx, ui.KindError, thread.deps.Messages.ErrorText(err))
	return err
}

/*
SubmitComment posts a new comment or a reply.

Description: The body is NFC-normalized and trimmed, then checked before any
request: it must not be empty and holds at most 5000 characters. Only one
submission runs at a time; a concurrent call returns BUSY without a request.
On success the form is reset, the reply form closed and page 1 reloaded.

Errors:
  - apperr.CodeValidation: Empty or oversized body
  - apperr.CodeBusy: Another submission is in flight
  - apperr.CodeUpstream / CodeUpstreamUnreachable: The CMS refused or was unreachable
*/
func (thread *Thread) SubmitComment(ctx context.Context, draft Draft) error {
	body := normalizeBody(draft.Content)

	thread.mu.Lock()
	if draft.ParentID != nil {
		thread.replies[*draft.ParentID] = draft.Content
	} else {
		thread.draft = draft.Content
	}
	thread.mu.Unlock()

	if err := thread.validateBody(body); err != nil {
		thread.deps.Notifier.Toast(ctx, ui.KindWarning, err.Error())
		return err
	}

	if !thread.submitting.TryAcquire() {
		return apperr.Busy("Comment submission")
	}
	defer thread.submitting.Release()

	_, err := thread.deps.Backend.CreateComment(ctx, cmsapi.CreateComment{
		Content:     body,
		ContentType: string(thread.ref.Type),
		ContentID:   thread.ref.ID,
		ParentID:    draft.ParentID,
	})
	if err != nil {
		return thread.fail(ctx, "submit", err)
	}

	thread.mu.Lock()
	if draft.ParentID != nil {
		delete(thread.replies, *draft.ParentID)
	} else {
		thread.draft = ""
	}
	thread.mu.Unlock()

	thread.deps.Logger.Info("comment_submitted",
		slog.String("content", thread.ref.Key()),
		slog.Bool("reply", draft.ParentID != nil),
		slog.String("viewer", ctxutil.ViewerID(ctx)),
	)
	thread.deps.Notifier.Toast(ctx, ui.KindSuccess, thread.deps.Messages.CommentPosted)

	_ = thread.LoadComments(ctx, pagination.FirstPage)
	return nil
}

// Submitting reports whether a submission is in flight.
func (thread *Thread) Submitting() bool {
	return thread.submitting.Held()
}

// EditComment opens the edit form of one of the viewer's comments.
func (thread *Thread) EditComment(ctx context.Context, id int64) error {
	thread.mu.Lock()
	defer thread.mu.Unlock()

	comment := thread.findLocked(id)
	if comment == nil {
		return apperr.NotFound("Comment")
	}
	if !ownedBy(comment, ctxutil.ViewerID(ctx)) {
		return apperr.Forbidden("Only the author can edit this comment")
	}
	thread.editing[id] = comment.Content
	return nil
}

// SaveEditComment validates text like a new comment, sends it and reloads the thread.
func (thread *Thread) SaveEditComment(ctx context.Context, id int64, text string) error {
	body := normalizeBody(text)

	thread.mu.Lock()
	_, open := thread.editing[id]
	if open {
		thread.editing[id] = text
	}
	thread.mu.Unlock()

	if !open {
		return apperr.NotFound("Comment being edited")
	}
	if err := thread.validateBody(body); err != nil {
		thread.deps.Notifier.Toast(ctx, ui.KindWarning, err.Error())
		return err
	}

	if !thread.submitting.TryAcquire() {
		return apperr.Busy("Comment edit")
	}
	defer thread.submitting.Release()

	if _, err := thread.deps.Backend.EditComment(ctx, id, body); err != nil {
		return thread.fail(ctx, "edit", err)
	}

	thread.mu.Lock()
	delete(thread.editing, id)
	thread.mu.Unlock()

	thread.deps.Notifier.Toast(ctx, ui.KindSuccess, thread.deps.Messages.CommentUpdated)
	_ = thread.ReloadLoaded(ctx)
	return nil
}

// CancelEditComment closes the edit form and drops its draft.
func (thread *Thread) CancelEditComment(id int64) {
	thread.mu.Lock()
	defer thread.mu.Unlock()
	delete(thread.editing, id)
}

/*
DeleteComment removes a comment after the visitor confirmed it.

Description: Authors can delete their comments, moderators any comment.
When the confirmer has only asked the question (a modal is now showing),
deleted is false with a nil error; the confirmed replay performs the deletion.

Returns:
  - bool: Whether the comment was deleted
  - error: Permission, confirmation or upstream failure
*/
func (thread *Thread) DeleteComment(ctx context.Context, id int64) (deleted bool, err error) {
	thread.mu.Lock()
	comment := thread.findLocked(id)
	var allowed bool
	if comment != nil {
		allowed = ownedBy(comment, ctxutil.ViewerID(ctx)) || ctxutil.GetAuthUser(ctx).CanModerate()
	}
	thread.mu.Unlock()

	if comment == nil {
		return false, apperr.NotFound("Comment")
	}
	if !allowed {
		return false, apperr.Forbidden("You cannot delete this comment")
	}

	messages := thread.deps.Messages
	confirmed, err := thread.deps.Confirmer.Confirm(ctx, ui.Prompt{
		Title:        messages.DeleteCommentTitle,
		Message:      messages.DeleteCommentMessage,
		ConfirmLabel: messages.Delete,
		CancelLabel:  messages.Cancel,
		Danger:       true,
	})
	if err != nil {
		return false, thread.fail(ctx, "delete", err)
	}
	if !confirmed {
		return false, nil
	}

	if _, err := thread.deps.Backend.DeleteComment(ctx, id); err != nil {
		return false, thread.fail(ctx, "delete", err)
	}

	thread.mu.Lock()
	delete(thread.editing, id)
	delete(thread.replies, id)
	thread.mu.Unlock()

	thread.deps.Logger.Info("comment_deleted",
		slog.String("content", thread.ref.Key()),
		slog.Int64("comment_id", id),
		slog.String("viewer", ctxutil.ViewerID(ctx)),
	)
	thread.deps.Notifier.Toast(ctx, ui.KindSuccess, messages.CommentDeleted)
	_ = thread.ReloadLoaded(ctx)
	return true, nil
}

// LikeComment reacts to a comment and patches its counters from the CMS answer.
// isLike=false is a dislike.
func (thread *Thread) LikeComment(ctx context.Context, id int64, isLike bool) error {
	result, err := thread.deps.Backend.LikeComment(ctx, id, isLike)
	if err != nil {
		return thread.fail(ctx, "like", err)
	}

	thread.mu.Lock()
	defer thread.mu.Unlock()

	if comment := thread.findLocked(id); comment != nil {
		comment.LikesCount = result.LikesCount
		comment.DislikesCount = result.DislikesCount
		comment.UserLiked = result.UserLiked
		comment.UserDisliked = result.UserDisliked
	}
	for i := range thread.comments {
		if thread.comments[i].ID == id {
			thread.comments[i].LikesCount = result.LikesCount
			thread.comments[i].DislikesCount = result.DislikesCount
			thread.comments[i].UserLiked = result.UserLiked
			thread.comments[i].UserDisliked = result.UserDisliked
		}
	}
	return nil
}

// ShowReplyForm toggles the reply form under id.
func (thread *Thread) ShowReplyForm(id int64) error {
	thread.mu.Lock()
	defer thread.mu.Unlock()

	if thread.findLocked(id) == nil {
		return apperr.NotFound("Comment")
	}
	if _, open := thread.replies[id]; open {
		delete(thread.replies, id)
		return nil
	}
	thread.replies[id] = ""
	return nil
}

// HideReplyForm closes the reply form under id.
func (thread *Thread) HideReplyForm(id int64) {
	thread.mu.Lock()
	defer thread.mu.Unlock()
	delete(thread.replies, id)
}

// ShowReportForm opens the report dialog for id.
func (thread *Thread) ShowReportForm(id int64) error {
	thread.mu.Lock()
	defer thread.mu.Unlock()

	if thread.findLocked(id) == nil {
		return apperr.NotFound("Comment")
	}
	thread.reportingID = id
	return nil
}

// HideReportForm closes the report dialog.
func (thread *Thread) HideReportForm() {
	thread.mu.Lock()
	defer thread.mu.Unlock()
	thread.reportingID = 0
}

// SubmitReport sends a report. reason must be one of [ReportReasons] and the
// description holds at most 1000 characters.
func (thread *Thread) SubmitReport(ctx context.Context, id int64, reason, description string) error {
	description = strings.TrimSpace(description)

	err := (&validate.Validator{}).
		Custom("reason", !isReportReason(reason), thread.deps.Messages.ReportReasonRequired).
		MaxLen("description", description, constants.ReportDescriptionMaxLength).
		Err()
	if err != nil {
		thread.deps.Notifier.Toast(ctx, ui.KindWarning, err.Error())
		return err
	}

	if !thread.submitting.TryAcquire() {
		return apperr.Busy("Comment report")
	}
	defer thread.submitting.Release()

	if _, err := thread.deps.Backend.ReportComment(ctx, id, cmsapi.Report{Reason: reason, Description: description}); err != nil {
		return thread.fail(ctx, "report", err)
	}

	thread.mu.Lock()
	thread.reportingID = 0
	thread.mu.Unlock()

	thread.deps.Logger.Info("comment_reported",
		slog.String("content", thread.ref.Key()),
		slog.Int64("comment_id", id),
		slog.String("reason", reason),
	)
	thread.deps.Notifier.Toast(ctx, ui.KindSuccess, thread.deps.Messages.ReportSent)
	return nil
}

func isReportReason(reason string) bool {
	for _, allowed := range ReportReasons {
		if reason == allowed {
			return true
		}
	}
	return false
}

func ownedBy(comment *cmsapi.Comment, viewerID string) bool {
	return viewerID != "" && strconv.FormatInt(comment.UserID, 10) == viewerID
}
