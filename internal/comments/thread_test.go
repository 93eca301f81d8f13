// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comments_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-widgets/internal/cmsapi"
	"github.com/taibuivan/yomira-widgets/internal/comments"
	"github.com/taibuivan/yomira-widgets/internal/content"
	"github.com/taibuivan/yomira-widgets/internal/platform/apperr"
	"github.com/taibuivan/yomira-widgets/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-widgets/internal/platform/sec"
	"github.com/taibuivan/yomira-widgets/internal/ui"
	"github.com/taibuivan/yomira-widgets/internal/widget"
	"github.com/taibuivan/yomira-widgets/pkg/pagination"
)

// # Test Fixtures

type fakeBackend struct {
	mu      sync.Mutex
	list    func(params pagination.Params) (*cmsapi.CommentPage, error)
	create  func(input cmsapi.CreateComment) error
	like    *cmsapi.LikeResult
	calls   map[string]int
	created []cmsapi.CreateComment
	deleted []int64
	edited  map[int64]string
	reports []cmsapi.Report
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: map[string]int{}, edited: map[int64]string{}}
}

func (backend *fakeBackend) count(name string) int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.calls[name]
}

func (backend *fakeBackend) record(name string) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.calls[name]++
}

func (backend *fakeBackend) ListComments(_ context.Context, _ content.Ref, params pagination.Params) (*cmsapi.CommentPage, error) {
	backend.record("list")
	if backend.list == nil {
		return &cmsapi.CommentPage{}, nil
	}
	return backend.list(params)
}

func (backend *fakeBackend) CreateComment(_ context.Context, input cmsapi.CreateComment) (*cmsapi.MessageResponse, error) {
	backend.record("create")
	backend.mu.Lock()
	backend.created = append(backend.created, input)
	hook := backend.create
	backend.mu.Unlock()
	if hook != nil {
		if err := hook(input); err != nil {
			return nil, err
		}
	}
	return &cmsapi.MessageResponse{Message: "ok"}, nil
}

func (backend *fakeBackend) EditComment(_ context.Context, id int64, text string) (*cmsapi.MessageResponse, error) {
	backend.record("edit")
	backend.mu.Lock()
	backend.edited[id] = text
	backend.mu.Unlock()
	return &cmsapi.MessageResponse{Message: "ok"}, nil
}

func (backend *fakeBackend) DeleteComment(_ context.Context, id int64) (*cmsapi.MessageResponse, error) {
	backend.record("delete")
	backend.mu.Lock()
	backend.deleted = append(backend.deleted, id)
	backend.mu.Unlock()
	return &cmsapi.MessageResponse{Message: "ok"}, nil
}

func (backend *fakeBackend) LikeComment(_ context.Context, _ int64, _ bool) (*cmsapi.LikeResult, error) {
	backend.record("like")
	return backend.like, nil
}

func (backend *fakeBackend) ReportComment(_ context.Context, _ int64, report cmsapi.Report) (*cmsapi.MessageResponse, error) {
	backend.record("report")
	backend.mu.Lock()
	backend.reports = append(backend.reports, report)
	backend.mu.Unlock()
	return &cmsapi.MessageResponse{Message: "ok"}, nil
}

// makeComments builds n comments with ids starting at first, authored by user 7.
func makeComments(first, n int) []cmsapi.Comment {
	list := make([]cmsapi.Comment, 0, n)
	for i := 0; i < n; i++ {
		id := int64(first + i)
		list = append(list, cmsapi.Comment{ID: id, UserID: 7, AuthorName: "Siti", Content: fmt.Sprintf("Komentar %d", id)})
	}
	return list
}

// twelveThenFive serves a full first page and a partial second page.
func twelveThenFive(params pagination.Params) (*cmsapi.CommentPage, error) {
	switch params.Page {
	case 1:
		return &cmsapi.CommentPage{Comments: makeComments(1, 12)}, nil
	case 2:
		return &cmsapi.CommentPage{Comments: makeComments(13, 5)}, nil
	default:
		return &cmsapi.CommentPage{}, nil
	}
}

var news = content.Ref{Type: content.TypeNews, ID: 42}

func newThread(t *testing.T, backend *fakeBackend, recorder *ui.Recorder, confirmer ui.Confirmer) *comments.Thread {
	t.Helper()
	if confirmer == nil {
		confirmer = ui.Always(true)
	}
	thread, err := comments.New(context.Background(), news, comments.DefaultOptions(), comments.Deps{
		Backend:   backend,
		Notifier:  recorder,
		Confirmer: confirmer,
		Messages:  ui.Catalog("en"),
	})
	require.NoError(t, err)
	return thread
}

func viewer(userID, role string) context.Context {
	return ctxutil.WithAuthUser(context.Background(), &sec.AuthClaims{UserID: userID, Role: role})
}

// # Loading

/*
TestThread_LoadsUntilExhausted walks 12 + 5 comments into a single accumulated list.
*/
func TestThread_LoadsUntilExhausted(t *testing.T) {
	backend := newFakeBackend()
	backend.list = twelveThenFive
	thread := newThread(t, backend, &ui.Recorder{}, nil)

	snapshot := thread.Snapshot()
	require.Len(t, snapshot.AllComments, 12)
	assert.True(t, snapshot.HasMore)
	assert.Equal(t, comments.StateIdle, snapshot.State)
	assert.Equal(t, comments.ItemID(12), thread.Observer().Target())

	loaded, err := thread.LoadMore(context.Background())
	require.NoError(t, err)
	assert.True(t, loaded)

	snapshot = thread.Snapshot()
	assert.Len(t, snapshot.AllComments, 17)
	assert.Len(t, snapshot.Comments, 5)
	assert.Equal(t, 2, snapshot.CurrentPage)
	assert.False(t, snapshot.HasMore)
	assert.Equal(t, comments.StateExhausted, snapshot.State)
	assert.Empty(t, thread.Observer().Target())

	loaded, err = thread.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, 2, backend.count("list"))
}

/*
TestThread_ExplicitHasMore prefers upstream metadata over the page-size heuristic.
*/
func TestThread_ExplicitHasMore(t *testing.T) {
	backend := newFakeBackend()
	more := true
	backend.list = func(pagination.Params) (*cmsapi.CommentPage, error) {
		return &cmsapi.CommentPage{Comments: makeComments(1, 3), Meta: pagination.Meta{HasMore: &more}}, nil
	}
	thread := newThread(t, backend, &ui.Recorder{}, nil)
	assert.True(t, thread.Snapshot().HasMore)
}

/*
TestThread_LoadFailureKeepsComments checks a failed page keeps what is listed.
*/
func TestThread_LoadFailureKeepsComments(t *testing.T) {
	backend := newFakeBackend()
	backend.list = func(params pagination.Params) (*cmsapi.CommentPage, error) {
		if params.Page == 2 {
			return nil, apperr.Unreachable(fmt.Errorf("dial tcp: refused"))
		}
		return twelveThenFive(params)
	}
	recorder := &ui.Recorder{}
	thread := newThread(t, backend, recorder, nil)

	_, err := thread.LoadMore(context.Background())
	require.Error(t, err)

	snapshot := thread.Snapshot()
	assert.Len(t, snapshot.AllComments, 12)
	assert.True(t, snapshot.LoadFailed)
	assert.False(t, snapshot.IsLoading)
	assert.Equal(t, ui.Toast{Kind: ui.KindError, Message: "Failed to load comments."}, recorder.Last())

	var out strings.Builder
	_, err = thread.Render(context.Background(), &out, widget.Frame{EventURL: "/e"}, widget.Full())
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"action":"retry"`)

	backend.list = twelveThenFive
	require.NoError(t, thread.Retry(context.Background()))
	assert.Len(t, thread.Snapshot().AllComments, 17)
}

/*
TestThread_StaleLoadDiscarded lets a page-1 reload overtake an in-flight page 2.
*/
func TestThread_StaleLoadDiscarded(t *testing.T) {
	backend := newFakeBackend()
	release := make(chan struct{})
	started := make(chan struct{})
	backend.list = func(params pagination.Params) (*cmsapi.CommentPage, error) {
		if params.Page == 2 {
			close(started)
			<-release
		}
		return twelveThenFive(params)
	}
	thread := newThread(t, backend, &ui.Recorder{}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = thread.LoadMore(context.Background())
	}()
	<-started

	require.NoError(t, thread.LoadComments(context.Background(), 1))
	close(release)
	<-done

	snapshot := thread.Snapshot()
	assert.Len(t, snapshot.AllComments, 12)
	assert.Equal(t, 1, snapshot.CurrentPage)
	assert.False(t, snapshot.IsLoading)
}

// # Submissions

/*
TestThread_SubmitValidation rejects empty and oversized bodies without a request.
*/
func TestThread_SubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"empty", "", "Comment cannot be empty."},
		{"whitespace", " \n\t", "Comment cannot be empty."},
		{"too_long", strings.Repeat("a", 5001), "Comments are limited to 5000 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			recorder := &ui.Recorder{}
			thread := newThread(t, backend, recorder, nil)

			err := thread.SubmitComment(viewer("7", "member"), comments.Draft{Content: tt.content})
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
			assert.Equal(t, 0, backend.count("create"))
			assert.Equal(t, ui.Toast{Kind: ui.KindWarning, Message: tt.message}, recorder.Last())
		})
	}
}

/*
TestThread_SubmitNormalizes sends the NFC, trimmed body and reloads page 1.
*/
func TestThread_SubmitNormalizes(t *testing.T) {
	backend := newFakeBackend()
	backend.list = twelveThenFive
	recorder := &ui.Recorder{}
	thread := newThread(t, backend, recorder, nil)
	_, _ = thread.LoadMore(context.Background())

	parent := int64(3)
	require.NoError(t, thread.ShowReplyForm(parent))
	err := thread.SubmitComment(viewer("7", "member"), comments.Draft{Content: "  Café enak  ", ParentID: &parent})
	require.NoError(t, err)

	require.Len(t, backend.created, 1)
	assert.Equal(t, "Café enak", backend.created[0].Content)
	assert.Equal(t, "news", backend.created[0].ContentType)
	assert.Equal(t, int64(42), backend.created[0].ContentID)
	assert.Equal(t, &parent, backend.created[0].ParentID)

	snapshot := thread.Snapshot()
	assert.Empty(t, snapshot.ReplyOpen)
	assert.Equal(t, 1, snapshot.CurrentPage)
	assert.Len(t, snapshot.AllComments, 12)
	assert.Equal(t, ui.Toast{Kind: ui.KindSuccess, Message: "Comment posted."}, recorder.Last())
}

/*
TestThread_SubmitSingleFlight lets only one of two overlapping submissions through.
*/
func TestThread_SubmitSingleFlight(t *testing.T) {
	backend := newFakeBackend()
	entered := make(chan struct{})
	release := make(chan struct{})
	backend.create = func(cmsapi.CreateComment) error {
		close(entered)
		<-release
		return nil
	}
	thread := newThread(t, backend, &ui.Recorder{}, nil)
	ctx := viewer("7", "member")

	first := make(chan error, 1)
	go func() { first <- thread.SubmitComment(ctx, comments.Draft{Content: "Pertama"}) }()
	<-entered

	assert.True(t, thread.Submitting())
	err := thread.SubmitComment(ctx, comments.Draft{Content: "Kedua"})
	assert.True(t, apperr.HasCode(err, apperr.CodeBusy))

	close(release)
	require.NoError(t, <-first)
	assert.Equal(t, 1, backend.count("create"))
	assert.False(t, thread.Submitting())
}

/*
TestThread_UpstreamMessageToasted shows the CMS error text as is.
*/
func TestThread_UpstreamMessageToasted(t *testing.T) {
	backend := newFakeBackend()
	backend.create = func(cmsapi.CreateComment) error {
		return apperr.Upstream(403, "Akun Anda dibatasi", nil)
	}
	recorder := &ui.Recorder{}
	thread := newThread(t, backend, recorder, nil)

	err := thread.SubmitComment(viewer("7", "member"), comments.Draft{Content: "Halo"})
	require.Error(t, err)
	assert.Equal(t, ui.Toast{Kind: ui.KindError, Message: "Akun Anda dibatasi"}, recorder.Last())
	assert.False(t, thread.Submitting())
}

// # Edit, Delete, React

/*
TestThread_EditFlow opens, saves and reloads an owned comment.
*/
func TestThread_EditFlow(t *testing.T) {
	backend := newFakeBackend()
	backend.list = twelveThenFive
	thread := newThread(t, backend, &ui.Recorder{}, nil)

	assert.True(t, apperr.HasCode(thread.EditComment(viewer("8", "member"), 2), apperr.CodeForbidden))

	ctx := viewer("7", "member")
	require.NoError(t, thread.EditComment(ctx, 2))
	assert.Equal(t, []int64{2}, thread.Snapshot().Editing)

	err := thread.SaveEditComment(ctx, 2, "")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Equal(t, 0, backend.count("edit"))

	require.NoError(t, thread.SaveEditComment(ctx, 2, "Sudah diperbaiki"))
	assert.Equal(t, "Sudah diperbaiki", backend.edited[2])
	assert.Empty(t, thread.Snapshot().Editing)

	require.NoError(t, thread.EditComment(ctx, 3))
	thread.CancelEditComment(3)
	assert.Empty(t, thread.Snapshot().Editing)
}

/*
TestThread_EditKeepsLoadedPages refreshes every loaded page after an edit.
*/
func TestThread_EditKeepsLoadedPages(t *testing.T) {
	backend := newFakeBackend()
	backend.list = twelveThenFive
	thread := newThread(t, backend, &ui.Recorder{}, nil)

	_, err := thread.LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, thread.Snapshot().CurrentPage)

	ctx := viewer("7", "member")
	require.NoError(t, thread.EditComment(ctx, 15))
	require.NoError(t, thread.SaveEditComment(ctx, 15, "Ralat"))

	snapshot := thread.Snapshot()
	assert.Equal(t, 2, snapshot.CurrentPage)
	assert.Len(t, snapshot.AllComments, 17)
	assert.Equal(t, int64(15), snapshot.AllComments[14].ID)
	assert.Equal(t, 4, backend.count("list"))
}

/*
TestThread_DeleteKeepsLoadedPages reloads the loaded pages against the shortened thread.
*/
func TestThread_DeleteKeepsLoadedPages(t *testing.T) {
	backend := newFakeBackend()
	stored := makeComments(1, 17)
	backend.list = func(params pagination.Params) (*cmsapi.CommentPage, error) {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		start := (params.Page - 1) * params.PerPage
		if start >= len(stored) {
			return &cmsapi.CommentPage{}, nil
		}
		end := min(start+params.PerPage, len(stored))
		return &cmsapi.CommentPage{Comments: append([]cmsapi.Comment(nil), stored[start:end]...)}, nil
	}
	thread := newThread(t, backend, &ui.Recorder{}, nil)
	_, err := thread.LoadMore(context.Background())
	require.NoError(t, err)

	backend.mu.Lock()
	stored = append(stored[:2:2], stored[3:]...)
	backend.mu.Unlock()

	deleted, err := thread.DeleteComment(viewer("7", "member"), 3)
	require.NoError(t, err)
	require.True(t, deleted)

	snapshot := thread.Snapshot()
	assert.Equal(t, 2, snapshot.CurrentPage)
	assert.Len(t, snapshot.AllComments, 16)
	for _, comment := range snapshot.AllComments {
		assert.NotEqual(t, int64(3), comment.ID)
	}
	assert.False(t, snapshot.HasMore)
}

/*
TestThread_DeleteNeedsConfirmation skips the request when the visitor declines.
*/
func TestThread_DeleteNeedsConfirmation(t *testing.T) {
	backend := newFakeBackend()
	backend.list = twelveThenFive
	declined := newThread(t, backend, &ui.Recorder{}, ui.Always(false))

	deleted, err := declined.DeleteComment(viewer("7", "member"), 4)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 0, backend.count("delete"))

	accepted := newThread(t, backend, &ui.Recorder{}, ui.Always(true))
	_, err = accepted.DeleteComment(viewer("8", "member"), 4)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	deleted, err = accepted.DeleteComment(viewer("8", "moderator"), 4)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []int64{4}, backend.deleted)
}

/*
TestThread_DeleteWithModal replays the event once the modal is accepted.
*/
func TestThread_DeleteWithModal(t *testing.T) {
	backend := newFakeBackend()
	backend.list = twelveThenFive
	thread := newThread(t, backend, &ui.Recorder{}, ui.ModalConfirmer{})

	feed := ui.NewFeed(false, ui.Repost{URL: "/e"})
	ctx := ui.WithFeed(viewer("7", "member"), feed)
	deleted, err := thread.DeleteComment(ctx, 5)
	require.NoError(t, err)
	assert.False(t, deleted)
	require.Len(t, feed.Modals(), 1)
	assert.True(t, feed.Modals()[0].Danger)

	ctx = ui.WithFeed(viewer("7", "member"), ui.NewFeed(true, ui.Repost{URL: "/e"}))
	deleted, err = thread.DeleteComment(ctx, 5)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 1, backend.count("delete"))
}

/*
TestThread_LikePatchesFromResponse copies the answered counters verbatim.
*/
func TestThread_LikePatchesFromResponse(t *testing.T) {
	backend := newFakeBackend()
	backend.list = twelveThenFive
	backend.like = &cmsapi.LikeResult{LikesCount: 9, DislikesCount: 2, UserLiked: true}
	thread := newThread(t, backend, &ui.Recorder{}, nil)

	outcome, handled, err := thread.Dispatch(viewer("8", "member"), widget.Event{Type: widget.EventClick, Action: comments.ActionLike, Target: "6"})
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, widget.Item(6), outcome)

	liked := thread.Snapshot().AllComments[5]
	assert.Equal(t, 9, liked.LikesCount)
	assert.Equal(t, 2, liked.DislikesCount)
	assert.True(t, liked.UserLiked)
	assert.False(t, liked.UserDisliked)
	assert.Equal(t, 1, backend.count("list"))

	var out strings.Builder
	swap, err := thread.Render(viewer("8", "member"), &out, widget.Frame{EventURL: "/e"}, outcome)
	require.NoError(t, err)
	assert.Equal(t, widget.Swap{Target: "#comment-6", Strategy: widget.SwapOuterHTML}, swap)
	assert.True(t, strings.HasPrefix(out.String(), `<li id="comment-6"`))
	assert.Contains(t, out.String(), `btn-like active`)
}

// # Replies and Reports

/*
TestThread_ReplyToggles keeps at most one reply form per comment.
*/
func TestThread_ReplyToggles(t *testing.T) {
	backend := newFakeBackend()
	backend.list = twelveThenFive
	thread := newThread(t, backend, &ui.Recorder{}, nil)

	require.NoError(t, thread.ShowReplyForm(1))
	assert.Equal(t, []int64{1}, thread.Snapshot().ReplyOpen)
	require.NoError(t, thread.ShowReplyForm(1))
	assert.Empty(t, thread.Snapshot().ReplyOpen)

	assert.True(t, apperr.HasCode(thread.ShowReplyForm(999), apperr.CodeNotFound))
}

/*
TestThread_ReportValidation requires a known reason and a bounded description.
*/
func TestThread_ReportValidation(t *testing.T) {
	backend := newFakeBackend()
	backend.list = twelveThenFive
	thread := newThread(t, backend, &ui.Recorder{}, nil)
	ctx := viewer("8", "member")
	require.NoError(t, thread.ShowReportForm(2))

	assert.Error(t, thread.SubmitReport(ctx, 2, "", ""))
	assert.Error(t, thread.SubmitReport(ctx, 2, "boring", ""))
	assert.Error(t, thread.SubmitReport(ctx, 2, "spam", strings.Repeat("x", 1001)))
	assert.Equal(t, 0, backend.count("report"))
	assert.Equal(t, int64(2), thread.Snapshot().ReportingID)

	require.NoError(t, thread.SubmitReport(ctx, 2, "spam", "  Tautan iklan  "))
	assert.Equal(t, []cmsapi.Report{{Reason: "spam", Description: "Tautan iklan"}}, backend.reports)
	assert.Zero(t, thread.Snapshot().ReportingID)
}

// # Lifecycle

/*
TestNew_RejectsChapters refuses content types without comments.
*/
func TestNew_RejectsChapters(t *testing.T) {
	_, err := comments.New(context.Background(), content.Ref{Type: content.TypeChapter, ID: 1}, comments.DefaultOptions(), comments.Deps{Backend: newFakeBackend()})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestThread_IntersectLoadsNextPage drives auto-load through the dispatch table.
*/
func TestThread_IntersectLoadsNextPage(t *testing.T) {
	backend := newFakeBackend()
	backend.list = twelveThenFive
	thread := newThread(t, backend, &ui.Recorder{}, nil)

	below := widget.Event{Type: widget.EventIntersect, Action: comments.ActionIntersect, Target: comments.ItemID(12), Ratio: 0.5}
	outcome, _, err := thread.Dispatch(context.Background(), below)
	require.NoError(t, err)
	assert.Equal(t, widget.Unchanged(), outcome)

	visible := below
	visible.Ratio = 0.8
	outcome, _, err = thread.Dispatch(context.Background(), visible)
	require.NoError(t, err)
	assert.Equal(t, widget.Appended(), outcome)
	assert.Len(t, thread.Snapshot().AllComments, 17)

	var out strings.Builder
	swap, err := thread.Render(context.Background(), &out, widget.Frame{EventURL: "/e"}, outcome)
	require.NoError(t, err)
	assert.Equal(t, "#comments-news-42-list", swap.Target)
	assert.Equal(t, widget.SwapBeforeEnd, swap.Strategy)
	assert.Equal(t, 5, strings.Count(out.String(), `<li id="comment-`))
	assert.Contains(t, out.String(), `hx-swap-oob="true"`)
}

/*
TestThread_Destroy releases the bindings and the observer.
*/
func TestThread_Destroy(t *testing.T) {
	backend := newFakeBackend()
	backend.list = twelveThenFive
	thread := newThread(t, backend, &ui.Recorder{}, nil)
	assert.Equal(t, 15, thread.Bindings().Len())

	thread.Destroy()
	thread.Destroy()

	assert.True(t, thread.Destroyed())
	assert.False(t, thread.Observer().Connected())
	assert.Zero(t, thread.Bindings().Len())

	_, handled, err := thread.Dispatch(context.Background(), widget.Event{Action: comments.ActionLoadMore})
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Equal(t, 1, backend.count("list"))
}

// # Rendering

/*
TestRender_EscapesAndGatesControls escapes bodies and shows owner controls only to the owner.
*/
func TestRender_EscapesAndGatesControls(t *testing.T) {
	backend := newFakeBackend()
	backend.list = func(pagination.Params) (*cmsapi.CommentPage, error) {
		return &cmsapi.CommentPage{Comments: []cmsapi.Comment{
			{ID: 1, UserID: 7, AuthorName: "<b>Siti</b>", Content: `<script>alert("x")</script>`,
				Replies: []cmsapi.Comment{{ID: 2, UserID: 9, AuthorName: "Budi", Content: "Setuju"}}},
		}}, nil
	}
	thread := newThread(t, backend, &ui.Recorder{}, nil)
	frame := widget.Frame{EventURL: "/widgets/s/comments/events", CSRFToken: "tok"}

	var owner strings.Builder
	swap, err := thread.Render(viewer("7", "member"), &owner, frame, widget.Full())
	require.NoError(t, err)
	assert.Equal(t, "#comments-news-42", swap.Target)

	html := owner.String()
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<b>Siti</b>")
	assert.Contains(t, html, `"action":"edit","target":"1"`)
	assert.NotContains(t, html, `"action":"edit","target":"2"`)
	assert.Contains(t, html, `comment-reply`)
	assert.Contains(t, html, `name="csrf_token" value="tok"`)
	assert.Contains(t, html, `hx-headers="{&#34;X-CSRFToken&#34;:&#34;tok&#34;}"`)

	var anonymous strings.Builder
	_, err = thread.Render(context.Background(), &anonymous, frame, widget.Full())
	require.NoError(t, err)
	assert.NotContains(t, anonymous.String(), `"action":"edit"`)
	assert.NotContains(t, anonymous.String(), `class="comment-form"`)
	assert.Contains(t, anonymous.String(), "Log in to join the discussion.")

	var moderator strings.Builder
	_, err = thread.Render(viewer("1", "moderator"), &moderator, frame, widget.Full())
	require.NoError(t, err)
	assert.Contains(t, moderator.String(), `"action":"delete","target":"2"`)
}

/*
TestRender_EmptyThread shows the placeholder once loaded.
*/
func TestRender_EmptyThread(t *testing.T) {
	thread := newThread(t, newFakeBackend(), &ui.Recorder{}, nil)

	var out strings.Builder
	_, err := thread.Render(context.Background(), &out, widget.Frame{}, widget.Full())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No comments yet. Be the first!")
}
