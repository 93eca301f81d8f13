// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comments implements the comment thread widget of a content page.

A [Thread] owns the paginated, nested comment list of one [content.Ref] and lets
the visitor create, edit, delete, like, dislike, reply to and report comments.

# State

The thread keeps an explicit view-model: the accumulated comments, the page
cursor, and which comment is being edited, replied to or reported. Rendering
is a projection of that state; nothing is read back from the rendered HTML.

# Authority

Counts and content always come from the CMS. A new comment reloads page 1.
Edits and deletions reload every page loaded so far. Like/dislike patches the
reacted comment with the counts the CMS answered.

# Lifecycle

A page holds at most one live thread. [Thread.Destroy] disconnects the
load-more observer and releases the dispatch table.
*/
package comments

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/taibuivan/yomira-widgets/internal/cmsapi"
	"github.com/taibuivan/yomira-widgets/internal/content"
	"github.com/taibuivan/yomira-widgets/internal/platform/apperr"
	"github.com/taibuivan/yomira-widgets/internal/platform/constants"
	"github.com/taibuivan/yomira-widgets/internal/ui"
	"github.com/taibuivan/yomira-widgets/internal/widget"
	"github.com/taibuivan/yomira-widgets/pkg/pagination"
)

// ModuleName labels the thread in logs and metrics.
const ModuleName = "comments"

// Backend is the part of the CMS API the thread consumes.
type Backend interface {
	ListComments(ctx context.Context, ref content.Ref, params pagination.Params) (*cmsapi.CommentPage, error)
	CreateComment(ctx context.Context, input cmsapi.CreateComment) (*cmsapi.MessageResponse, error)
	EditComment(ctx context.Context, id int64, text string) (*cmsapi.MessageResponse, error)
	DeleteComment(ctx context.Context, id int64) (*cmsapi.MessageResponse, error)
	LikeComment(ctx context.Context, id int64, isLike bool) (*cmsapi.LikeResult, error)
	ReportComment(ctx context.Context, id int64, report cmsapi.Report) (*cmsapi.MessageResponse, error)
}

// Options tune a thread. Start from [DefaultOptions].
type Options struct {
	AutoLoad          bool
	PerPage           int
	AutoLoadMore      bool
	LoadMoreThreshold float64
}

// DefaultOptions returns autoLoad, 12 per page, autoLoadMore and a 0.8 threshold.
func DefaultOptions() Options {
	return Options{
		AutoLoad:          true,
		PerPage:           constants.DefaultCommentsPerPage,
		AutoLoadMore:      true,
		LoadMoreThreshold: constants.DefaultLoadMoreThreshold,
	}
}

func (options Options) normalized() Options {
	if options.PerPage < 1 || options.PerPage > pagination.MaxPerPage {
		options.PerPage = constants.DefaultCommentsPerPage
	}
	if options.LoadMoreThreshold <= 0 || options.LoadMoreThreshold > 1 {
		options.LoadMoreThreshold = constants.DefaultLoadMoreThreshold
	}
	return options
}

// Deps are the collaborators of a thread.
type Deps struct {
	Backend   Backend
	Notifier  ui.Notifier
	Confirmer ui.Confirmer
	Messages  ui.Messages
	Logger    *slog.Logger
}

// LoadState is the auto-load state machine.
type LoadState string

const (
	StateIdle      LoadState = "idle"
	StateLoading   LoadState = "loading"
	StateExhausted LoadState = "exhausted"
)

// Thread is one live comment widget.
type Thread struct {
	ref      content.Ref
	options  Options
	deps     Deps
	bindings *widget.Bindings
	observer *widget.Observer

	submitting widget.Guard

	mu          sync.Mutex
	currentPage int
	allComments []cmsapi.Comment
	comments    []cmsapi.Comment
	hasMore     bool
	loaded      bool
	loadFailed  bool
	failedPage  int
	isLoading   bool
	generation  uint64
	destroyed   bool

	draft       string
	editing     map[int64]string
	replies     map[int64]string
	reportingID int64
}

/*
New creates and binds a thread for ref.

Description: Registers the dispatch table, connects the load-more observer and,
when AutoLoad is set, loads page 1. A failed initial load is not an error of New:
the thread renders an inline retry state instead.

Returns:
  - *Thread: The live thread
  - error: Validation error if ref cannot carry comments
*/
func New(ctx context.Context, ref content.Ref, options Options, deps Deps) (*Thread, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if !ref.Type.Commentable() {
		return nil, apperr.ValidationError(fmt.Sprintf("Comments are not available for %s content", ref.Type))
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

	options = options.normalized()
	thread := &Thread{
		ref:      ref,
		options:  options,
		deps:     deps,
		bindings: widget.NewBindings(ScopeFor(ref)),
		editing:  make(map[int64]string),
		replies:  make(map[int64]string),
	}

	thread.observer = widget.NewObserver(widget.ObserverOptions{
		Root:       "#" + ScopeFor(ref),
		RootMargin: "0px",
		Threshold:  options.LoadMoreThreshold,
	}, func(ctx context.Context) {
		_, _ = thread.LoadMore(ctx)
	})

	thread.bind()

	deps.Logger.Debug("comment_thread_initialized",
		slog.String("content", ref.Key()),
		slog.Int("per_page", options.PerPage),
	)

	if options.AutoLoad {
		_ = thread.LoadComments(ctx, pagination.FirstPage)
	}

	return thread, nil
}

// ScopeFor is the container id of the thread of ref.
func ScopeFor(ref content.Ref) string {
	return "comments-" + ref.Key()
}

// Ref returns the content the thread belongs to.
func (thread *Thread) Ref() content.Ref { return thread.ref }

// Options returns the effective options.
func (thread *Thread) Options() Options { return thread.options }

// Bindings exposes the dispatch table.
func (thread *Thread) Bindings() *widget.Bindings { return thread.bindings }

// Observer exposes the load-more observer.
func (thread *Thread) Observer() *widget.Observer { return thread.observer }

// Dispatch routes a visitor event through the thread's dispatch table.
func (thread *Thread) Dispatch(ctx context.Context, ev widget.Event) (widget.Outcome, bool, error) {
	return thread.bindings.Dispatch(ctx, ev)
}

// Destroy disconnects the observer and releases every binding. Upstream calls
// already in flight complete, their results are dropped.
func (thread *Thread) Destroy() {
	thread.mu.Lock()
	if thread.destroyed {
		thread.mu.Unlock()
		return
	}
	thread.destroyed = true
	thread.mu.Unlock()

	thread.observer.Disconnect()
	thread.bindings.Release()

	thread.deps.Logger.Debug("comment_thread_destroyed", slog.String("content", thread.ref.Key()))
}

// Destroyed reports whether the thread has been torn down.
func (thread *Thread) Destroyed() bool {
	thread.mu.Lock()
	defer thread.mu.Unlock()
	return thread.destroyed
}

// Snapshot is a read-only copy of the thread state.
type Snapshot struct {
	CurrentPage int
	AllComments []cmsapi.Comment
	Comments    []cmsapi.Comment
	HasMore     bool
	IsLoading   bool
	LoadFailed  bool
	State       LoadState
	Editing     []int64
	ReplyOpen   []int64
	ReportingID int64
}

// Snapshot copies the current state.
func (thread *Thread) Snapshot() Snapshot {
	thread.mu.Lock()
	defer thread.mu.Unlock()

	snapshot := Snapshot{
		CurrentPage: thread.currentPage,
		AllComments: append([]cmsapi.Comment(nil), thread.allComments...),
		Comments:    append([]cmsapi.Comment(nil), thread.comments...),
		HasMore:     thread.hasMore,
		IsLoading:   thread.isLoading,
		LoadFailed:  thread.loadFailed,
		State:       thread.stateLocked(),
		ReportingID: thread.reportingID,
	}
	for id := range thread.editing {
		snapshot.Editing = append(snapshot.Editing, id)
	}
	for id := range thread.replies {
		snapshot.ReplyOpen = append(snapshot.ReplyOpen, id)
	}
	return snapshot
}

func (thread *Thread) stateLocked() LoadState {
	switch {
	case thread.isLoading:
		return StateLoading
	case thread.loaded && !thread.hasMore:
		return StateExhausted
	default:
		return StateIdle
	}
}

// findLocked locates a comment or reply by id.
func (thread *Thread) findLocked(id int64) *cmsapi.Comment {
	for i := range thread.allComments {
		if thread.allComments[i].ID == id {
			return &thread.allComments[i]
		}
		for j := range thread.allComments[i].Replies {
			if thread.allComments[i].Replies[j].ID == id {
				return &thread.allComments[i].Replies[j]
			}
		}
	}
	return nil
}
