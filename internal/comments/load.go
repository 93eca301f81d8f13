// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comments

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/taibuivan/yomira-widgets/internal/cmsapi"
	"github.com/taibuivan/yomira-widgets/internal/ui"
	"github.com/taibuivan/yomira-widgets/pkg/pagination"
)

/*
LoadComments fetches one page of the thread.

Description: Page 1 replaces the accumulated list, later pages append to it.
A page-1 load always runs and supersedes any load still in flight, whose
result is then discarded. Any other page is skipped while a load is running.

On failure the accumulated comments are kept, the thread switches to its
inline retry state and an error toast is shown.

Returns:
  - error: The upstream failure, nil when loaded or skipped
*/
func (thread *Thread) LoadComments(ctx context.Context, page int) error {
	params := pagination.New(page, thread.options.PerPage)

	thread.mu.Lock()
	if thread.destroyed || (thread.isLoading && !params.IsFirst()) {
		thread.mu.Unlock()
		return nil
	}
	thread.generation++
	generation := thread.generation
	thread.isLoading = true
	thread.mu.Unlock()

	result, err := thread.deps.Backend.ListComments(ctx, thread.ref, params)

	thread.mu.Lock()
	if thread.destroyed || generation != thread.generation {
		thread.mu.Unlock()
		thread.deps.Logger.Debug("comment_page_discarded",
			slog.String("content", thread.ref.Key()),
			slog.Int("page", params.Page),
		)
		return nil
	}
	thread.isLoading = false

	if err != nil {
		thread.loadFailed = true
		thread.failedPage = params.Page
		thread.mu.Unlock()

		thread.deps.Logger.Warn("comment_page_failed",
			slog.String("content", thread.ref.Key()),
			slog.Int("page", params.Page),
			slog.Any("error", err),
		)
		thread.deps.Notifier.Toast(ctx, ui.KindError, thread.deps.Messages.LoadCommentsFailed)
		return err
	}

	received := append([]cmsapi.Comment(nil), result.Comments...)
	if params.IsFirst() {
		thread.allComments = received
	} else {
		thread.allComments = append(thread.allComments, received...)
	}
	thread.comments = received
	thread.currentPage = params.Page
	thread.loaded = true
	thread.loadFailed = false
	thread.hasMore = pagination.MoreAvailable(result.Meta, params, len(received), len(thread.allComments))
	thread.observeSentinelLocked()
	total := len(thread.allComments)
	hasMore := thread.hasMore
	thread.mu.Unlock()

	thread.deps.Logger.Debug("comment_page_loaded",
		slog.String("content", thread.ref.Key()),
		slog.Int("page", params.Page),
		slog.Int("received", len(received)),
		slog.Int("total", total),
		slog.Bool("has_more", hasMore),
	)
	return nil
}

// LoadMore loads the next page. It is a no-op when nothing is left or a load is running.
func (thread *Thread) LoadMore(ctx context.Context) (bool, error) {
	thread.mu.Lock()
	ready := !thread.destroyed && thread.hasMore && !thread.isLoading
	next := thread.currentPage + 1
	thread.mu.Unlock()

	if !ready {
		return false, nil
	}
	if err := thread.LoadComments(ctx, next); err != nil {
		return false, err
	}

	thread.mu.Lock()
	defer thread.mu.Unlock()
	return thread.currentPage == next, nil
}

/*
ReloadLoaded refreshes every page the visitor has loaded so far.

Description: Page 1 is fetched first, then each following page up to the
current one while more remain. The walk stops early when a load fails or is
superseded by another page-1 load.

Returns:
  - error: The first upstream failure
*/
func (thread *Thread) ReloadLoaded(ctx context.Context) error {
	thread.mu.Lock()
	through := thread.currentPage
	thread.mu.Unlock()

	if err := thread.LoadComments(ctx, pagination.FirstPage); err != nil {
		return err
	}
	for page := pagination.FirstPage + 1; page <= through; page++ {
		thread.mu.Lock()
		proceed := !thread.destroyed && thread.hasMore && thread.currentPage == page-1
		thread.mu.Unlock()
		if !proceed {
			return nil
		}
		if err := thread.LoadComments(ctx, page); err != nil {
			return err
		}
	}
	return nil
}

// Retry reloads the page whose load failed last.
func (thread *Thread) Retry(ctx context.Context) error {
	thread.mu.Lock()
	page := thread.failedPage
	thread.mu.Unlock()

	if page < pagination.FirstPage {
		page = pagination.FirstPage
	}
	return thread.LoadComments(ctx, page)
}

// observeSentinelLocked points the observer at the last rendered comment while
// more pages remain, and detaches it once the thread is exhausted.
func (thread *Thread) observeSentinelLocked() {
	if !thread.options.AutoLoadMore || !thread.hasMore || len(thread.allComments) == 0 {
		thread.observer.Observe("")
		return
	}
	last := thread.allComments[len(thread.allComments)-1]
	thread.observer.Observe(ItemID(last.ID))
}

// ItemID is the element id of a rendered comment.
func ItemID(id int64) string {
	return "comment-" + strconv.FormatInt(id, 10)
}
