// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comments

import (
	"context"
	"embed"
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/taibuivan/yomira-widgets/internal/cmsapi"
	"github.com/taibuivan/yomira-widgets/internal/platform/constants"
	"github.com/taibuivan/yomira-widgets/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-widgets/internal/ui"
	"github.com/taibuivan/yomira-widgets/internal/widget"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// now is swapped in tests.
var now = time.Now

type threadView struct {
	Scope                string
	ContentKey           string
	Frame                widget.Frame
	Messages             ui.Messages
	Viewer               string
	Draft                string
	Comments             []*commentView
	Reporting            *commentView
	Reasons              []reasonView
	HasMore              bool
	IsLoading            bool
	LoadFailed           bool
	Empty                bool
	OutOfBand            bool
	Threshold            float64
	MaxLength            int
	DescriptionMaxLength int
}

type commentView struct {
	Root          *threadView
	ID            int64
	ElementID     string
	AuthorName    string
	Content       string
	Timestamp     string
	Ago           string
	LikesCount    int
	DislikesCount int
	UserLiked     bool
	UserDisliked  bool
	IsReply       bool
	Owned         bool
	CanDelete     bool
	Editing       bool
	EditDraft     string
	ReplyOpen     bool
	ReplyDraft    string
	Sentinel      bool
	Replies       []*commentView
}

type reasonView struct {
	Value string
	Label string
}

/*
Render writes the fragment answering outcome and tells where it goes.

  - Full: the whole section, swapped in place.
  - Item: one comment, or the whole section when it is no longer listed.
  - Append: the comments of the last page, appended to the list, with an
    out-of-band footer.
  - None: nothing.
*/
func (thread *Thread) Render(ctx context.Context, writer io.Writer, frame widget.Frame, outcome widget.Outcome) (widget.Swap, error) {
	view := thread.view(ctx, frame)

	switch outcome.Render {
	case widget.RenderNone:
		return widget.Swap{Strategy: widget.SwapNone}, nil

	case widget.RenderItem:
		if item := view.find(outcome.ItemID); item != nil {
			return widget.Swap{Target: "#" + item.ElementID, Strategy: widget.SwapOuterHTML},
				templates.ExecuteTemplate(writer, "comment", item)
		}

	case widget.RenderAppend:
		view.OutOfBand = true
		view.Comments = view.lastPage(thread.Snapshot().Comments)
		return widget.Swap{Target: "#" + view.Scope + "-list", Strategy: widget.SwapBeforeEnd},
			templates.ExecuteTemplate(writer, "items", view)
	}

	return widget.Swap{Target: "#" + view.Scope, Strategy: widget.SwapOuterHTML},
		templates.ExecuteTemplate(writer, "thread", view)
}

func (thread *Thread) view(ctx context.Context, frame widget.Frame) *threadView {
	claims := ctxutil.GetAuthUser(ctx)
	viewer := ctxutil.ViewerID(ctx)
	messages := thread.deps.Messages
	current := now()

	thread.mu.Lock()
	defer thread.mu.Unlock()

	view := &threadView{
		Scope:                ScopeFor(thread.ref),
		ContentKey:           thread.ref.Key(),
		Frame:                frame,
		Messages:             messages,
		Viewer:               viewer,
		Draft:                thread.draft,
		HasMore:              thread.hasMore,
		IsLoading:            thread.isLoading,
		LoadFailed:           thread.loadFailed,
		Empty:                thread.loaded && len(thread.allComments) == 0,
		Threshold:            thread.options.LoadMoreThreshold,
		MaxLength:            constants.CommentMaxLength,
		DescriptionMaxLength: constants.ReportDescriptionMaxLength,
	}

	var build func(comment cmsapi.Comment, isReply bool) *commentView
	build = func(comment cmsapi.Comment, isReply bool) *commentView {
		item := &commentView{
			Root:          view,
			ID:            comment.ID,
			ElementID:     ItemID(comment.ID),
			AuthorName:    comment.AuthorName,
			Content:       comment.Content,
			Ago:           messages.Ago(comment.CreatedAt.Time, current),
			LikesCount:    comment.LikesCount,
			DislikesCount: comment.DislikesCount,
			UserLiked:     comment.UserLiked,
			UserDisliked:  comment.UserDisliked,
			IsReply:       isReply,
			Owned:         ownedBy(&comment, viewer),
		}
		if !comment.CreatedAt.IsZero() {
			item.Timestamp = comment.CreatedAt.Format(time.RFC3339)
		}
		item.CanDelete = item.Owned || claims.CanModerate()
		item.EditDraft, item.Editing = thread.editing[comment.ID]
		item.ReplyDraft, item.ReplyOpen = thread.replies[comment.ID]
		for _, reply := range comment.Replies {
			item.Replies = append(item.Replies, build(reply, true))
		}
		return item
	}

	for _, comment := range thread.allComments {
		view.Comments = append(view.Comments, build(comment, false))
	}
	if len(view.Comments) > 0 && thread.observer.Target() != "" {
		view.Comments[len(view.Comments)-1].Sentinel = true
	}
	if thread.reportingID != 0 {
		view.Reporting = view.find(thread.reportingID)
	}

	for value, label := range messages.ReportReasons {
		view.Reasons = append(view.Reasons, reasonView{Value: value, Label: label})
	}
	order := make(map[string]int, len(ReportReasons))
	for i, reason := range ReportReasons {
		order[reason] = i
	}
	sort.Slice(view.Reasons, func(i, j int) bool {
		return order[view.Reasons[i].Value] < order[view.Reasons[j].Value]
	})

	return view
}

func (view *threadView) find(id int64) *commentView {
	for _, item := range view.Comments {
		if item.ID == id {
			return item
		}
		for _, reply := range item.Replies {
			if reply.ID == id {
				return reply
			}
		}
	}
	return nil
}

// lastPage keeps the rendered items of the most recently loaded page.
func (view *threadView) lastPage(page []cmsapi.Comment) []*commentView {
	items := make([]*commentView, 0, len(page))
	for _, comment := range page {
		if item := view.find(comment.ID); item != nil {
			items = append(items, item)
		}
	}
	return items
}
