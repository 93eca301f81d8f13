// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ui_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-widgets/internal/platform/apperr"
	"github.com/taibuivan/yomira-widgets/internal/ui"
)

/*
TestModalConfirmer_RoundTrip asks first, then accepts the confirmed replay.
*/
func TestModalConfirmer_RoundTrip(t *testing.T) {
	prompt := ui.Prompt{Title: "Delete", Message: "Sure?", ConfirmLabel: "Yes", CancelLabel: "No", Danger: true}
	repost := ui.Repost{URL: "/widgets/s1/comments/events", Values: url.Values{"action": {"delete"}, "target": {"7"}}}

	// 1. First pass renders a modal and declines
	feed := ui.NewFeed(false, repost)
	answer, err := ui.ModalConfirmer{}.Confirm(ui.WithFeed(context.Background(), feed), prompt)
	require.NoError(t, err)
	assert.False(t, answer)

	modals := feed.Modals()
	require.Len(t, modals, 1)
	assert.Equal(t, "true", modals[0].Values.Get(ui.ConfirmedField))
	assert.Equal(t, "delete", modals[0].Values.Get("action"))
	assert.Empty(t, repost.Values.Get(ui.ConfirmedField), "repost values must not be mutated")

	// 2. Replayed event is confirmed
	confirmedFeed := ui.NewFeed(true, repost)
	answer, err = ui.ModalConfirmer{}.Confirm(ui.WithFeed(context.Background(), confirmedFeed), prompt)
	require.NoError(t, err)
	assert.True(t, answer)
	assert.Empty(t, confirmedFeed.Modals())
}

/*
TestWithFallback uses the fallback only when no modal can be shown.
*/
func TestWithFallback(t *testing.T) {
	confirmer := ui.WithFallback(ui.ModalConfirmer{}, ui.Always(true))

	answer, err := confirmer.Confirm(context.Background(), ui.Prompt{})
	require.NoError(t, err)
	assert.True(t, answer)

	feed := ui.NewFeed(false, ui.Repost{})
	answer, err = confirmer.Confirm(ui.WithFeed(context.Background(), feed), ui.Prompt{})
	require.NoError(t, err)
	assert.False(t, answer)
	assert.Len(t, feed.Modals(), 1)
}

/*
TestFeed_RenderEscapes checks toast messages are escaped and mirrored in the header.
*/
func TestFeed_RenderEscapes(t *testing.T) {
	feed := ui.NewFeed(false, ui.Repost{})
	ctx := ui.WithFeed(context.Background(), feed)
	ui.FeedNotifier{}.Toast(ctx, ui.KindError, "<b>nope</b>")

	var out strings.Builder
	require.NoError(t, feed.Render(&out))
	assert.Contains(t, out.String(), "toast-error")
	assert.Contains(t, out.String(), "&lt;b&gt;nope&lt;/b&gt;")
	assert.JSONEq(t, `[{"type":"error","message":"<b>nope</b>"}]`, feed.HeaderValue())

	// Outside a request the notifier is a no-op
	ui.FeedNotifier{}.Toast(context.Background(), ui.KindInfo, "dropped")
	assert.Len(t, feed.Toasts(), 1)
}

func TestCatalog_Fallback(t *testing.T) {
	assert.Equal(t, ui.Catalog("id"), ui.Catalog("fr"))
	assert.Equal(t, "Please log in to rate this content", ui.Catalog("en").LoginToRate)
}

/*
TestMessages_ErrorText picks the toast text per error kind.
*/
func TestMessages_ErrorText(t *testing.T) {
	messages := ui.Catalog("en")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain_error", errors.New("boom"), messages.Generic},
		{"unreachable", apperr.Unreachable(errors.New("dial")), messages.Unreachable},
		{"upstream_message", apperr.Upstream(http.StatusForbidden, "Comment is locked", nil), "Comment is locked"},
		{"upstream_silent", apperr.Upstream(http.StatusInternalServerError, "", nil), messages.Generic},
		{"internal", apperr.Internal(errors.New("nil map")), messages.Generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, messages.ErrorText(tt.err))
		})
	}
}

/*
TestMessages_Ago formats relative times and falls back to a date after a week.
*/
func TestMessages_Ago(t *testing.T) {
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	en := ui.Catalog("en")
	id := ui.Catalog("id")

	assert.Equal(t, "", en.Ago(time.Time{}, now))
	assert.Equal(t, "just now", en.Ago(now.Add(-20*time.Second), now))
	assert.Equal(t, "5 min ago", en.Ago(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3 h ago", en.Ago(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2 days ago", en.Ago(now.Add(-50*time.Hour), now))
	assert.Equal(t, "Mar 1, 2026", en.Ago(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "01/03/2026", id.Ago(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "5 menit lalu", id.Ago(now.Add(-5*time.Minute), now))
}
