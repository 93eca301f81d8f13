// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cmsapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/taibuivan/yomira-widgets/pkg/pagination"
)

// # Comments

// Comment mirrors a comment as returned by the CMS. Replies carry one level of nesting.
type Comment struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	AuthorName    string    `json:"author_name"`
	Content       string    `json:"content"`
	CreatedAt     Timestamp `json:"created_at"`
	LikesCount    int       `json:"likes_count"`
	DislikesCount int       `json:"dislikes_count"`
	UserLiked     bool      `json:"user_liked"`
	UserDisliked  bool      `json:"user_disliked"`
	ParentID      *int64    `json:"parent_id,omitempty"`
	Replies       []Comment `json:"replies,omitempty"`
}

// CommentPage is one page of the comment list endpoint.
type CommentPage struct {
	Comments []Comment `json:"comments"`
	pagination.Meta
}

// CreateComment is the body of POST /api/comments.
type CreateComment struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	ContentID   int64  `json:"content_id"`
	ParentID    *int64 `json:"parent_id"`
}

// LikeResult is the authoritative reaction state after a like/dislike.
type LikeResult struct {
	LikesCount    int  `json:"likes_count"`
	DislikesCount int  `json:"dislikes_count"`
	UserLiked     bool `json:"user_liked"`
	UserDisliked  bool `json:"user_disliked"`
}

// Report is the body of POST /api/comments/{id}/report.
type Report struct {
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

// MessageResponse is the plain acknowledgement of a mutating call.
type MessageResponse struct {
	Message string `json:"message"`
}

// # Ratings

// RatingStats is the aggregate of one content's ratings, always computed by the CMS.
type RatingStats struct {
	AverageRating      float64         `json:"average_rating"`
	RatingCount        int             `json:"rating_count"`
	RatingDistribution map[int]int     `json:"rating_distribution"`
	UserRating         *int            `json:"user_rating"`
	ChapterBreakdown   []ChapterRating `json:"chapter_breakdown,omitempty"`
}

// ChapterRating is one row of the weighted album breakdown.
type ChapterRating struct {
	ChapterNumber float64 `json:"chapter_number"`
	ChapterTitle  string  `json:"chapter_title"`
	Rating        float64 `json:"rating"`
	RatingCount   int     `json:"rating_count"`
	Weight        float64 `json:"weight"`
}

// SubmitRating is the body of POST /api/ratings.
type SubmitRating struct {
	RatingValue int    `json:"rating_value"`
	ContentType string `json:"content_type"`
	ContentID   int64  `json:"content_id"`
}

// RatingMutation is the answer to a submit or a removal: a fresh aggregate.
type RatingMutation struct {
	Message            string      `json:"message"`
	AverageRating      float64     `json:"average_rating"`
	RatingCount        int         `json:"rating_count"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}

// # Timestamps

// timestampLayouts are the formats the CMS is known to emit, most specific first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp accepts RFC 3339 as well as zone-less ISO timestamps (read as UTC).
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		ts.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("cmsapi: timestamp: %w", err)
	}
	if raw == "" {
		ts.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			ts.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("cmsapi: unsupported timestamp %q", raw)
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Time.UTC().Format(time.RFC3339))
}
