// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cmsapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/taibuivan/yomira-widgets/internal/content"
)

// RatingStats fetches the flat aggregate of ref.
//
// GET /api/ratings/{type}/{id}
func (client *Client) RatingStats(ctx context.Context, ref content.Ref) (*RatingStats, error) {
	var stats RatingStats
	path := fmt.Sprintf("/api/ratings/%s/%d", ref.Type, ref.ID)
	if err := client.do(ctx, "rating_stats", http.MethodGet, path, nil, nil, &stats); err != nil {
		return nil, err
	}
	return normalizeStats(&stats), nil
}

// WeightedAlbumStats fetches the album aggregate blended from its chapters.
//
// GET /api/ratings/album/{id}/weighted
func (client *Client) WeightedAlbumStats(ctx context.Context, albumID int64) (*RatingStats, error) {
	var stats RatingStats
	path := fmt.Sprintf("/api/ratings/album/%d/weighted", albumID)
	if err := client.do(ctx, "weighted_album_stats", http.MethodGet, path, nil, nil, &stats); err != nil {
		return nil, err
	}
	return normalizeStats(&stats), nil
}

// SubmitRating sets or replaces the viewer's rating.
//
// POST /api/ratings
func (client *Client) SubmitRating(ctx context.Context, ref content.Ref, value int) (*RatingMutation, error) {
	var mutation RatingMutation
	body := SubmitRating{RatingValue: value, ContentType: string(ref.Type), ContentID: ref.ID}
	if err := client.do(ctx, "submit_rating", http.MethodPost, "/api/ratings", nil, body, &mutation); err != nil {
		return nil, err
	}
	return &mutation, nil
}

// RemoveRating deletes the viewer's rating.
//
// DELETE /api/ratings/{type}/{id}
func (client *Client) RemoveRating(ctx context.Context, ref content.Ref) (*RatingMutation, error) {
	var mutation RatingMutation
	path := fmt.Sprintf("/api/ratings/%s/%d", ref.Type, ref.ID)
	if err := client.do(ctx, "remove_rating", http.MethodDelete, path, nil, nil, &mutation); err != nil {
		return nil, err
	}
	return &mutation, nil
}

func normalizeStats(stats *RatingStats) *RatingStats {
	if stats.RatingDistribution == nil {
		stats.RatingDistribution = map[int]int{}
	}
	return stats
}
