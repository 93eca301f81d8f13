// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cmsapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/taibuivan/yomira-widgets/internal/content"
	"github.com/taibuivan/yomira-widgets/pkg/pagination"
)

// ListComments fetches one page of the thread attached to ref.
//
// GET /api/comments/{type}/{id}?page=&per_page=
func (client *Client) ListComments(ctx context.Context, ref content.Ref, params pagination.Params) (*CommentPage, error) {
	var page CommentPage
	path := fmt.Sprintf("/api/comments/%s/%d", ref.Type, ref.ID)
	if err := client.do(ctx, "list_comments", http.MethodGet, path, params.Query(), nil, &page); err != nil {
		return nil, err
	}
	if page.Comments == nil {
		page.Comments = []Comment{}
	}
	return &page, nil
}

// CreateComment posts a new comment or reply.
//
// POST /api/comments
func (client *Client) CreateComment(ctx context.Context, input CreateComment) (*MessageResponse, error) {
	var response MessageResponse
	if err := client.do(ctx, "create_comment", http.MethodPost, "/api/comments", nil, input, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// EditComment replaces the body of a comment.
//
// PUT /api/comments/{id}
func (client *Client) EditComment(ctx context.Context, id int64, text string) (*MessageResponse, error) {
	var response MessageResponse
	body := map[string]string{"content": text}
	if err := client.do(ctx, "edit_comment", http.MethodPut, fmt.Sprintf("/api/comments/%d", id), nil, body, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// DeleteComment removes a comment.
//
// DELETE /api/comments/{id}
func (client *Client) DeleteComment(ctx context.Context, id int64) (*MessageResponse, error) {
	var response MessageResponse
	if err := client.do(ctx, "delete_comment", http.MethodDelete, fmt.Sprintf("/api/comments/%d", id), nil, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// LikeComment records a like (isLike=true) or dislike and returns the new counts.
//
// POST /api/comments/{id}/like
func (client *Client) LikeComment(ctx context.Context, id int64, isLike bool) (*LikeResult, error) {
	var result LikeResult
	body := map[string]bool{"is_like": isLike}
	if err := client.do(ctx, "like_comment", http.MethodPost, fmt.Sprintf("/api/comments/%d/like", id), nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ReportComment flags a comment for moderation.
//
// POST /api/comments/{id}/report
func (client *Client) ReportComment(ctx context.Context, id int64, report Report) (*MessageResponse, error) {
	var response MessageResponse
	if err := client.do(ctx, "report_comment", http.MethodPost, fmt.Sprintf("/api/comments/%d/report", id), nil, report, &response); err != nil {
		return nil, err
	}
	return &response, nil
}
