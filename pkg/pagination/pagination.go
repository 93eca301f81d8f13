// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for page-based list endpoints.
//
// # Overview
//
// It standardizes how a page is requested from the CMS ("page" and "per_page"
// query parameters) and how exhaustion of a list is detected.
package pagination

import (
	"net/url"
	"strconv"
)

const (
	// DefaultPerPage is the number of items per page if not specified.
	DefaultPerPage = 12
	// MaxPerPage is the upper bound for items per page.
	MaxPerPage = 100
	// FirstPage is the starting page (1-indexed).
	FirstPage = 1
)

// Params holds a page request.
type Params struct {
	Page    int
	PerPage int
}

// New clamps page and per-page values into a valid [Params].
func New(page, perPage int) Params {
	if page < FirstPage {
		page = FirstPage
	}
	if perPage < 1 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}
	return Params{Page: page, PerPage: perPage}
}

// Next returns the params of the following page.
func (p Params) Next() Params {
	return Params{Page: p.Page + 1, PerPage: p.PerPage}
}

// IsFirst reports whether p addresses the first page.
func (p Params) IsFirst() bool {
	return p.Page <= FirstPage
}

// Query encodes the params as "page" and "per_page".
func (p Params) Query() url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(p.Page))
	values.Set("per_page", strconv.Itoa(p.PerPage))
	return values
}

// Meta is the optional pagination metadata a list response may carry.
type Meta struct {
	HasMore *bool `json:"has_more,omitempty"`
	Total   *int  `json:"total,omitempty"`
}

// MoreAvailable decides whether another page should be requested.
//
// Explicit metadata wins: has_more first, then total compared with what has been
// received so far. Without metadata a page shorter than requested signals
// exhaustion, which costs one extra empty fetch when the total is an exact
// multiple of the page size.
func MoreAvailable(meta Meta, params Params, received, accumulated int) bool {
	if meta.HasMore != nil {
		return *meta.HasMore
	}
	if meta.Total != nil {
		return accumulated < *meta.Total
	}
	return received >= params.PerPage
}
