// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the widget server.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Widgets: Comment and rating limits shared by validation and rendering.
  - Headers: Names of the headers exchanged with browsers and the CMS upstream.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "yomira-widgets"
	AppVersion = "0.3.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Widgets

const (
	// CommentMaxLength is the maximum number of characters in a comment body.
	CommentMaxLength = 5000

	// ReportDescriptionMaxLength bounds the free-text part of a comment report.
	ReportDescriptionMaxLength = 1000

	// DefaultCommentsPerPage is the page size requested from the comment list endpoint.
	DefaultCommentsPerPage = 12

	// DefaultLoadMoreThreshold is the visible ratio of the sentinel that triggers auto-load.
	DefaultLoadMoreThreshold = 0.8

	// RatingMin and RatingMax bound a single star rating.
	RatingMin = 1
	RatingMax = 5

	// SessionSweepInterval is how often idle widget sessions are evicted.
	SessionSweepInterval = 1 * time.Minute
)

// # Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"

	// HeaderCSRFToken is the header the CMS upstream reads the CSRF token from.
	HeaderCSRFToken = "X-CSRFToken"

	// HeaderWidgetToasts carries the JSON list of toasts emitted while handling an event.
	HeaderWidgetToasts = "X-Widget-Toasts"

	// FormCSRFToken is the form field browsers may use instead of the header.
	FormCSRFToken = "csrf_token"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession = "widgets:session:"
)
