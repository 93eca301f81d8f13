// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cmsapi is the typed REST client of the CMS comment and rating endpoints.

Every call replays the visitor's credentials found in the context
([ctxutil.Credentials]). Mutating calls always send the CSRF header, with an empty
value when the page carried no token.

# Errors

  - Transport failure: [apperr.Unreachable] (UPSTREAM_UNREACHABLE).
  - Non-2xx answer: [apperr.Upstream] (UPSTREAM_ERROR) with the upstream status and
    the body's "error" or "message" field when present.
*/
package cmsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/yomira-widgets/internal/platform/apperr"
	"github.com/taibuivan/yomira-widgets/internal/platform/constants"
	"github.com/taibuivan/yomira-widgets/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-widgets/internal/platform/metrics"
)

// maxErrorBody bounds how much of an error body is read when looking for a message.
const maxErrorBody = 64 << 10

// Client calls the CMS REST API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// New constructs a [Client] rooted at baseURL.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("cmsapi: invalid base URL %q", baseURL)
	}

	return &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Ping checks the upstream answers at all. Any HTTP status counts as reachable.
func (client *Client) Ping(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodHead, client.baseURL.String()+"/", nil)
	if err != nil {
		return err
	}
	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("cmsapi: ping failed: %w", err)
	}
	_ = response.Body.Close()
	return nil
}

// errorBody is the subset of an upstream error payload we read.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

/*
do performs one upstream call.

Parameters:
  - operation: metric/log label (e.g. "list_comments")
  - method, path: HTTP method and path relative to the base URL
  - query: optional query string
  - body: optional JSON request body
  - out: optional JSON response target
*/
func (client *Client) do(ctx context.Context, operation, method, path string, query url.Values, body, out any) error {
	target := *client.baseURL
	target.Path = client.baseURL.Path + path
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperr.Internal(fmt.Errorf("cmsapi: encode %s body: %w", operation, err))
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return apperr.Internal(fmt.Errorf("cmsapi: build %s request: %w", operation, err))
	}

	client.applyHeaders(ctx, request, body != nil)

	startTime := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		metrics.UpstreamDuration.WithLabelValues(operation, "error").Observe(time.Since(startTime).Seconds())
		client.logger.WarnContext(ctx, "upstream_unreachable",
			slog.String("operation", operation),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
			slog.Any("error", err),
		)
		return apperr.Unreachable(fmt.Errorf("cmsapi: %s: %w", operation, err))
	}
	defer response.Body.Close()

	metrics.UpstreamDuration.WithLabelValues(operation, strconv.Itoa(response.StatusCode)).Observe(time.Since(startTime).Seconds())

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return client.statusError(ctx, operation, response)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Upstream(http.StatusBadGateway, "", fmt.Errorf("cmsapi: decode %s response: %w", operation, err))
	}

	return nil
}

// applyHeaders sets content negotiation and replays the visitor's credentials.
func (client *Client) applyHeaders(ctx context.Context, request *http.Request, hasBody bool) {
	request.Header.Set("Accept", "application/json")
	request.Header.Set("X-Requested-With", "XMLHttpRequest")
	if hasBody {
		request.Header.Set("Content-Type", "application/json")
	}

	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		request.Header.Set(constants.HeaderXRequestID, requestID)
	}

	credentials := ctxutil.GetCredentials(ctx)
	if credentials.Cookie != "" {
		request.Header.Set("Cookie", credentials.Cookie)
	}
	if credentials.Authorization != "" {
		request.Header.Set("Authorization", credentials.Authorization)
	}

	// Empty token on purpose: the CMS decides, not the widget.
	if request.Method != http.MethodGet && request.Method != http.MethodHead {
		request.Header.Set(constants.HeaderCSRFToken, credentials.CSRFToken)
	}
}

// statusError converts a non-2xx response into an [apperr.AppError].
func (client *Client) statusError(ctx context.Context, operation string, response *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))

	var payload errorBody
	message := ""
	if json.Unmarshal(raw, &payload) == nil {
		message = strings.TrimSpace(payload.Error)
		if message == "" {
			message = strings.TrimSpace(payload.Message)
		}
	}

	logLevel := slog.LevelWarn
	if response.StatusCode >= 500 {
		logLevel = slog.LevelError
	}
	client.logger.Log(ctx, logLevel, "upstream_status_error",
		slog.String("operation", operation),
		slog.Int("status", response.StatusCode),
		slog.String("request_id", ctxutil.GetRequestID(ctx)),
	)

	return apperr.Upstream(response.StatusCode, message,
		fmt.Errorf("cmsapi: %s: status %d", operation, response.StatusCode))
}
