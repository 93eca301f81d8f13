// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomira-widgets/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-widgets/internal/platform/middleware"
	"github.com/taibuivan/yomira-widgets/internal/platform/sec"
)

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token != "good" {
		return nil, errors.New("bad signature")
	}
	return &sec.AuthClaims{UserID: "42", Role: "moderator"}, nil
}

type corsConfig struct {
	dev   bool
	extra []string
}

func (cfg corsConfig) IsDevelopment() bool      { return cfg.dev }
func (cfg corsConfig) AllowedOrigins() []string { return cfg.extra }

// capture records the context the final handler saw.
func capture(seen *context.Context) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*seen = request.Context()
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestAuthenticate covers anonymous, valid and rejected tokens.
*/
func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
		viewer string
	}{
		{"anonymous", "", http.StatusOK, ""},
		{"valid_token", "Bearer good", http.StatusOK, "42"},
		{"lowercase_scheme", "bearer good", http.StatusOK, "42"},
		{"invalid_token", "Bearer forged", http.StatusUnauthorized, ""},
		{"wrong_scheme", "Basic abc", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen context.Context
			handler := middleware.Authenticate(stubVerifier{})(capture(&seen))

			request := httptest.NewRequest(http.MethodGet, "/widgets/s1/comments", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.viewer, ctxutil.ViewerID(seen))
			}
		})
	}
}

/*
TestAuthenticate_NoVerifier treats every request as anonymous.
*/
func TestAuthenticate_NoVerifier(t *testing.T) {
	var seen context.Context
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer anything")
	recorder := httptest.NewRecorder()

	middleware.Authenticate(nil)(capture(&seen)).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, ctxutil.ViewerID(seen))
}

/*
TestForwardCredentials prefers the header token and falls back to the form field.
*/
func TestForwardCredentials(t *testing.T) {
	var seen context.Context
	handler := middleware.ForwardCredentials(capture(&seen))

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("action=like&csrf_token=from-form"))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("Cookie", "sessionid=abc")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	creds := ctxutil.GetCredentials(seen)
	assert.Equal(t, "from-form", creds.CSRFToken)
	assert.Equal(t, "sessionid=abc", creds.Cookie)

	request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("csrf_token=from-form"))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("X-CSRFToken", "from-header")
	request.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	creds = ctxutil.GetCredentials(seen)
	assert.Equal(t, "from-header", creds.CSRFToken)
	assert.Equal(t, "Bearer good", creds.Authorization)
}

/*
TestCORS checks which origins are granted access.
*/
func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		cfg     corsConfig
		origin  string
		allowed bool
	}{
		{"apex", corsConfig{}, "https://yomira.app", true},
		{"subdomain", corsConfig{}, "https://news.yomira.app", true},
		{"lookalike", corsConfig{}, "https://evilyomira.app", false},
		{"plain_http", corsConfig{}, "http://yomira.app", false},
		{"extra_origin", corsConfig{extra: []string{"https://partner.example"}}, "https://partner.example", true},
		{"development", corsConfig{dev: true}, "http://localhost:3000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen context.Context
			handler := middleware.CORS(tt.cfg)(capture(&seen))

			request := httptest.NewRequest(http.MethodOptions, "/widgets/mount", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusNoContent, recorder.Code)
			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
				assert.Contains(t, recorder.Header().Get("Access-Control-Expose-Headers"), "X-Widget-Toasts")
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestRequestID echoes a caller supplied id and generates one otherwise.
*/
func TestRequestID(t *testing.T) {
	var seen context.Context
	handler := middleware.RequestID()(capture(&seen))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "req-123")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "req-123", ctxutil.GetRequestID(seen))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, ctxutil.GetRequestID(seen))
	assert.Equal(t, ctxutil.GetRequestID(seen), recorder.Header().Get("X-Request-ID"))
}

/*
TestPanicRecovery answers 500 and logs both the panic and the finished request.
*/
func TestPanicRecovery(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	handler := middleware.RequestID()(middleware.StructuredLogger(logger)(middleware.PanicRecovery(logger)(panicking)))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/widgets", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
	assert.Contains(t, logs.String(), `"msg":"panic_recovered"`)
	assert.Contains(t, logs.String(), `"msg":"http_request_finished"`)
	assert.Contains(t, logs.String(), `"status":500`)
	assert.Contains(t, logs.String(), `"path":"/widgets"`)
}
