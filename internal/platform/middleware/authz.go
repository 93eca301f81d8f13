// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/yomira-widgets/internal/platform/apperr"
	"github.com/taibuivan/yomira-widgets/internal/platform/constants"
	"github.com/taibuivan/yomira-widgets/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-widgets/internal/platform/respond"
	"github.com/taibuivan/yomira-widgets/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// Defining it here decouples the middleware from key loading and lets tests
// inject a stub.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the viewer token from the Authorization header.
//
// # Flow
//  1. No verifier configured, or no header: the request proceeds as anonymous.
//  2. A malformed header or an invalid token aborts with 401.
//  3. Otherwise [*sec.AuthClaims] are injected into the request context.
//
// The viewer identity only drives what the widgets render. The CMS still
// authorizes every mutation with the forwarded credentials.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if verifier == nil || authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(parts[1])
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// ForwardCredentials captures what the CMS needs to authorize a call made on
// behalf of the browser: the CSRF token (header first, then the form field),
// the cookies and the Authorization header.
func ForwardCredentials(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		token := request.Header.Get(constants.HeaderCSRFToken)
		if token == "" && request.Method == http.MethodPost {
			token = request.PostFormValue(constants.FormCSRFToken)
		}

		ctx := ctxutil.WithCredentials(request.Context(), ctxutil.Credentials{
			CSRFToken:     token,
			Cookie:        request.Header.Get("Cookie"),
			Authorization: request.Header.Get("Authorization"),
		})
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
