// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/logging"
)

type contextKey string

// ClaimsContextKey is the request context key holding *Claims.
const ClaimsContextKey contextKey = "claims"

// DevUserHeader selects the acting user when AUTH_MODE=none.
const DevUserHeader = "X-User-ID"

// ErrorWriter renders an authentication failure. The API package supplies
// one that writes its JSON envelope.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, code, message string)

// Middleware enforces bearer token authentication.
type Middleware struct {
	jwtManager *JWTManager
	authMode   string
	writeError ErrorWriter
}

// NewMiddleware creates the authentication middleware. jwtManager may be
// nil only when authMode is "none".
func NewMiddleware(jwtManager *JWTManager, authMode string, writeError ErrorWriter) *Middleware {
	if writeError == nil {
		writeError = plainError
	}
	return &Middleware{
		jwtManager: jwtManager,
		authMode:   authMode,
		writeError: writeError,
	}
}

func plainError(w http.ResponseWriter, _ *http.Request, status int, _, message string) {
	http.Error(w, message, status)
}

// Authenticate is middleware that enforces authentication.
//
// With AUTH_MODE=none the caller is trusted: the X-User-ID header, when
// present, names the acting user, and the role is admin.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.authMode == config.AuthModeNone {
			claims := &Claims{Role: RoleAdmin}
			if v := r.Header.Get(DevUserHeader); v != "" {
				id, err := strconv.Atoi(v)
				if err != nil || id <= 0 {
					m.writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid "+DevUserHeader+" header")
					return
				}
				claims.UserID = id
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
			return
		}

		token, err := extractToken(r)
		if err != nil {
			m.writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
			m.writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// extractToken extracts the token from the Authorization header or the
// "token" cookie.
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie("token")
		if err != nil || cookie.Value == "" {
			return "", fmt.Errorf("missing token")
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("invalid authorization header")
	}

	return strings.TrimSpace(parts[1]), nil
}

// WithClaims returns a context carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}
