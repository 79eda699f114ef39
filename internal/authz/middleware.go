// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package authz

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/shelfwise/internal/auth"
	"github.com/tomtom215/shelfwise/internal/logging"
)

// Middleware provides authorization middleware using Casbin.
type Middleware struct {
	enforcer   *Enforcer
	writeError auth.ErrorWriter
}

// NewMiddleware creates a new authorization middleware. writeError may be
// nil for plain-text errors.
func NewMiddleware(enforcer *Enforcer, writeError auth.ErrorWriter) *Middleware {
	if writeError == nil {
		writeError = func(w http.ResponseWriter, _ *http.Request, status int, _, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{enforcer: enforcer, writeError: writeError}
}

// Subject returns the casbin subject for an authenticated user.
func Subject(claims *auth.Claims) string {
	return "user:" + strconv.Itoa(claims.UserID)
}

// Authorize returns middleware that enforces action on object for the
// authenticated caller. It must run after auth.Middleware.Authenticate.
func (m *Middleware) Authorize(object, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				m.writeError(w, r, http.StatusForbidden, "FORBIDDEN", "no authentication context")
				return
			}

			allowed, err := m.enforcer.Allowed(Subject(claims), claims.EffectiveRole(), object, action)
			if err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
				m.writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "authorization failed")
				return
			}

			if !allowed {
				logging.Ctx(r.Context()).Info().
					Int("user_id", claims.UserID).
					Str("role", claims.EffectiveRole()).
					Str("object", object).
					Str("action", action).
					Msg("Authorization denied")
				m.writeError(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
