// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/shelfwise/internal/auth"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	mw := NewMiddleware(mustEnforcer(t, ""), nil)
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	reload := mw.Authorize(ObjectArtifacts, ActionReload)(ok)

	tests := []struct {
		name       string
		claims     *auth.Claims
		wantStatus int
	}{
		{"admin", &auth.Claims{UserID: 1, Role: auth.RoleAdmin}, http.StatusNoContent},
		{"user", &auth.Claims{UserID: 2, Role: auth.RoleUser}, http.StatusForbidden},
		{"default role", &auth.Claims{UserID: 3}, http.StatusForbidden},
		{"unauthenticated", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/artifacts/reload", nil)
			if tt.claims != nil {
				req = req.WithContext(auth.WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()

			reload.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestSubject(t *testing.T) {
	t.Parallel()
	if got := Subject(&auth.Claims{UserID: 42}); got != "user:42" {
		t.Errorf("Subject() = %q, want user:42", got)
	}
}
