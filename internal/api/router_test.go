// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/shelfwise/internal/auth"
	"github.com/tomtom215/shelfwise/internal/authz"
	"github.com/tomtom215/shelfwise/internal/config"
)

const routerTestSecret = "router-test-secret-with-32-chars!"

type routerEnv struct {
	*testEnv
	server http.Handler
	jwt    *auth.JWTManager
}

func newRouterEnv(t *testing.T, edge *Edge) *routerEnv {
	t.Helper()
	env := newTestEnv(t)

	jwtManager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: routerTestSecret})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	enforcer, err := authz.NewEnforcer("")
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	router := NewRouter(env.handler, edge,
		auth.NewMiddleware(jwtManager, config.AuthModeJWT, WriteError),
		authz.NewMiddleware(enforcer, WriteError))

	return &routerEnv{testEnv: env, server: router.SetupChi(), jwt: jwtManager}
}

func (e *routerEnv) token(t *testing.T, userID int, role string) string {
	t.Helper()
	tok, err := e.jwt.GenerateToken(userID, role)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	return tok
}

func (e *routerEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()
	env := newRouterEnv(t, nil)
	userToken := env.token(t, 11, auth.RoleUser)
	adminToken := env.token(t, 1, auth.RoleAdmin)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		token      string
		wantStatus int
	}{
		{"live", http.MethodGet, "/health/live", "", "", http.StatusOK},
		{"ready", http.MethodGet, "/health/ready", "", "", http.StatusOK},
		{"recommend", http.MethodPost, "/api/v1/recommendations", `{"books":["Dune"]}`, "", http.StatusOK},
		{"profiles", http.MethodGet, "/api/v1/recommendations/profiles", "", "", http.StatusOK},
		{"user recommendations", http.MethodGet, "/api/v1/recommendations/users/11", "", "", http.StatusOK},
		{"log search", http.MethodPost, "/api/v1/search/log", `{"user_id":11,"query":"dune"}`, "", http.StatusOK},
		{"book search", http.MethodGet, "/api/v1/books/search?q=dune", "", "", http.StatusOK},
		{"preferences no token", http.MethodGet, "/api/v1/preferences", "", "", http.StatusUnauthorized},
		{"preferences bad token", http.MethodGet, "/api/v1/preferences", "", "garbage", http.StatusUnauthorized},
		{"preferences user", http.MethodGet, "/api/v1/preferences", "", userToken, http.StatusOK},
		{"preferences put", http.MethodPut, "/api/v1/preferences", `{"preferred_genres":["Fantasy"]}`, userToken, http.StatusOK},
		{"reload as user", http.MethodPost, "/api/v1/admin/artifacts/reload", "", userToken, http.StatusForbidden},
		{"reload as admin", http.MethodPost, "/api/v1/admin/artifacts/reload", "", adminToken, http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/v1/nope", "", "", http.StatusNotFound},
		{"wrong method", http.MethodDelete, "/api/v1/recommendations/profiles", "", "", http.StatusMethodNotAllowed},
		{"wrong content type", http.MethodPost, "/api/v1/recommendations", `books=1`, "", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				if tt.name == "wrong content type" {
					req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				} else {
					req.Header.Set("Content-Type", "application/json")
				}
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			rec := env.do(req)
			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s = %d, want %d: %s", tt.method, tt.path, rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRouter_RequestIDAndHeaders(t *testing.T) {
	t.Parallel()
	env := newRouterEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/profiles", nil)
	req.Header.Set("X-Request-ID", "upstream-id-1")
	rec := env.do(req)

	if got := rec.Header().Get("X-Request-ID"); got != "upstream-id-1" {
		t.Errorf("X-Request-ID = %q", got)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}
	resp := decodeEnvelope[ProfilesResponse](t, rec)
	if resp.Meta == nil || resp.Meta.RequestID != "upstream-id-1" {
		t.Errorf("meta = %+v, want request id echoed", resp.Meta)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()
	env := newRouterEnv(t, NewEdge(EdgeOptions{Limit: 2, Window: time.Minute}))

	var last *httptest.ResponseRecorder
	for range 3 {
		last = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/profiles", nil))
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", last.Code)
	}
	resp := decodeEnvelope[any](t, last)
	if resp.Error == nil || resp.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("error = %+v", resp.Error)
	}

	// Health probes are not rate limited.
	if rec := env.do(httptest.NewRequest(http.MethodGet, "/health/live", nil)); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()
	env := newRouterEnv(t, NewEdge(EdgeOptions{Origins: []string{"https://books.example.com"}}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recommendations", nil)
	req.Header.Set("Origin", "https://books.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := env.do(req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://books.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRouter_AuthModeNone(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	enforcer, err := authz.NewEnforcer("")
	if err != nil {
		t.Fatal(err)
	}
	server := NewRouter(env.handler, nil,
		auth.NewMiddleware(nil, config.AuthModeNone, WriteError),
		authz.NewMiddleware(enforcer, WriteError)).SetupChi()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/preferences", strings.NewReader(`{"preferred_authors":["Jane Austen"]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.DevUserHeader, "21")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := env.store.prefs[21]; !ok {
		t.Error("preferences not stored for X-User-ID user")
	}
}

func TestEdgeOptionsFromSecurity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		sec       config.SecurityConfig
		wantLimit int
	}{
		{
			name:      "enabled",
			sec:       config.SecurityConfig{RateLimitReqs: 50, RateLimitWindow: time.Second, CORSOrigins: []string{"*"}},
			wantLimit: 50,
		},
		{
			name:      "disabled",
			sec:       config.SecurityConfig{RateLimitReqs: 50, RateLimitDisabled: true},
			wantLimit: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := EdgeOptionsFromSecurity(&tt.sec)
			if opts.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", opts.Limit, tt.wantLimit)
			}
			if len(opts.Origins) != len(tt.sec.CORSOrigins) {
				t.Errorf("Origins = %v", opts.Origins)
			}
		})
	}
}
