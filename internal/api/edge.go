// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/metrics"
)

// EdgeOptions configures the browser-facing middleware.
type EdgeOptions struct {
	// Origins allowed by CORS. Empty rejects every cross-origin request.
	Origins []string

	// Limit requests per Window and client IP on /api/v1. Zero disables
	// rate limiting.
	Limit  int
	Window time.Duration

	// KeyFunc overrides the client key (tests).
	KeyFunc httprate.KeyFunc
}

// EdgeOptionsFromSecurity maps the security section onto EdgeOptions.
func EdgeOptionsFromSecurity(sec *config.SecurityConfig) EdgeOptions {
	opts := EdgeOptions{
		Origins: sec.CORSOrigins,
		Limit:   sec.RateLimitReqs,
		Window:  sec.RateLimitWindow,
	}
	if sec.RateLimitDisabled {
		opts.Limit = 0
	}
	return opts
}

// Edge holds the CORS handler and the API rate limiter.
type Edge struct {
	cors  func(http.Handler) http.Handler
	limit func(http.Handler) http.Handler
}

// NewEdge builds the middleware for opts.
func NewEdge(opts EdgeOptions) *Edge {
	e := &Edge{
		cors: cors.Handler(cors.Options{
			AllowedOrigins: opts.Origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "X-User-ID"},
			ExposedHeaders: []string{"Retry-After", "X-Request-ID"},
			MaxAge:         int((24 * time.Hour).Seconds()),
		}),
		limit: func(next http.Handler) http.Handler { return next },
	}

	if opts.Limit > 0 {
		window := opts.Window
		if window <= 0 {
			window = time.Minute
		}
		key := opts.KeyFunc
		if key == nil {
			key = httprate.KeyByIP
		}
		e.limit = httprate.Limit(opts.Limit, window,
			httprate.WithKeyFuncs(key),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				metrics.APIRateLimitHits.WithLabelValues("api").Inc()
				NewResponseWriter(w, r).TooManyRequests("Rate limit exceeded")
			}),
		)
	}
	return e
}
