// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package middleware provides HTTP middleware components for the API.

All middleware uses the chi signature func(http.Handler) http.Handler.

Key Components:

  - RequestID: UUID request IDs in the X-Request-ID header and in the
    logging context
  - SecurityHeaders: CSP, X-Frame-Options, nosniff, HSTS over HTTPS
  - PrometheusMetrics: request counts and latency labelled by chi route pattern
  - AccessLog: one zerolog line per request

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.SecurityHeaders)

Authentication lives in the auth package and authorization in authz.
*/
package middleware
