// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package api provides the HTTP REST API layer for Shelfwise.

The API wraps the ranking engines, the user data store and the catalog
search index behind a chi router. Every JSON endpoint answers with the
same envelope:

	{
	  "success": true,
	  "data": { ... },
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}
	}

Errors carry a machine-readable code instead of data:

	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {...}}}

Endpoints:

  - POST /api/v1/recommendations: rank for an explicit request body
  - GET /api/v1/recommendations/users/{userID}: rank from stored preferences
  - GET /api/v1/recommendations/profiles: profile names, settings and counters
  - POST /api/v1/search/log: record a search query
  - GET /api/v1/books/search: fuzzy title search over the catalog
  - GET, PUT /api/v1/preferences: the caller's stored preferences (JWT)
  - POST /api/v1/admin/artifacts/reload: forced artifact reload (JWT, admin)
  - GET /health/live, GET /health/ready: probes
  - GET /metrics: Prometheus exposition
  - GET /swagger/*: OpenAPI document and UI

Middleware Stack:

Requests pass through request ID assignment, real IP extraction, panic
recovery, access logging, Prometheus instrumentation, CORS and security
headers. API routes are additionally rate limited per client IP using
go-chi/httprate. Protected routes run the auth and authz middleware.

Ranking never fails at the HTTP layer: a pipeline failure is served as the
popular fallback list with the cause recorded in the response metadata.
Only malformed input is rejected with 400.
*/
package api
