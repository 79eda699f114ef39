// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// @title Shelfwise API
// @version 1.0
// @description Ranks a book catalog from liked books, searches, authors and genres.
// @description
// @description ## Ranking
// @description
// @description Every accepted recommendation request is answered with 200. When the artifacts are
// @description missing or nothing passes the relevance threshold, the popular fallback list is
// @description served and `metadata.fallback_cause` says why.
// @description
// @description ## Authentication
// @description
// @description Preference and admin routes need a bearer JWT. With AUTH_MODE=none the
// @description `X-User-ID` header names the caller instead.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address on /api/v1.
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {}},
// @description   "meta": {"request_id": "...", "timestamp": "2026-01-01T00:00:00Z"}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/shelfwise/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8080
// @BasePath /
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer JWT, e.g. "Bearer eyJ...".
//
// @tag.name Recommendations
// @tag.description Ranked book lists and ranking profiles
//
// @tag.name Search
// @tag.description Catalog title search and search history
//
// @tag.name Preferences
// @tag.description Stored preferences of the authenticated user
//
// @tag.name Admin
// @tag.description Artifact reloads
//
// @tag.name Health
// @tag.description Liveness and readiness probes
package main
