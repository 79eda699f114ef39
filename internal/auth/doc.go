// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package auth provides bearer token authentication for the HTTP API.

Tokens are HS256 JWTs issued by the account service. The "id" claim holds
the numeric user id that preference and search-history endpoints act on;
the optional "role" claim is "user" (default) or "admin" and is consumed by
the authz package.

Key Components:

  - JWTManager: token validation (and generation, used by tests and tooling)
  - Middleware: extracts the token from "Authorization: Bearer" or the
    "token" cookie and stores Claims in the request context

Usage Example:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	authMW := auth.NewMiddleware(jwtManager, cfg.Security.AuthMode, api.WriteAuthError)
	r.With(authMW.Authenticate).Get("/api/v1/preferences", h.GetPreferences)

	claims, ok := auth.ClaimsFromContext(r.Context())

With AUTH_MODE=none every request is treated as an admin and the acting
user comes from the X-User-ID header. Configuration validation refuses
that mode in production.
*/
package auth
