// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package authz provides role-based authorization using Casbin.
//
// The request chain is:
//
//	Request -> auth.Middleware.Authenticate -> authz.Middleware.Authorize -> Handler
//
// Subjects are "user:<id>" for the authenticated user plus the role from
// the token. The embedded policy grants users read and write on their own
// preferences and admins artifact reloads; admins inherit every user
// permission. AUTHZ_POLICY_PATH replaces the embedded policy with a CSV
// file of the same shape:
//
//	p, user, preferences, read
//	p, admin, artifacts, reload
//	g, admin, user
//	g, user:17, admin
package authz
