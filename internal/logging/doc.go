// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package logging wraps zerolog for the server and the rank command.
//
// The server installs one global logger at startup:
//
//	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
//	logging.Info().Str("addr", addr).Msg("Listening")
//
// Request handlers log through the request context so entries carry the
// request ID set by middleware.RequestID:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to record search")
//
// Long-lived components (artifact loader, search index, stores) take a
// zerolog.Logger by value, usually logging.Logger() with a component field.
// cmd/rank builds its own with New because its log goes to stderr while
// stdout carries the ranked list.
//
// SlogHandler bridges log/slog into zerolog for libraries that only speak
// slog; the supervisor tree logs restarts through it.
//
// An event is only written by Msg or Send.
package logging
