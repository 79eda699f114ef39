// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package database stores per-user data that personalizes rankings: saved
preferences and search history.

Backends:

  - MySQLStore: the relational schema shared with the web frontend. Saved
    preferences live in MPC (one row per user, JSON array columns) and
    searches in the append-only search_logs table.
  - BadgerStore: an embedded key-value store for single-node deployments
    and tests.

GuardedStore wraps either backend in a circuit breaker. AsDataProvider
adapts a Store to recommend.DataProvider, mapping a missing preference row
to "no preferences" instead of an error.

Recent searches are the newest distinct queries longer than two
characters, newest first.
*/
package database
