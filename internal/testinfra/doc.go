// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package testinfra provides container-backed infrastructure for
// integration tests.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/database/...
//
// # MySQL Container
//
// MySQLContainer runs a real MySQL server for the user-data store:
//
//	func TestMySQLStore(t *testing.T) {
//	    mysql := testinfra.StartMySQL(t)
//	    store, err := database.OpenMySQL(ctx, database.MySQLConfig{DSN: mysql.DSN}, zerolog.Nop())
//	    ...
//	}
//
// Tests are skipped when Docker is unavailable.
package testinfra
