// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Command server runs the Shelfwise HTTP API.

# Startup

 1. Flags and an optional .env file (godotenv, never overriding the environment)
 2. Configuration: defaults, config.yaml, environment (koanf)
 3. User data store: MySQL, Badger or none, behind a circuit breaker
 4. Artifacts: book metadata and similarity matrix from files or DuckDB
 5. Catalog search index, rebuilt on every artifact reload
 6. One ranking engine per profile
 7. Supervisor tree with the artifact reloader and the HTTP server

A missing artifact set does not stop the server. Readiness reports 503 and
recommendations come from the fallback list until a reload succeeds.

# Flags

	-c, --config    YAML config file (same as CONFIG_PATH)
	    --env-file  dotenv file to load (default .env)
	-v, --version   print the version and exit

# Environment

	HTTP_PORT=8080
	DB_BACKEND=mysql MYSQL_DSN='user:pass@tcp(db:3306)/books?parseTime=true'
	ARTIFACTS_SOURCE=file ARTIFACTS_DIR=/data/model
	ARTIFACTS_RELOAD_INTERVAL=1h
	RECOMMEND_DEFAULT_PROFILE=default
	AUTH_MODE=jwt JWT_SECRET=...

Development without authentication:

	AUTH_MODE=none DB_BACKEND=badger BADGER_IN_MEMORY=true go run ./cmd/server

# Endpoints

Swagger UI is served at /swagger/index.html and Prometheus metrics at
/metrics. SIGINT and SIGTERM drain in-flight requests for up to
SHUTDOWN_TIMEOUT before exiting.
*/
package main
