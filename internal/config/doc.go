// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package config provides centralized configuration management for Shelfwise.

Configuration is loaded in three layers with koanf, each overriding the last:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
    /etc/shelfwise/config.yaml and /etc/shelfwise/config.yml
 3. Environment variables, mapped explicitly through envKeys

Unmapped environment variables are ignored.

# Environment Variables

HTTP Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8080)
  - HTTP_TIMEOUT, SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development, staging, production

User data store:
  - DB_BACKEND: mysql, badger, none (default: badger)
  - MYSQL_DSN, MYSQL_MAX_OPEN_CONNS, MYSQL_MAX_IDLE_CONNS,
    MYSQL_CONN_MAX_LIFETIME, MYSQL_AUTO_MIGRATE
  - BADGER_PATH, BADGER_IN_MEMORY

Ranking artifacts:
  - ARTIFACTS_SOURCE: file or duckdb
  - ARTIFACTS_DIR, ARTIFACTS_DUCKDB_PATH, ARTIFACTS_RELOAD_INTERVAL

Recommendations and search:
  - RECOMMEND_DEFAULT_PROFILE, RECOMMEND_SEARCH_HISTORY_LIMIT,
    RECOMMEND_REQUEST_TIMEOUT
  - SEARCH_ENABLED, SEARCH_DEFAULT_LIMIT

Security:
  - AUTH_MODE: jwt or none
  - JWT_SECRET (at least 32 characters), JWT_ISSUER
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CORS_ORIGINS: comma-separated list
  - RELOAD_MIN_INTERVAL: minimum spacing of forced artifact reloads
  - AUTHZ_POLICY_PATH: casbin policy CSV replacing the embedded policy

Ranking profiles are only configurable from the YAML file, under
recommend.profiles. See RecommendConfig.

# Validation

Validate checks every section and names the offending environment
variable in its error. ValidateRanking checks only what the offline
ranking CLI needs.

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	profiles, err := cfg.Recommend.ResolveProfiles()
*/
package config
