// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package config

import (
	"time"
)

// Config holds all application configuration.
//
// Configuration is loaded in layers by Load: built-in defaults,
// then an optional YAML file, then environment variables.
//
// Thread Safety:
// Config is immutable after loading and safe for concurrent read access.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Database  DatabaseConfig  `koanf:"database"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Recommend RecommendConfig `koanf:"recommend"`
	Search    SearchConfig    `koanf:"search"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Database backends.
const (
	BackendMySQL  = "mysql"
	BackendBadger = "badger"
	BackendNone   = "none"
)

// DatabaseConfig selects and configures the user-data store.
//
// Environment Variables:
//   - DB_BACKEND: mysql, badger or none (default: badger)
//   - MYSQL_DSN: go-sql-driver DSN, e.g. user:pass@tcp(host:3306)/books
//   - BADGER_PATH: data directory for the embedded store
type DatabaseConfig struct {
	Backend string `koanf:"backend"`

	MySQLDSN        string        `koanf:"mysql_dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	AutoMigrate     bool          `koanf:"auto_migrate"`

	BadgerPath     string `koanf:"badger_path"`
	BadgerInMemory bool   `koanf:"badger_in_memory"`
}

// Artifact source kinds.
const (
	SourceFile   = "file"
	SourceDuckDB = "duckdb"
)

// ArtifactsConfig locates the precomputed ranking artifacts.
//
// Environment Variables:
//   - ARTIFACTS_SOURCE: file or duckdb (default: file)
//   - ARTIFACTS_DIR: directory with book_index.json and cosine_sim.json
//   - ARTIFACTS_DUCKDB_PATH: DuckDB database with book_index and cosine_sim tables
//   - ARTIFACTS_RELOAD_INTERVAL: reload period, 0 disables (default: 1h)
type ArtifactsConfig struct {
	Source         string        `koanf:"source"`
	Dir            string        `koanf:"dir"`
	DuckDBPath     string        `koanf:"duckdb_path"`
	ReloadInterval time.Duration `koanf:"reload_interval"`
}

// Location returns the directory or database path for the configured source.
func (a ArtifactsConfig) Location() string {
	if a.Source == SourceDuckDB {
		return a.DuckDBPath
	}
	return a.Dir
}

// RecommendConfig configures the ranking engines.
//
// Profiles overrides fields of named profiles using the JSON field names of
// recommend.Profile. An entry may set "base" to start from another built-in
// profile; unknown names start from the default profile:
//
//	recommend:
//	  default_profile: survey
//	  profiles:
//	    survey:
//	      fallback:
//	        backfill_target: 10
//	    strict:
//	      base: default
//	      thresholds:
//	        inclusion: 0.5
type RecommendConfig struct {
	DefaultProfile     string                    `koanf:"default_profile"`
	SearchHistoryLimit int                       `koanf:"search_history_limit"`
	RequestTimeout     time.Duration             `koanf:"request_timeout"`
	Profiles           map[string]map[string]any `koanf:"profiles"`
}

// SearchConfig configures catalog title search.
type SearchConfig struct {
	Enabled      bool `koanf:"enabled"`
	DefaultLimit int  `koanf:"default_limit"`
}

// Auth modes.
const (
	AuthModeJWT  = "jwt"
	AuthModeNone = "none"
)

// SecurityConfig holds authentication and HTTP protection settings.
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	JWTIssuer         string        `koanf:"jwt_issuer"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// AuthzPolicyPath replaces the embedded casbin policy when set.
	AuthzPolicyPath string `koanf:"authz_policy_path"`

	// ReloadMinInterval throttles forced artifact reloads.
	ReloadMinInterval time.Duration `koanf:"reload_min_interval"`
}
