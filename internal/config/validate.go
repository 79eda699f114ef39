// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tomtom215/shelfwise/internal/logging"
)

const (
	minJWTSecretLength    = 32
	maxSearchHistoryLimit = 100
	maxRateLimitRequests  = 100000
)

// problems collects every configuration error so operators fix them in one
// pass. Messages name the environment variable.
type problems []error

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Errorf(format, args...))
}

func (p *problems) check(ok bool, format string, args ...any) {
	if !ok {
		p.addf(format, args...)
	}
}

func (p problems) err() error { return errors.Join(p...) }

// Validate checks every section the server reads.
func (c *Config) Validate() error {
	var p problems
	c.checkServer(&p)
	c.checkDatabase(&p)
	c.checkSearch(&p)
	c.checkSecurity(&p)
	c.checkRanking(&p)
	return p.err()
}

// ValidateRanking checks logging, artifacts and recommendation settings,
// the subset cmd/rank reads.
func (c *Config) ValidateRanking() error {
	var p problems
	c.checkRanking(&p)
	return p.err()
}

func (c *Config) checkRanking(p *problems) {
	c.checkLogging(p)
	c.checkArtifacts(p)
	c.checkRecommend(p)
}

func (c *Config) checkServer(p *problems) {
	s := c.Server
	p.check(s.Port >= 1 && s.Port <= 65535, "HTTP_PORT must be between 1 and 65535")
	p.check(s.Timeout > 0, "HTTP_TIMEOUT must be positive")
	p.check(s.ShutdownTimeout > 0, "SHUTDOWN_TIMEOUT must be positive")
}

func (c *Config) checkLogging(p *problems) {
	p.check(logging.ValidLevel(c.Logging.Level), "LOG_LEVEL must be one of: trace, debug, info, warn, error")
	p.check(slices.Contains([]string{"", "json", "console"}, c.Logging.Format), "LOG_FORMAT must be one of: json, console")
}

func (c *Config) checkDatabase(p *problems) {
	d := c.Database
	switch d.Backend {
	case BackendMySQL:
		p.check(strings.TrimSpace(d.MySQLDSN) != "", "MYSQL_DSN is required when DB_BACKEND=mysql")
		p.check(d.MaxOpenConns >= 1, "MYSQL_MAX_OPEN_CONNS must be positive")
		p.check(d.MaxIdleConns >= 0 && d.MaxIdleConns <= d.MaxOpenConns,
			"MYSQL_MAX_IDLE_CONNS must be between 0 and MYSQL_MAX_OPEN_CONNS")
	case BackendBadger:
		p.check(d.BadgerInMemory || strings.TrimSpace(d.BadgerPath) != "",
			"BADGER_PATH is required when DB_BACKEND=badger unless BADGER_IN_MEMORY=true")
	case BackendNone:
	default:
		p.addf("DB_BACKEND must be one of: mysql, badger, none")
	}
}

func (c *Config) checkArtifacts(p *problems) {
	a := c.Artifacts
	switch a.Source {
	case SourceFile:
		p.check(strings.TrimSpace(a.Dir) != "", "ARTIFACTS_DIR is required when ARTIFACTS_SOURCE=file")
	case SourceDuckDB:
		p.check(strings.TrimSpace(a.DuckDBPath) != "", "ARTIFACTS_DUCKDB_PATH is required when ARTIFACTS_SOURCE=duckdb")
	default:
		p.addf("ARTIFACTS_SOURCE must be one of: file, duckdb")
	}
	// Zero disables periodic reloads.
	p.check(a.ReloadInterval == 0 || a.ReloadInterval >= time.Second,
		"ARTIFACTS_RELOAD_INTERVAL must be at least 1s or 0 to disable")
}

func (c *Config) checkRecommend(p *problems) {
	r := c.Recommend
	p.check(r.SearchHistoryLimit >= 0 && r.SearchHistoryLimit <= maxSearchHistoryLimit,
		"RECOMMEND_SEARCH_HISTORY_LIMIT must be between 0 and %d", maxSearchHistoryLimit)
	p.check(r.RequestTimeout > 0, "RECOMMEND_REQUEST_TIMEOUT must be positive")

	profiles, err := r.ResolveProfiles()
	if err != nil {
		*p = append(*p, err)
		return
	}
	_, ok := profiles[r.DefaultProfile]
	p.check(ok, "RECOMMEND_DEFAULT_PROFILE %q is not a known profile", r.DefaultProfile)
}

func (c *Config) checkSearch(p *problems) {
	if c.Search.Enabled {
		p.check(c.Search.DefaultLimit >= 1 && c.Search.DefaultLimit <= 100,
			"SEARCH_DEFAULT_LIMIT must be between 1 and 100")
	}
}

func (c *Config) checkSecurity(p *problems) {
	s := c.Security
	switch s.AuthMode {
	case AuthModeJWT:
		switch {
		case s.JWTSecret == "":
			p.addf("JWT_SECRET is required when AUTH_MODE=jwt")
		case len(s.JWTSecret) < minJWTSecretLength:
			p.addf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
		case looksLikePlaceholder(s.JWTSecret):
			p.addf("JWT_SECRET contains a placeholder value; generate one with: openssl rand -base64 48")
		}
		p.check(!(c.IsProduction() && c.wildcardCORS()),
			"CORS_ORIGINS=* is not allowed in production with authentication enabled; list the allowed origins")
	case AuthModeNone:
		// User data would be writable by anyone.
		p.check(!c.IsProduction(), "AUTH_MODE=none is not allowed when ENVIRONMENT=production")
	default:
		p.addf("AUTH_MODE must be one of: none, jwt")
	}

	if !s.RateLimitDisabled {
		p.check(s.RateLimitReqs >= 1 && s.RateLimitReqs <= maxRateLimitRequests,
			"RATE_LIMIT_REQUESTS must be between 1 and %d", maxRateLimitRequests)
		p.check(s.RateLimitWindow >= time.Second && s.RateLimitWindow <= time.Hour,
			"RATE_LIMIT_WINDOW must be between 1s and 1h")
	}
	p.check(s.ReloadMinInterval >= 0, "RELOAD_MIN_INTERVAL must not be negative")
}

func (c *Config) wildcardCORS() bool {
	return slices.Contains(c.Security.CORSOrigins, "*")
}

// ShouldWarnAboutCORS reports a wildcard origin in front of authenticated
// routes; outside production it is allowed but logged at startup.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.Security.AuthMode != AuthModeNone && c.wildcardCORS()
}

// IsProduction reports ENVIRONMENT=production (or prod).
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Server.Environment) {
	case "production", "prod":
		return true
	}
	return false
}

func looksLikePlaceholder(secret string) bool {
	upper := strings.ToUpper(secret)
	for _, marker := range []string{"REPLACE", "CHANGEME", "CHANGE_ME", "YOUR_SECRET", "PLACEHOLDER", "EXAMPLE"} {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}
