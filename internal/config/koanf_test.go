// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Backend != BackendBadger {
		t.Errorf("Database.Backend = %q, want %q", cfg.Database.Backend, BackendBadger)
	}
	if cfg.Artifacts.Source != SourceFile {
		t.Errorf("Artifacts.Source = %q, want %q", cfg.Artifacts.Source, SourceFile)
	}
	if cfg.Artifacts.ReloadInterval != time.Hour {
		t.Errorf("Artifacts.ReloadInterval = %v, want 1h", cfg.Artifacts.ReloadInterval)
	}
	if cfg.Recommend.DefaultProfile != recommend.ProfileDefault {
		t.Errorf("Recommend.DefaultProfile = %q, want %q", cfg.Recommend.DefaultProfile, recommend.ProfileDefault)
	}
	if cfg.Recommend.SearchHistoryLimit != 10 {
		t.Errorf("Recommend.SearchHistoryLimit = %d, want 10", cfg.Recommend.SearchHistoryLimit)
	}
	if cfg.Security.AuthMode != AuthModeJWT {
		t.Errorf("Security.AuthMode = %q, want jwt", cfg.Security.AuthMode)
	}
	if cfg.Security.JWTSecret != "" {
		t.Error("Security.JWTSecret should be empty by default")
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"MYSQL_DSN", "database.mysql_dsn"},
		{"ARTIFACTS_DUCKDB_PATH", "artifacts.duckdb_path"},
		{"RECOMMEND_DEFAULT_PROFILE", "recommend.default_profile"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"rate_limit_requests", "security.rate_limit_reqs"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envKey(tt.key); got != tt.want {
				t.Errorf("envKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

// setBaseEnv points config loading away from any config file on the host
// and supplies the one required secret.
func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("JWT_SECRET", testSecret)
	t.Chdir(t.TempDir())
}

func TestLoad_EnvOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_BACKEND", "mysql")
	t.Setenv("MYSQL_DSN", "books:secret@tcp(db:3306)/books")
	t.Setenv("ARTIFACTS_SOURCE", "duckdb")
	t.Setenv("ARTIFACTS_RELOAD_INTERVAL", "10m")
	t.Setenv("RECOMMEND_DEFAULT_PROFILE", "survey")
	t.Setenv("CORS_ORIGINS", "https://a.example.org, https://b.example.org,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Backend != BackendMySQL || cfg.Database.MySQLDSN == "" {
		t.Errorf("Database = %+v, want mysql with DSN", cfg.Database)
	}
	if cfg.Artifacts.Location() != cfg.Artifacts.DuckDBPath {
		t.Errorf("Artifacts.Location() = %q, want duckdb path", cfg.Artifacts.Location())
	}
	if cfg.Artifacts.ReloadInterval != 10*time.Minute {
		t.Errorf("Artifacts.ReloadInterval = %v, want 10m", cfg.Artifacts.ReloadInterval)
	}
	if cfg.Recommend.DefaultProfile != "survey" {
		t.Errorf("Recommend.DefaultProfile = %q, want survey", cfg.Recommend.DefaultProfile)
	}
	wantOrigins := []string{"https://a.example.org", "https://b.example.org"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, wantOrigins) {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, wantOrigins)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	setBaseEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 7000
logging:
  level: debug
recommend:
  default_profile: strict
  profiles:
    strict:
      base: survey
      thresholds:
        inclusion: 0.5
      diversity:
        max_per_author: 1
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	// Environment beats the file
	t.Setenv("HTTP_PORT", "7001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("Server.Port = %d, want 7001", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}

	profiles, err := cfg.Recommend.ResolveProfiles()
	if err != nil {
		t.Fatalf("ResolveProfiles() error = %v", err)
	}
	strict := profiles["strict"]
	if strict == nil {
		t.Fatal("strict profile missing")
	}
	if strict.Thresholds.Inclusion != 0.5 {
		t.Errorf("strict inclusion = %v, want 0.5", strict.Thresholds.Inclusion)
	}
	if strict.Diversity.MaxPerAuthor != 1 {
		t.Errorf("strict max_per_author = %d, want 1", strict.Diversity.MaxPerAuthor)
	}
	if strict.Weights != recommend.SurveyProfile().Weights {
		t.Errorf("strict weights = %+v, want survey weights", strict.Weights)
	}
}

func TestLoad_InvalidFails(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "short")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a short JWT secret")
	}
}

func TestLoadRanking_IgnoresServerSettings(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("HTTP_PORT", "0")

	cfg, err := LoadRanking()
	if err != nil {
		t.Fatalf("LoadRanking() error = %v", err)
	}
	if cfg.Artifacts.Dir == "" {
		t.Error("Artifacts.Dir should keep its default")
	}
}

func TestEnvValue_Lists(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantKey string
		want    interface{}
	}{
		{"split", "a, b", "security.cors_origins", []string{"a", "b"}},
		{"blank items dropped", " ,a,,", "security.cors_origins", []string{"a"}},
		{"empty ignored", " , ", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, got := envValue("CORS_ORIGINS", tt.value)
			if key != tt.wantKey || !reflect.DeepEqual(got, tt.want) {
				t.Errorf("envValue() = %q, %v; want %q, %v", key, got, tt.wantKey, tt.want)
			}
		})
	}

	if key, got := envValue("HTTP_PORT", "9000"); key != "server.port" || got != "9000" {
		t.Errorf("scalar envValue() = %q, %v", key, got)
	}
}
