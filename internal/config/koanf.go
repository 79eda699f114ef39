// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

// ConfigPathEnvVar names a YAML file to load instead of searching
// configSearchPath.
const ConfigPathEnvVar = "CONFIG_PATH"

var configSearchPath = []string{
	"config.yaml",
	"config.yml",
	"/etc/shelfwise/config.yaml",
	"/etc/shelfwise/config.yml",
}

// defaultConfig is the bottom layer.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Database: DatabaseConfig{
			Backend:         BackendBadger,
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
			AutoMigrate:     false,
			BadgerPath:      "/data/userdata",
		},
		Artifacts: ArtifactsConfig{
			Source:         SourceFile,
			Dir:            "/data/model",
			DuckDBPath:     "/data/model/artifacts.duckdb",
			ReloadInterval: time.Hour,
		},
		Recommend: RecommendConfig{
			DefaultProfile:     recommend.ProfileDefault,
			SearchHistoryLimit: recommend.DefaultSearchHistoryLimit,
			RequestTimeout:     5 * time.Second,
		},
		Search: SearchConfig{
			Enabled:      true,
			DefaultLimit: 10,
		},
		Security: SecurityConfig{
			AuthMode:          AuthModeJWT,
			JWTSecret:         "",
			JWTIssuer:         "",
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			ReloadMinInterval: 30 * time.Second,
		},
	}
}

// Load builds the server configuration from defaults, the config file and
// the environment, in increasing priority, and validates every section.
func Load() (*Config, error) {
	return load((*Config).Validate)
}

// LoadRanking loads the same layers but validates only what offline ranking
// reads, so a host without server secrets can still run cmd/rank.
func LoadRanking() (*Config, error) {
	return load((*Config).ValidateRanking)
}

func load(validate func(*Config) error) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path := configFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// configFile returns CONFIG_PATH when it exists, else the first existing
// file of configSearchPath, else "".
func configFile() string {
	candidates := configSearchPath
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		candidates = append([]string{p}, candidates...)
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// envKeys maps environment variables (lower-cased) to config keys. Anything
// else in the environment is ignored.
var envKeys = map[string]string{
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"db_backend":              "database.backend",
	"mysql_dsn":               "database.mysql_dsn",
	"mysql_max_open_conns":    "database.max_open_conns",
	"mysql_max_idle_conns":    "database.max_idle_conns",
	"mysql_conn_max_lifetime": "database.conn_max_lifetime",
	"mysql_auto_migrate":      "database.auto_migrate",
	"badger_path":             "database.badger_path",
	"badger_in_memory":        "database.badger_in_memory",

	"artifacts_source":          "artifacts.source",
	"artifacts_dir":             "artifacts.dir",
	"artifacts_duckdb_path":     "artifacts.duckdb_path",
	"artifacts_reload_interval": "artifacts.reload_interval",

	"recommend_default_profile":      "recommend.default_profile",
	"recommend_search_history_limit": "recommend.search_history_limit",
	"recommend_request_timeout":      "recommend.request_timeout",

	"search_enabled":       "search.enabled",
	"search_default_limit": "search.default_limit",

	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"jwt_issuer":          "security.jwt_issuer",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"reload_min_interval": "security.reload_min_interval",
	"authz_policy_path":   "security.authz_policy_path",
}

// listKeys are comma-separated in the environment.
var listKeys = map[string]bool{
	"security.cors_origins": true,
}

func envKey(name string) string {
	return envKeys[strings.ToLower(name)]
}

// envValue is the koanf env callback. An empty key drops the variable.
func envValue(name, value string) (string, interface{}) {
	key := envKey(name)
	if key == "" || !listKeys[key] {
		return key, value
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return "", nil
	}
	return key, items
}
