// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	_ "github.com/tomtom215/shelfwise/docs" // Import generated swagger docs
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/supervisor"
	"github.com/tomtom215/shelfwise/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	var (
		configPath  = pflag.StringP("config", "c", "", "path to a YAML config file (overrides CONFIG_PATH)")
		envFile     = pflag.String("env-file", ".env", "dotenv file loaded before the environment is read")
		showVersion = pflag.BoolP("version", "v", false, "print the version and exit")
	)
	pflag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	if err := loadEnvFile(*envFile); err != nil {
		logging.Fatal().Err(err).Str("file", *envFile).Msg("Failed to load env file")
	}
	if *configPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, *configPath); err != nil {
			logging.Fatal().Err(err).Msg("Failed to set config path")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	metrics.SetAppInfo(version, runtime.Version())

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("db_backend", cfg.Database.Backend).
		Str("artifacts_source", cfg.Artifacts.Source).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Starting Shelfwise")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Strs("cors_origins", cfg.Security.CORSOrigins).Msg("CORS allows any origin")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := newApp(ctx, cfg, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize")
	}
	defer app.Close()

	tree := supervisor.New(logging.NewSlogLogger(), supervisor.Policy{Timeout: cfg.Server.ShutdownTimeout})

	tree.AddDataService(services.NewArtifactReloadService(app.holder, services.ArtifactReloadConfig{
		Interval: cfg.Artifacts.ReloadInterval,
	}, logging.Logger()))
	tree.AddAPIService(services.NewHTTPService(app.server, cfg.Server.ShutdownTimeout, logging.Logger()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Shelfwise stopped")
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
