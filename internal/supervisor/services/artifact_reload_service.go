// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

// Reloader loads a fresh artifact index and installs it.
// *artifacts.Holder satisfies it.
type Reloader interface {
	Reload(ctx context.Context) (*recommend.Index, error)
}

// ArtifactReloadConfig controls periodic artifact reloads.
type ArtifactReloadConfig struct {
	// Interval between reloads. Zero disables the loop.
	Interval time.Duration

	// ReloadOnStart triggers one reload as soon as the service starts.
	ReloadOnStart bool

	// Timeout bounds a single reload. Default: 5m
	Timeout time.Duration
}

// ArtifactReloadService refreshes the loaded artifacts on a fixed interval.
// A failed reload keeps the previous index serving and is retried on the
// next tick.
type ArtifactReloadService struct {
	reloader Reloader
	config   ArtifactReloadConfig
	logger   zerolog.Logger
	name     string
}

// NewArtifactReloadService creates the reload loop.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewArtifactReloadService(reloader Reloader, cfg ArtifactReloadConfig, logger zerolog.Logger) *ArtifactReloadService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &ArtifactReloadService{
		reloader: reloader,
		config:   cfg,
		logger:   logger.With().Str("service", "artifact-reloader").Logger(),
		name:     "artifact-reloader",
	}
}

// Serve implements suture.Service.
func (s *ArtifactReloadService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Bool("reload_on_start", s.config.ReloadOnStart).
		Msg("artifact reloader starting")

	if s.config.ReloadOnStart {
		s.reload(ctx)
	}

	if s.config.Interval <= 0 {
		// Nothing scheduled; park until shutdown so suture does not restart us.
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("artifact reloader shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.reload(ctx)
		}
	}
}

func (s *ArtifactReloadService) reload(ctx context.Context) {
	reloadCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	ix, err := s.reloader.Reload(reloadCtx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("scheduled artifact reload failed, keeping current index")
		return
	}
	s.logger.Info().
		Str("version", ix.Version()).
		Int("books", ix.Len()).
		Dur("duration", time.Since(start)).
		Msg("artifacts reloaded")
}

// String returns the service name for logging.
func (s *ArtifactReloadService) String() string {
	return s.name
}
