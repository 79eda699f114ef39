// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultDrainTimeout = 10 * time.Second

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPService serves HTTP until its context ends, then drains in-flight
// requests for at most the drain timeout.
type HTTPService struct {
	srv    HTTPServer
	drain  time.Duration
	logger zerolog.Logger
}

// NewHTTPService supervises srv. A non-positive drain uses 10s.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewHTTPService(srv HTTPServer, drain time.Duration, logger zerolog.Logger) *HTTPService {
	if drain <= 0 {
		drain = defaultDrainTimeout
	}
	return &HTTPService{
		srv:    srv,
		drain:  drain,
		logger: logger.With().Str("service", "http-server").Logger(),
	}
}

// Serve returns the listener error, which makes the supervisor retry the
// bind, or ctx.Err() after a clean drain.
func (s *HTTPService) Serve(ctx context.Context) error {
	listenErr := make(chan error, 1)
	go func() { listenErr <- s.srv.ListenAndServe() }()

	if hs, ok := s.srv.(*http.Server); ok {
		s.logger.Info().Str("addr", hs.Addr).Msg("HTTP server listening")
	}

	select {
	case err := <-listenErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.logger.Error().Err(err).Msg("HTTP listener failed")
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	// ctx is already done, so the drain needs its own deadline.
	drainCtx, cancel := context.WithTimeout(context.Background(), s.drain)
	defer cancel()
	s.logger.Info().Dur("timeout", s.drain).Msg("Draining HTTP connections")
	if err := s.srv.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	<-listenErr
	return ctx.Err()
}

func (s *HTTPService) String() string { return "http-server" }
