// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/search"
)

// ArtifactHolder serves and reloads the similarity index.
// artifacts.Holder implements it.
type ArtifactHolder interface {
	Current() *recommend.Index
	Ready() bool
	Reload(ctx context.Context) (*recommend.Index, error)
}

// BookSearcher runs catalog title searches. search.Index implements it.
type BookSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]search.Hit, error)
}

// HandlerConfig holds the handler tunables.
type HandlerConfig struct {
	// RequestTimeout bounds one ranking call. Zero disables the bound.
	RequestTimeout time.Duration

	// SearchDefaultLimit applies when a book search names no limit.
	SearchDefaultLimit int

	// ReloadMinInterval throttles forced artifact reloads. Zero disables
	// throttling.
	ReloadMinInterval time.Duration

	// Version is reported by the health endpoints.
	Version string
}

// Handler serves the HTTP endpoints.
type Handler struct {
	engines  *recommend.Engines
	holder   ArtifactHolder
	store    database.Store
	searcher BookSearcher
	config   HandlerConfig

	reloadLimiter *rate.Limiter
	startTime     time.Time
}

// NewHandler creates a handler. store and searcher may be nil; the
// endpoints that need them then answer 503.
func NewHandler(engines *recommend.Engines, holder ArtifactHolder, store database.Store, searcher BookSearcher, cfg HandlerConfig) *Handler {
	if cfg.SearchDefaultLimit <= 0 {
		cfg.SearchDefaultLimit = search.DefaultLimit
	}

	limit := rate.Inf
	if cfg.ReloadMinInterval > 0 {
		limit = rate.Every(cfg.ReloadMinInterval)
	}

	return &Handler{
		engines:       engines,
		holder:        holder,
		store:         store,
		searcher:      searcher,
		config:        cfg,
		reloadLimiter: rate.NewLimiter(limit, 1),
		startTime:     time.Now(),
	}
}

// rankingContext applies the configured request timeout.
func (h *Handler) rankingContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.config.RequestTimeout)
}
