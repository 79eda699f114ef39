// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/api"
	"github.com/tomtom215/shelfwise/internal/artifacts"
	"github.com/tomtom215/shelfwise/internal/auth"
	"github.com/tomtom215/shelfwise/internal/authz"
	"github.com/tomtom215/shelfwise/internal/breaker"
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/recommend/reranking"
	"github.com/tomtom215/shelfwise/internal/search"
)

// app owns the components main wires together.
type app struct {
	store    database.Store
	holder   *artifacts.Holder
	searcher *search.Index
	engines  *recommend.Engines
	server   *http.Server
	logger   zerolog.Logger
}

// newApp builds every component. A failed initial artifact load is logged
// and tolerated: requests are served from the fallback list until a reload
// succeeds.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{logger: logger}

	store, err := openStore(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	a.store = store

	holder, err := newHolder(&cfg.Artifacts, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.holder = holder

	if cfg.Search.Enabled {
		a.searcher = search.New(logger)
		holder.OnReload(a.searcher.Rebuild)
	}

	if ix, err := holder.Reload(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial artifact load failed, serving fallback until a reload succeeds")
	} else {
		logger.Info().Str("version", ix.Version()).Int("books", ix.Len()).Bool("matrix", ix.HasMatrix()).Msg("Artifacts loaded")
	}

	engines, err := newEngines(&cfg.Recommend, holder, store, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.engines = engines

	srv, err := newHTTPServer(cfg, a)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.server = srv

	return a, nil
}

// Close releases the store and the search index.
func (a *app) Close() {
	if a.searcher != nil {
		if err := a.searcher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Error closing search index")
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Error closing store")
		}
	}
}

// openStore opens the configured user-data backend behind a circuit
// breaker. The "none" backend returns a nil Store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func openStore(ctx context.Context, cfg *config.DatabaseConfig, logger zerolog.Logger) (database.Store, error) {
	var (
		store database.Store
		err   error
	)
	switch cfg.Backend {
	case config.BackendNone:
		logger.Info().Msg("User data store disabled (DB_BACKEND=none)")
		return nil, nil
	case config.BackendMySQL:
		store, err = database.OpenMySQL(ctx, database.MySQLConfig{
			DSN:             cfg.MySQLDSN,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			AutoMigrate:     cfg.AutoMigrate,
		}, logger)
	case config.BackendBadger:
		store, err = database.OpenBadger(database.BadgerConfig{
			Path:     cfg.BadgerPath,
			InMemory: cfg.BadgerInMemory,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown database backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}

	logger.Info().Str("backend", store.Backend()).Msg("User data store ready")
	return database.NewGuardedStore(store, breaker.DefaultConfig()), nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newHolder(cfg *config.ArtifactsConfig, logger zerolog.Logger) (*artifacts.Holder, error) {
	src, err := artifacts.NewSource(cfg.Source, cfg.Location())
	if err != nil {
		return nil, err
	}
	loader := artifacts.NewLoader(src, breaker.DefaultConfig(), logger)
	return artifacts.NewHolder(loader, logger), nil
}

// newEngines builds one engine per resolved profile and attaches the shared
// providers. store may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newEngines(cfg *config.RecommendConfig, holder recommend.IndexProvider, store database.Store, logger zerolog.Logger) (*recommend.Engines, error) {
	profiles, err := cfg.ResolveProfiles()
	if err != nil {
		return nil, err
	}
	engines, err := recommend.NewEngines(profiles, cfg.DefaultProfile, logger)
	if err != nil {
		return nil, err
	}

	engines.SetIndexProvider(holder)
	if store != nil {
		engines.SetDataProvider(database.AsDataProvider(store))
	}
	engines.SetObserver(metrics.RecommendObserver{})
	engines.SetSearchHistoryLimit(cfg.SearchHistoryLimit)

	if n := reranking.Register(engines); n > 0 {
		logger.Info().Int("profiles", n).Msg("MMR reranking enabled")
	}
	return engines, nil
}

// newHTTPServer assembles authentication, authorization and the router.
func newHTTPServer(cfg *config.Config, a *app) (*http.Server, error) {
	var jwtManager *auth.JWTManager
	if cfg.Security.AuthMode != config.AuthModeNone {
		m, err := auth.NewJWTManager(&cfg.Security)
		if err != nil {
			return nil, fmt.Errorf("jwt: %w", err)
		}
		jwtManager = m
	}

	enforcer, err := authz.NewEnforcer(cfg.Security.AuthzPolicyPath)
	if err != nil {
		return nil, fmt.Errorf("authz: %w", err)
	}

	// Keep the interface nil when search is off; a typed nil would pass
	// the handler's nil check.
	var searcher api.BookSearcher
	if a.searcher != nil {
		searcher = a.searcher
	}

	handler := api.NewHandler(a.engines, a.holder, a.store, searcher, api.HandlerConfig{
		RequestTimeout:     cfg.Recommend.RequestTimeout,
		SearchDefaultLimit: cfg.Search.DefaultLimit,
		ReloadMinInterval:  cfg.Security.ReloadMinInterval,
		Version:            version,
	})

	router := api.NewRouter(
		handler,
		api.NewEdge(api.EdgeOptionsFromSecurity(&cfg.Security)),
		auth.NewMiddleware(jwtManager, cfg.Security.AuthMode, api.WriteError),
		authz.NewMiddleware(enforcer, api.WriteError),
	)

	return &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}, nil
}
