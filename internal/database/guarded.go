// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"errors"

	"github.com/tomtom215/shelfwise/internal/breaker"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

// GuardedStore wraps a Store with a circuit breaker. Caller errors such as
// a missing row or a blank query do not count as failures.
type GuardedStore struct {
	store   Store
	breaker *breaker.Breaker[any]
}

// NewGuardedStore wraps store. The breaker is named after the backend.
func NewGuardedStore(store Store, cfg breaker.Config) *GuardedStore {
	cfg.IsSuccessful = isCallerError
	return &GuardedStore{
		store:   store,
		breaker: breaker.New[any]("store-"+store.Backend(), cfg),
	}
}

func isCallerError(err error) bool {
	return err == nil ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidUser) ||
		errors.Is(err, ErrEmptyQuery) ||
		errors.Is(err, context.Canceled)
}

// Backend implements Store.
func (g *GuardedStore) Backend() string {
	return g.store.Backend()
}

// BreakerState reports the breaker state for health checks.
func (g *GuardedStore) BreakerState() string {
	return g.breaker.State()
}

// GetPreferences implements Store.
func (g *GuardedStore) GetPreferences(ctx context.Context, userID int) (*recommend.Preferences, error) {
	v, err := g.breaker.Execute(func() (any, error) {
		return g.store.GetPreferences(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*recommend.Preferences), nil
}

// SavePreferences implements Store.
func (g *GuardedStore) SavePreferences(ctx context.Context, prefs *recommend.Preferences) error {
	_, err := g.breaker.Execute(func() (any, error) {
		return nil, g.store.SavePreferences(ctx, prefs)
	})
	return err
}

// LogSearch implements Store.
func (g *GuardedStore) LogSearch(ctx context.Context, userID int, query string) error {
	_, err := g.breaker.Execute(func() (any, error) {
		return nil, g.store.LogSearch(ctx, userID, query)
	})
	return err
}

// GetRecentSearches implements Store.
func (g *GuardedStore) GetRecentSearches(ctx context.Context, userID int, limit int) ([]string, error) {
	v, err := g.breaker.Execute(func() (any, error) {
		return g.store.GetRecentSearches(ctx, userID, limit)
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// Ping implements Store. It bypasses the breaker so health checks see the
// backend directly.
func (g *GuardedStore) Ping(ctx context.Context) error {
	return g.store.Ping(ctx)
}

// Close implements Store.
func (g *GuardedStore) Close() error {
	return g.store.Close()
}

var _ Store = (*GuardedStore)(nil)
