// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/shelfwise/internal/breaker"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

// Backend names.
const (
	BackendMySQL  = "mysql"
	BackendBadger = "badger"
)

// DefaultRecentSearches is the history length used by the recommender.
const DefaultRecentSearches = 10

// minSearchLength is the shortest query kept in the recent history.
const minSearchLength = 3

// MaxQueryLength bounds a logged query, matching the search_logs column.
const MaxQueryLength = 255

var (
	// ErrNotFound is returned when a user has no saved preferences.
	ErrNotFound = errors.New("not found")

	// ErrInvalidUser is returned for non-positive user IDs.
	ErrInvalidUser = errors.New("user id must be positive")

	// ErrEmptyQuery is returned when a logged search is blank.
	ErrEmptyQuery = errors.New("search query is required")

	// ErrCircuitOpen is returned while the store breaker is open.
	ErrCircuitOpen = breaker.ErrOpen
)

// Store persists user preferences and search history.
type Store interface {
	// Backend names the storage engine.
	Backend() string

	// GetPreferences returns ErrNotFound when the user saved nothing.
	GetPreferences(ctx context.Context, userID int) (*recommend.Preferences, error)

	// SavePreferences replaces the user's preferences.
	SavePreferences(ctx context.Context, prefs *recommend.Preferences) error

	// LogSearch appends a search to the user's history.
	LogSearch(ctx context.Context, userID int, query string) error

	// GetRecentSearches returns up to limit distinct recent queries, newest first.
	GetRecentSearches(ctx context.Context, userID int, limit int) ([]string, error)

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	Close() error
}

// cleanQuery trims a search query and rejects blank ones.
func cleanQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		runes := []rune(query)
		query = string(runes[:MaxQueryLength])
	}
	return query, nil
}

func checkUser(userID int) error {
	if userID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidUser, userID)
	}
	return nil
}

// keepSearch reports whether a stored query belongs in the recent history.
func keepSearch(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) >= minSearchLength
}

// normalizePreferences returns a copy with nil lists replaced by empty ones.
func normalizePreferences(prefs *recommend.Preferences) recommend.Preferences {
	out := *prefs
	if out.Books == nil {
		out.Books = []recommend.ItemRef{}
	}
	if out.Authors == nil {
		out.Authors = recommend.Terms{}
	}
	if out.Genres == nil {
		out.Genres = recommend.Terms{}
	}
	return out
}

// dataProvider adapts a Store to recommend.DataProvider.
type dataProvider struct {
	store Store
}

// AsDataProvider exposes store to the recommendation engines. A missing
// preference row yields nil preferences and no error.
func AsDataProvider(store Store) recommend.DataProvider {
	return &dataProvider{store: store}
}

func (p *dataProvider) GetPreferences(ctx context.Context, userID int) (*recommend.Preferences, error) {
	prefs, err := p.store.GetPreferences(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return prefs, err
}

func (p *dataProvider) GetRecentSearches(ctx context.Context, userID int, limit int) ([]string, error) {
	return p.store.GetRecentSearches(ctx, userID, limit)
}
