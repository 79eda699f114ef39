// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/search"
)

func testBooks() []recommend.Book {
	return []recommend.Book{
		{ID: "1", Title: "The Hobbit", Authors: "J.R.R. Tolkien", Genres: "Fantasy|Adventure"},
		{ID: "2", Title: "Dune", Authors: "Frank Herbert", Genres: "Science Fiction|Adventure"},
		{ID: "3", Title: "Emma", Authors: "Jane Austen", Genres: "Romance|Classics"},
		{ID: "4", Title: "The Silmarillion", Authors: "J.R.R. Tolkien", Genres: "Fantasy"},
	}
}

func testIndex(t *testing.T) *recommend.Index {
	t.Helper()
	matrix := [][]float32{
		{1.0, 0.35, 0.0, 0.9},
		{0.35, 1.0, 0.1, 0.2},
		{0.0, 0.1, 1.0, 0.0},
		{0.9, 0.2, 0.0, 1.0},
	}
	ix, err := recommend.NewIndex(testBooks(), matrix, recommend.WithVersion("v-test"))
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	return ix
}

// mockHolder implements ArtifactHolder for testing.
type mockHolder struct {
	mu        sync.Mutex
	ix        *recommend.Index
	next      *recommend.Index
	reloadErr error
	reloads   int
}

func (m *mockHolder) Current() *recommend.Index {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ix
}

func (m *mockHolder) Ready() bool {
	return m.Current() != nil
}

func (m *mockHolder) Reload(ctx context.Context) (*recommend.Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reloads++
	if m.reloadErr != nil {
		return nil, m.reloadErr
	}
	if m.next != nil {
		m.ix = m.next
	}
	return m.ix, nil
}

// mockStore implements database.Store for testing.
type mockStore struct {
	mu       sync.Mutex
	prefs    map[int]*recommend.Preferences
	searches map[int][]string
	err      error
	pingErr  error
}

func newMockStore() *mockStore {
	return &mockStore{
		prefs:    make(map[int]*recommend.Preferences),
		searches: make(map[int][]string),
	}
}

func (m *mockStore) Backend() string { return "mock" }

func (m *mockStore) GetPreferences(ctx context.Context, userID int) (*recommend.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.prefs[userID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return p, nil
}

func (m *mockStore) SavePreferences(ctx context.Context, prefs *recommend.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.prefs[prefs.UserID] = prefs
	return nil
}

func (m *mockStore) LogSearch(ctx context.Context, userID int, query string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if userID <= 0 {
		return database.ErrInvalidUser
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return database.ErrEmptyQuery
	}
	m.searches[userID] = append([]string{query}, m.searches[userID]...)
	return nil
}

func (m *mockStore) GetRecentSearches(ctx context.Context, userID int, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.searches[userID]
	if len(s) > limit {
		s = s[:limit]
	}
	return s, nil
}

func (m *mockStore) Ping(ctx context.Context) error { return m.pingErr }

func (m *mockStore) Close() error { return nil }

func (m *mockStore) searchesFor(userID int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.searches[userID]...)
}

// mockSearcher implements BookSearcher for testing.
type mockSearcher struct {
	hits      []search.Hit
	err       error
	lastQuery string
	lastLimit int
}

func (m *mockSearcher) Search(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	m.lastQuery = query
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

var errBoom = errors.New("boom")

// testEngines builds the builtin profiles over holder.
func testEngines(t *testing.T, holder ArtifactHolder, store database.Store) *recommend.Engines {
	t.Helper()
	engines, err := recommend.NewEngines(recommend.BuiltinProfiles(), recommend.ProfileDefault, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngines() error = %v", err)
	}
	engines.SetIndexProvider(holder)
	if store != nil {
		engines.SetDataProvider(database.AsDataProvider(store))
	}
	return engines
}

type testEnv struct {
	handler  *Handler
	holder   *mockHolder
	store    *mockStore
	searcher *mockSearcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	holder := &mockHolder{ix: testIndex(t)}
	store := newMockStore()
	searcher := &mockSearcher{}
	h := NewHandler(testEngines(t, holder, store), holder, store, searcher, HandlerConfig{Version: "test"})
	return &testEnv{handler: h, holder: holder, store: store, searcher: searcher}
}

// envelope is APIResponse with typed data.
type envelope[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Error   *APIError `json:"error"`
	Meta    *APIMeta  `json:"meta"`
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}
