// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"
)

const epsilon = 1e-6

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// testCatalog returns a small catalog with distinct authors and genres.
func testCatalog() []Book {
	return []Book{
		{ID: "1", Title: "The Hobbit", Authors: "J.R.R. Tolkien", Genres: "Fantasy|Adventure", ImageURL: "hobbit.jpg", Description: "There and back again."},
		{ID: "2", Title: "Dune", Authors: "Frank Herbert", Genres: "Science Fiction|Adventure"},
		{ID: "3", Title: "Emma", Authors: "Jane Austen", Genres: "Romance|Classics"},
		{ID: "4", Title: "The Silmarillion", Authors: "J.R.R. Tolkien", Genres: "Fantasy"},
	}
}

// testMatrix is a symmetric similarity matrix for testCatalog.
func testMatrix() [][]float32 {
	return [][]float32{
		{1.0, 0.35, 0.0, 0.9},
		{0.35, 1.0, 0.1, 0.2},
		{0.0, 0.1, 1.0, 0.0},
		{0.9, 0.2, 0.0, 1.0},
	}
}

func zeroMatrix(n int) [][]float32 {
	m := make([][]float32, n)
	for i := range m {
		m[i] = make([]float32, n)
	}
	return m
}

// numberedCatalog returns n books, each by its own author.
func numberedCatalog(n int) []Book {
	books := make([]Book, n)
	for i := range books {
		books[i] = Book{
			ID:      fmt.Sprintf("b%d", i),
			Title:   fmt.Sprintf("Book Number %d", i),
			Authors: fmt.Sprintf("Author %d", i),
			Genres:  "Filler",
		}
	}
	return books
}

func mustIndex(t *testing.T, books []Book, matrix [][]float32) *Index {
	t.Helper()
	ix, err := NewIndex(books, matrix, WithVersion("test"))
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	return ix
}

// staticIndex implements IndexProvider for testing.
type staticIndex struct {
	ix *Index
}

func (s staticIndex) Current() *Index {
	return s.ix
}

// mockDataProvider implements DataProvider for testing.
type mockDataProvider struct {
	prefs       map[int]*Preferences
	searches    map[int][]string
	prefsErr    error
	searchesErr error
	lastLimit   int
}

func (m *mockDataProvider) GetPreferences(ctx context.Context, userID int) (*Preferences, error) {
	if m.prefsErr != nil {
		return nil, m.prefsErr
	}
	return m.prefs[userID], nil
}

func (m *mockDataProvider) GetRecentSearches(ctx context.Context, userID int, limit int) ([]string, error) {
	m.lastLimit = limit
	if m.searchesErr != nil {
		return nil, m.searchesErr
	}
	return m.searches[userID], nil
}

// recordingObserver implements Observer for testing.
type recordingObserver struct {
	mu     sync.Mutex
	causes []string
	counts []int
}

func (o *recordingObserver) ObserveRecommendation(profile, cause string, candidates, returned int, latency time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.causes = append(o.causes, cause)
	o.counts = append(o.counts, returned)
}

// panicReranker implements Reranker and always panics.
type panicReranker struct{}

func (panicReranker) Name() string { return "panic" }

func (panicReranker) Rerank(ctx context.Context, items []ScoredItem, k int) []ScoredItem {
	panic("boom")
}
