// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package search provides full-text title search over the catalog with an
// in-memory bleve index. The index is rebuilt whenever a new artifact index
// is installed.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	bleve "github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

// ErrNotReady is returned before the first catalog has been indexed.
var ErrNotReady = errors.New("search index not built")

// Limits for the number of hits per query.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// document is what we store in bleve per book.
type document struct {
	Title string `json:"title"`
	// TitleExact is helper field to make exact title match more accurate
	TitleExact  string `json:"title_exact"`
	Authors     string `json:"authors"`
	Genres      string `json:"genres"`
	Description string `json:"description"`
}

// Hit is one search result.
type Hit struct {
	Book  recommend.Book `json:"book"`
	Score float64        `json:"score"`
}

// Index is the catalog search index. It is safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	index   bleve.Index
	books   []recommend.Book
	version string

	logger zerolog.Logger
}

// New creates an empty index. Call Build or Rebuild before searching.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(logger zerolog.Logger) *Index {
	return &Index{
		logger: logger.With().Str("component", "search").Logger(),
	}
}

// buildIndexMapping builds the bleve field mapping.
func buildIndexMapping() mapping.IndexMapping {
	m := bleve.NewIndexMapping()
	doc := bleve.NewDocumentMapping()

	// Only indexed; books are looked up by position after a hit
	text := bleve.NewTextFieldMapping()
	text.Analyzer = "en"
	text.Store = false
	text.Index = true

	keyword := bleve.NewTextFieldMapping()
	keyword.Analyzer = "keyword"
	keyword.Store = false
	keyword.Index = true

	doc.AddFieldMappingsAt("title", text)
	doc.AddFieldMappingsAt("title_exact", keyword)
	doc.AddFieldMappingsAt("authors", text)
	doc.AddFieldMappingsAt("genres", text)
	doc.AddFieldMappingsAt("description", text)

	m.DefaultMapping = doc
	return m
}

// Build indexes books into a fresh in-memory index and swaps it in.
// Document IDs are catalog positions, so duplicate book IDs stay searchable.
func (s *Index) Build(ctx context.Context, books []recommend.Book, version string) error {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create search index: %w", err)
	}

	batch := idx.NewBatch()
	for i := range books {
		if err := ctx.Err(); err != nil {
			_ = idx.Close()
			return err
		}
		b := &books[i]
		doc := document{
			Title:       b.Title,
			TitleExact:  strings.ToLower(strings.TrimSpace(b.Title)),
			Authors:     b.Authors,
			Genres:      strings.ReplaceAll(b.Genres, recommend.GenreDelimiter, " "),
			Description: b.Description,
		}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			_ = idx.Close()
			return fmt.Errorf("index book %q: %w", b.ID, err)
		}
		// commit in big batches to avoid huge memory usage
		if batch.Size() > 1000 {
			if err := idx.Batch(batch); err != nil {
				_ = idx.Close()
				return fmt.Errorf("commit batch: %w", err)
			}
			batch = idx.NewBatch()
		}
	}
	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			_ = idx.Close()
			return fmt.Errorf("commit batch: %w", err)
		}
	}

	s.mu.Lock()
	old := s.index
	s.index = idx
	s.books = books
	s.version = version
	s.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}

	metrics.SearchIndexDocuments.Set(float64(len(books)))
	s.logger.Info().Int("books", len(books)).Str("version", version).Msg("Search index built")
	return nil
}

// Rebuild indexes the catalog of ix. It matches the artifact holder's
// reload hook signature; failures are logged and the previous index kept.
func (s *Index) Rebuild(ix *recommend.Index) {
	if ix == nil {
		return
	}
	if err := s.Build(context.Background(), ix.Books(), ix.Version()); err != nil {
		s.logger.Error().Err(err).Str("version", ix.Version()).Msg("Search index rebuild failed")
	}
}

// Len returns the number of indexed books.
func (s *Index) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

// Version returns the artifact version the index was built from.
func (s *Index) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Search runs a fuzzy title-first query. limit is clamped to
// [1, MaxLimit]; zero selects DefaultLimit.
func (s *Index) Search(ctx context.Context, query string, limit int) (hits []Hit, err error) {
	defer func() { metrics.RecordSearch(len(hits), err) }()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []Hit{}, nil
	}
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return nil, ErrNotReady
	}

	req := bleve.NewSearchRequestOptions(buildQuery(query), limit, 0, false)
	req.SortBy([]string{"-_score"})

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits = make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		pos, err := strconv.Atoi(h.ID)
		if err != nil || pos < 0 || pos >= len(s.books) {
			continue
		}
		hits = append(hits, Hit{Book: s.books[pos], Score: h.Score})
	}
	return hits, nil
}

// buildQuery combines exact, phrase, prefix and fuzzy clauses, weighted
// so that title matches dominate.
func buildQuery(query string) *blevequery.BooleanQuery {
	const (
		boostTitleExact   = 50.0 // strongest: exact match on title_exact field
		boostTitlePhrase  = 12.0
		boostTitlePrefix  = 6.0
		boostTitleToken   = 3.0
		boostAuthorToken  = 2.0
		boostOtherField   = 0.5
		maxFuzzyTokenSize = 6
	)

	boolQuery := bleve.NewBooleanQuery()

	termExact := bleve.NewTermQuery(query)
	termExact.SetField("title_exact")
	termExact.SetBoost(boostTitleExact)
	boolQuery.AddShould(termExact)

	matchPhrase := bleve.NewMatchPhraseQuery(query)
	matchPhrase.SetField("title")
	matchPhrase.SetBoost(boostTitlePhrase)
	boolQuery.AddShould(matchPhrase)

	// "the hob" -> "the hobbit"
	prefixExact := bleve.NewPrefixQuery(query)
	prefixExact.SetField("title_exact")
	prefixExact.SetBoost(boostTitlePrefix)
	boolQuery.AddShould(prefixExact)

	fieldBoosts := []struct {
		field string
		boost float64
	}{
		{"title", boostTitleToken},
		{"authors", boostAuthorToken},
		{"genres", boostOtherField},
		{"description", boostOtherField},
	}

	for _, tok := range strings.Fields(query) {
		fuzz := 1
		if len(tok) >= maxFuzzyTokenSize {
			fuzz = 2
		}
		for _, fb := range fieldBoosts {
			fq := bleve.NewFuzzyQuery(tok)
			fq.SetField(fb.field)
			fq.SetFuzziness(fuzz)
			fq.SetBoost(fb.boost)
			boolQuery.AddShould(fq)

			pq := bleve.NewPrefixQuery(tok)
			pq.SetField(fb.field)
			pq.SetBoost(fb.boost)
			boolQuery.AddShould(pq)
		}
	}

	boolQuery.SetMinShould(1)
	return boolQuery
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	return err
}
