// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Index is the immutable, read-only view of the upstream artifacts: the
// metadata table and the square similarity matrix whose row order matches
// it 1:1. Lookups and normalized fields are derived once at construction.
// An Index is safe for concurrent use.
type Index struct {
	books  []Book
	matrix [][]float32

	byID        map[string]Position
	byTitle     map[string]Position
	byNormTitle map[string]Position

	titles      []string
	titleRunes  [][]string
	lowerTitles []string
	normAuthors []string
	genreSets   []map[string]struct{}

	version  string
	loadedAt time.Time
}

// IndexOption configures NewIndex.
type IndexOption func(*Index)

// WithVersion labels the index, typically with the artifact source and load time.
func WithVersion(version string) IndexOption {
	return func(ix *Index) {
		ix.version = version
	}
}

// NewIndex builds an Index. A nil matrix yields a metadata-only index that
// can serve the fallback sample but not ranking. A non-nil matrix must be
// len(books) x len(books); otherwise ErrMatrixShape is returned.
// When identifiers or titles repeat, the first row wins. Non-finite cells
// are set to 0 in place.
func NewIndex(books []Book, matrix [][]float32, opts ...IndexOption) (*Index, error) {
	if matrix != nil {
		if len(matrix) != len(books) {
			return nil, fmt.Errorf("%w: %d rows for %d books", ErrMatrixShape, len(matrix), len(books))
		}
		for i, row := range matrix {
			if len(row) != len(books) {
				return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrMatrixShape, i, len(row), len(books))
			}
			for j, v := range row {
				if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
					row[j] = 0
				}
			}
		}
	}

	n := len(books)
	ix := &Index{
		books:       books,
		matrix:      matrix,
		byID:        make(map[string]Position, n),
		byTitle:     make(map[string]Position, n),
		byNormTitle: make(map[string]Position, n),
		titles:      make([]string, n),
		titleRunes:  make([][]string, n),
		lowerTitles: make([]string, n),
		normAuthors: make([]string, n),
		genreSets:   make([]map[string]struct{}, n),
		loadedAt:    time.Now(),
	}

	for i := range books {
		b := &books[i]
		p := Position(i)
		putFirst(ix.byID, strings.TrimSpace(b.ID), p)
		putFirst(ix.byTitle, b.Title, p)
		putFirst(ix.byNormTitle, Normalize(b.Title), p)
		ix.titles[i] = b.Title
		ix.titleRunes[i] = splitRunes(b.Title)
		ix.lowerTitles[i] = strings.ToLower(b.Title)
		ix.normAuthors[i] = Normalize(b.Authors)
		ix.genreSets[i] = SplitGenres(b.Genres)
	}

	for _, opt := range opts {
		opt(ix)
	}
	return ix, nil
}

func putFirst(m map[string]Position, key string, p Position) {
	if key == "" {
		return
	}
	if _, ok := m[key]; !ok {
		m[key] = p
	}
}

// Len returns the number of books.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.books)
}

// HasMatrix reports whether the similarity matrix is present.
func (ix *Index) HasMatrix() bool {
	return ix != nil && ix.matrix != nil && len(ix.books) > 0
}

// Book returns the metadata row at p.
func (ix *Index) Book(p Position) Book {
	return ix.books[p]
}

// Books returns the metadata table. Callers must not modify it.
func (ix *Index) Books() []Book {
	return ix.books
}

// Row returns the similarity row of p. Callers must not modify it.
func (ix *Index) Row(p Position) []float32 {
	return ix.matrix[p]
}

// Similarity returns the similarity between a and b, or 0 without a matrix.
func (ix *Index) Similarity(a, b Position) float64 {
	if ix.matrix == nil {
		return 0
	}
	return float64(ix.matrix[a][b])
}

// PositionOf returns the position of the book with the given identifier.
func (ix *Index) PositionOf(id string) (Position, bool) {
	p, ok := ix.byID[strings.TrimSpace(id)]
	return p, ok
}

// PositionOfTitle returns the first position whose raw title equals title.
func (ix *Index) PositionOfTitle(title string) (Position, bool) {
	p, ok := ix.byTitle[title]
	return p, ok
}

// PositionOfNormalizedTitle looks a title up after normalization.
func (ix *Index) PositionOfNormalizedTitle(title string) (Position, bool) {
	p, ok := ix.byNormTitle[Normalize(title)]
	return p, ok
}

// NormalizedAuthors returns the normalized author string of p.
func (ix *Index) NormalizedAuthors(p Position) string {
	return ix.normAuthors[p]
}

// GenreSet returns the normalized genre tags of p. Callers must not modify it.
func (ix *Index) GenreSet(p Position) map[string]struct{} {
	return ix.genreSets[p]
}

// Version returns the label given at construction.
func (ix *Index) Version() string {
	if ix == nil {
		return ""
	}
	return ix.version
}

// LoadedAt returns when the index was built.
func (ix *Index) LoadedAt() time.Time {
	return ix.loadedAt
}
