// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package artifacts

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

// Source kinds accepted by NewSource.
const (
	KindFile   = "file"
	KindDuckDB = "duckdb"
)

// Artifacts is the raw output of a Source.
type Artifacts struct {
	Books []recommend.Book

	// Matrix is nil when the similarity artifact is absent.
	Matrix [][]float32

	// Version labels the load, e.g. the source name and modification time.
	Version string
}

// Source produces artifacts.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Load reads the artifacts.
	Load(ctx context.Context) (*Artifacts, error)
}

// bookRow is the on-disk shape of one book_index row.
type bookRow struct {
	BookID      recommend.ItemRef `json:"book_id"`
	Title       string            `json:"title"`
	ImageURL    string            `json:"image_url"`
	Authors     string            `json:"authors"`
	Genres      string            `json:"genres"`
	Description string            `json:"description"`
}

func (r *bookRow) book() recommend.Book {
	return recommend.Book{
		ID:          strings.TrimSpace(string(r.BookID)),
		Title:       r.Title,
		ImageURL:    r.ImageURL,
		Authors:     r.Authors,
		Genres:      r.Genres,
		Description: r.Description,
	}
}

// NewSource builds a source of the given kind. location is a directory for
// KindFile and a database path for KindDuckDB.
func NewSource(kind, location string) (Source, error) {
	switch kind {
	case KindFile:
		return NewFileSource(location), nil
	case KindDuckDB:
		return NewDuckDBSource(location), nil
	default:
		return nil, fmt.Errorf("unknown artifact source kind %q", kind)
	}
}
