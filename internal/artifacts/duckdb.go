// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package artifacts

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

// Artifact table names inside a DuckDB database.
const (
	BookIndexTable = "book_index"
	CosineSimTable = "cosine_sim"
)

// DuckDBSource reads artifacts from a DuckDB database with the tables
//
//	book_index(position INTEGER, book_id VARCHAR, title VARCHAR, image_url VARCHAR,
//	           authors VARCHAR, genres VARCHAR, description VARCHAR)
//	cosine_sim(position INTEGER, similarities FLOAT[])
//
// Positions must be dense and start at zero.
type DuckDBSource struct {
	path string
	db   *sql.DB
}

// NewDuckDBSource creates a source that opens the database file at path
// read-only on every load.
func NewDuckDBSource(path string) *DuckDBSource {
	return &DuckDBSource{path: path}
}

// NewDuckDBSourceFromDB creates a source over an open connection. The
// caller owns db.
func NewDuckDBSourceFromDB(db *sql.DB) *DuckDBSource {
	return &DuckDBSource{db: db}
}

// Name implements Source.
func (s *DuckDBSource) Name() string {
	return KindDuckDB
}

// Load implements Source.
func (s *DuckDBSource) Load(ctx context.Context) (*Artifacts, error) {
	db := s.db
	if db == nil {
		// Disable auto-install/auto-load to prevent hangs in restricted network environments
		connStr := s.path + "?access_mode=read_only&autoinstall_known_extensions=false&autoload_known_extensions=false"
		conn, err := sql.Open("duckdb", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open artifact database: %w", err)
		}
		defer closeQuietly(conn)
		db = conn
	}

	hasIndex, err := tableExists(ctx, db, BookIndexTable)
	if err != nil {
		return nil, err
	}
	if !hasIndex {
		return nil, fmt.Errorf("%w: table %s not found", recommend.ErrArtifactsUnavailable, BookIndexTable)
	}

	books, err := queryAndScan(ctx, db, `
		SELECT position,
		       CAST(book_id AS VARCHAR),
		       COALESCE(title, ''),
		       COALESCE(image_url, ''),
		       COALESCE(authors, ''),
		       COALESCE(genres, ''),
		       COALESCE(description, '')
		FROM book_index
		ORDER BY position`, nil, scanBook)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", BookIndexTable, err)
	}
	for i := range books {
		if books[i].position != i {
			return nil, fmt.Errorf("%w: %s position %d at row %d", recommend.ErrMatrixShape, BookIndexTable, books[i].position, i)
		}
	}

	out := &Artifacts{
		Books:   make([]recommend.Book, len(books)),
		Version: fmt.Sprintf("%s@%s", KindDuckDB, time.Now().UTC().Format("20060102T150405Z")),
	}
	for i := range books {
		out.Books[i] = books[i].Book
	}

	hasMatrix, err := tableExists(ctx, db, CosineSimTable)
	if err != nil {
		return nil, err
	}
	if !hasMatrix {
		return out, nil
	}

	rows, err := queryAndScan(ctx, db, `SELECT position, similarities FROM cosine_sim ORDER BY position`, nil, scanSimilarityRow)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", CosineSimTable, err)
	}
	matrix := make([][]float32, len(rows))
	for i := range rows {
		if rows[i].position != i {
			return nil, fmt.Errorf("%w: %s position %d at row %d", recommend.ErrMatrixShape, CosineSimTable, rows[i].position, i)
		}
		matrix[i] = rows[i].values
	}
	out.Matrix = matrix
	return out, nil
}

type positionedBook struct {
	recommend.Book
	position int
}

func scanBook(rows *sql.Rows) (positionedBook, error) {
	var b positionedBook
	err := rows.Scan(&b.position, &b.ID, &b.Title, &b.ImageURL, &b.Authors, &b.Genres, &b.Description)
	return b, err
}

type similarityRow struct {
	position int
	values   []float32
}

func scanSimilarityRow(rows *sql.Rows) (similarityRow, error) {
	var r similarityRow
	var list any
	if err := rows.Scan(&r.position, &list); err != nil {
		return r, err
	}
	values, err := toFloat32s(list)
	if err != nil {
		return r, fmt.Errorf("position %d: %w", r.position, err)
	}
	r.values = values
	return r, nil
}

// toFloat32s converts a scanned LIST value. FLOAT lists scan as float32
// elements and DOUBLE lists as float64.
func toFloat32s(v any) ([]float32, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("similarities: unexpected type %T", v)
	}
	out := make([]float32, len(items))
	for i, item := range items {
		switch f := item.(type) {
		case float32:
			out[i] = f
		case float64:
			out[i] = float32(f)
		case nil:
			out[i] = 0
		default:
			return nil, fmt.Errorf("similarities[%d]: unexpected type %T", i, item)
		}
	}
	return out, nil
}

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to inspect tables: %w", err)
	}
	return count > 0, nil
}

// scanFunc is a function that scans a single row into a result type
type scanFunc[T any] func(*sql.Rows) (T, error)

// queryAndScan executes a query and scans all rows using the provided scan function
func queryAndScan[T any](ctx context.Context, db *sql.DB, query string, args []any, scan scanFunc[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// closeQuietly closes a resource and explicitly ignores any error
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
