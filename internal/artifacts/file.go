// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

// Artifact file names inside a FileSource directory.
const (
	BookIndexFile = "book_index.json"
	CosineSimFile = "cosine_sim.json"
)

// FileSource reads JSON artifacts from a directory.
type FileSource struct {
	dir string
}

// NewFileSource creates a source for dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Name implements Source.
func (s *FileSource) Name() string {
	return KindFile
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) (*Artifacts, error) {
	indexPath := filepath.Join(s.dir, BookIndexFile)
	info, err := os.Stat(indexPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", recommend.ErrArtifactsUnavailable, indexPath)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", indexPath, err)
	}

	var rows []bookRow
	if err := decodeFile(indexPath, &rows); err != nil {
		return nil, err
	}
	books := make([]recommend.Book, len(rows))
	for i := range rows {
		books[i] = rows[i].book()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matrix [][]float32
	simPath := filepath.Join(s.dir, CosineSimFile)
	if err := decodeFile(simPath, &matrix); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		matrix = nil
	}

	return &Artifacts{
		Books:   books,
		Matrix:  matrix,
		Version: fmt.Sprintf("%s@%s", KindFile, info.ModTime().UTC().Format("20060102T150405Z")),
	}, nil
}

// decodeFile decodes the JSON document at path into v.
func decodeFile(path string, v any) error {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from operator configuration
	if err != nil {
		return err
	}
	defer closeQuietly(f)

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
