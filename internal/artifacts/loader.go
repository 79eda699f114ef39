// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package artifacts

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/breaker"
	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

// Loader turns a Source into validated indexes.
type Loader struct {
	source  Source
	breaker *breaker.Breaker[*Artifacts]
	logger  zerolog.Logger
}

// NewLoader creates a loader. Calls to the source go through a circuit
// breaker named after it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(src Source, cfg breaker.Config, logger zerolog.Logger) *Loader {
	return &Loader{
		source:  src,
		breaker: breaker.New[*Artifacts]("artifacts-"+src.Name(), cfg),
		logger:  logger.With().Str("component", "artifacts").Str("source", src.Name()).Logger(),
	}
}

// Source returns the wrapped source.
func (l *Loader) Source() Source {
	return l.source
}

// Load reads the artifacts and builds an index from them.
func (l *Loader) Load(ctx context.Context) (*recommend.Index, error) {
	start := time.Now()
	ix, err := l.load(ctx)
	duration := time.Since(start)
	metrics.RecordArtifactLoad(l.source.Name(), duration, err)

	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Int("books", ix.Len()).
		Bool("matrix", ix.HasMatrix()).
		Str("version", ix.Version()).
		Dur("duration", duration).
		Msg("Artifacts loaded")
	return ix, nil
}

func (l *Loader) load(ctx context.Context) (*recommend.Index, error) {
	arts, err := l.breaker.Execute(func() (*Artifacts, error) {
		return l.source.Load(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("load %s artifacts: %w", l.source.Name(), err)
	}

	if arts.Matrix == nil {
		l.logger.Warn().Msg("Similarity matrix missing, index serves fallback lists only")
	}

	ix, err := recommend.NewIndex(arts.Books, arts.Matrix, recommend.WithVersion(arts.Version))
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	return ix, nil
}
