// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

type countingReloader struct {
	calls atomic.Int32
	err   error
	ix    *recommend.Index
}

func (c *countingReloader) Reload(ctx context.Context) (*recommend.Index, error) {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("reload context has no deadline")
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.ix, nil
}

func newReloader(t *testing.T) *countingReloader {
	t.Helper()
	ix, err := recommend.NewIndex([]recommend.Book{{ID: "1", Title: "Dune"}}, nil, recommend.WithVersion("test"))
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	return &countingReloader{ix: ix}
}

func runFor(svc *ArtifactReloadService, d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return svc.Serve(ctx)
}

func TestArtifactReloadService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     ArtifactReloadConfig
		failing bool
		run     time.Duration
		wantMin int32
		wantMax int32
	}{
		{
			name:    "disabled interval only reloads on start",
			cfg:     ArtifactReloadConfig{ReloadOnStart: true},
			run:     100 * time.Millisecond,
			wantMin: 1,
			wantMax: 1,
		},
		{
			name:    "disabled interval without start does nothing",
			cfg:     ArtifactReloadConfig{},
			run:     50 * time.Millisecond,
			wantMin: 0,
			wantMax: 0,
		},
		{
			name:    "ticks reload repeatedly",
			cfg:     ArtifactReloadConfig{Interval: 10 * time.Millisecond},
			run:     200 * time.Millisecond,
			wantMin: 3,
			wantMax: 1000,
		},
		{
			name:    "failures do not stop the loop",
			cfg:     ArtifactReloadConfig{Interval: 10 * time.Millisecond, ReloadOnStart: true},
			failing: true,
			run:     200 * time.Millisecond,
			wantMin: 3,
			wantMax: 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := newReloader(t)
			if tt.failing {
				r.err = errors.New("artifacts missing")
			}
			svc := NewArtifactReloadService(r, tt.cfg, zerolog.Nop())

			err := runFor(svc, tt.run)
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
			}
			if got := r.calls.Load(); got < tt.wantMin || got > tt.wantMax {
				t.Errorf("reloads = %d, want [%d, %d]", got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestNewArtifactReloadService_Defaults(t *testing.T) {
	t.Parallel()

	svc := NewArtifactReloadService(&countingReloader{}, ArtifactReloadConfig{}, zerolog.Nop())
	if svc.config.Timeout != 5*time.Minute {
		t.Errorf("Timeout = %v, want 5m", svc.config.Timeout)
	}
	if svc.String() != "artifact-reloader" {
		t.Errorf("String() = %q", svc.String())
	}
}
