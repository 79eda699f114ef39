// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package artifacts

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

// ErrNoLoader is returned by Reload on a holder built without a loader.
var ErrNoLoader = errors.New("artifact holder has no loader")

// Holder serves the last successfully loaded index. It implements
// recommend.IndexProvider.
type Holder struct {
	current atomic.Pointer[recommend.Index]
	loader  *Loader
	logger  zerolog.Logger

	// mu serializes reloads and guards hooks
	mu    sync.Mutex
	hooks []func(*recommend.Index)
}

// NewHolder creates an empty holder. loader may be nil when indexes are
// only installed with Set.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHolder(loader *Loader, logger zerolog.Logger) *Holder {
	return &Holder{
		loader: loader,
		logger: logger.With().Str("component", "artifact-holder").Logger(),
	}
}

// Current implements recommend.IndexProvider. It returns nil until the
// first successful load.
func (h *Holder) Current() *recommend.Index {
	return h.current.Load()
}

// Ready reports whether an index is installed.
func (h *Holder) Ready() bool {
	return h.current.Load() != nil
}

// OnReload registers fn to run after every installed index, in
// registration order.
func (h *Holder) OnReload(fn func(*recommend.Index)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, fn)
}

// Reload loads a fresh index and installs it. On failure the previous
// index stays active and the error is returned.
func (h *Holder) Reload(ctx context.Context) (*recommend.Index, error) {
	if h.loader == nil {
		return nil, ErrNoLoader
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ix, err := h.loader.Load(ctx)
	if err != nil {
		event := h.logger.Error()
		if h.current.Load() != nil {
			event = h.logger.Warn().Str("keeping", h.current.Load().Version())
		}
		event.Err(err).Msg("Artifact reload failed")
		return nil, err
	}

	h.install(ix)
	return ix, nil
}

// Set installs ix directly.
func (h *Holder) Set(ix *recommend.Index) {
	if ix == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.install(ix)
}

// install must be called with mu held.
func (h *Holder) install(ix *recommend.Index) {
	h.current.Store(ix)
	metrics.SetActiveIndex(ix.Len(), ix.HasMatrix(), ix.LoadedAt())
	for _, fn := range h.hooks {
		fn(ix)
	}
}

var _ recommend.IndexProvider = (*Holder)(nil)
