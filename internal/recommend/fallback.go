// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"math/rand/v2"
	"sync"
)

// sampler draws uniform samples without replacement. It is safe for
// concurrent use.
type sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// newSampler seeds a sampler. Zero draws a fresh seed from the runtime
// source, so every process samples differently.
func newSampler(seed int64) *sampler {
	s := uint64(seed) //nolint:gosec // bit pattern only
	if seed == 0 {
		s = rand.Uint64()
	}
	return &sampler{
		rng: rand.New(rand.NewPCG(s, s>>1|1)), //nolint:gosec // math/rand is fine for recommendation sampling
	}
}

// sample returns up to n distinct positions of ix whose identifiers are not
// in exclude, in random order.
func (s *sampler) sample(ix *Index, n int, exclude map[string]struct{}) []Position {
	if n <= 0 || ix.Len() == 0 {
		return nil
	}

	pool := make([]Position, 0, ix.Len())
	for i, b := range ix.Books() {
		if _, skip := exclude[b.ID]; skip && b.ID != "" {
			continue
		}
		pool = append(pool, Position(i))
	}
	if n > len(pool) {
		n = len(pool)
	}

	// Partial Fisher-Yates: the first n slots end up uniformly sampled.
	s.mu.Lock()
	for i := 0; i < n; i++ {
		j := i + s.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	s.mu.Unlock()

	return pool[:n]
}

// fallbackRecords formats a popular sample of n books.
func fallbackRecords(s *sampler, ix *Index, n int, exclude map[string]struct{}, profile *Profile) []Record {
	picks := s.sample(ix, n, exclude)
	out := make([]Record, 0, len(picks))
	for _, p := range picks {
		out = append(out, fallbackRecord(ix.Book(p), profile.Fallback, profile.Reasons.Fallback))
	}
	return out
}
