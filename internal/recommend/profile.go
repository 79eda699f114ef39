// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import "strings"

// resolveRef finds the position of a liked-book reference: exact identifier,
// then exact normalized title, then the closest fuzzy title at or above cutoff.
func resolveRef(ix *Index, ref ItemRef, cutoff float64) (Position, bool) {
	query := strings.TrimSpace(string(ref))
	if query == "" {
		return 0, false
	}
	if p, ok := ix.PositionOf(query); ok {
		return p, true
	}
	if p, ok := ix.PositionOfNormalizedTitle(query); ok {
		return p, true
	}
	if title, ok := closestTitle(ix, query, cutoff); ok {
		return ix.PositionOfNormalizedTitle(title)
	}
	return 0, false
}

// buildProfileVector returns the element-wise mean of the similarity rows of
// every resolvable reference, and how many references resolved. Duplicated
// references count once per occurrence. The vector is nil when nothing resolved.
func buildProfileVector(ix *Index, liked []ItemRef, cutoff float64) ([]float64, int) {
	if len(liked) == 0 {
		return nil, 0
	}

	var sum []float64
	resolved := 0
	for _, ref := range liked {
		p, ok := resolveRef(ix, ref, cutoff)
		if !ok {
			continue
		}
		if sum == nil {
			sum = make([]float64, ix.Len())
		}
		for j, v := range ix.Row(p) {
			sum[j] += float64(v)
		}
		resolved++
	}

	if resolved == 0 {
		return nil, 0
	}
	inv := 1 / float64(resolved)
	for j := range sum {
		sum[j] *= inv
	}
	return sum, resolved
}
