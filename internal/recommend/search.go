// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"
)

// matchQuery finds the book a search query refers to: the closest fuzzy
// title, else (when enabled) the first title containing the query.
func matchQuery(ix *Index, query string, cfg SearchConfig) (Position, bool) {
	if title, ok := closestTitle(ix, query, cfg.FuzzyCutoff); ok {
		return ix.PositionOfTitle(title)
	}
	if cfg.SubstringFallback {
		return containingTitle(ix, query)
	}
	return 0, false
}

// topSimilar returns the n positions with the highest values in row,
// ties broken by position.
func topSimilar(row []float32, n int) []Position {
	if n <= 0 {
		return nil
	}
	order := make([]Position, len(row))
	for i := range order {
		order[i] = Position(i)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return row[order[a]] > row[order[b]]
	})
	if n > len(order) {
		n = len(order)
	}
	return order[:n]
}

// applySearches boosts records in place for every usable query and returns
// the queries that matched. Boosts accumulate across queries; the reason
// check of a query sees every boost applied so far.
func applySearches(ctx context.Context, ix *Index, records []ScoreRecord, searches []string, profile *Profile) ([]string, error) {
	cfg := profile.Search
	var applied []string

	for _, query := range searches {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		if utf8.RuneCountInString(query) < cfg.MinQueryLength {
			continue
		}
		p, ok := matchQuery(ix, query, cfg)
		if !ok {
			continue
		}

		row := ix.Row(p)
		for j, v := range row {
			boost := float64(v) * cfg.Boost
			records[j].Search += boost
			records[j].Total += boost
		}

		reason := strings.ReplaceAll(profile.Reasons.Search, PlaceholderQuery, query)
		for _, s := range topSimilar(row, cfg.TopSimilar) {
			if records[s].Total > cfg.ReasonThreshold {
				records[s].Reason = reason
			}
		}
		applied = append(applied, query)
	}

	return applied, nil
}
