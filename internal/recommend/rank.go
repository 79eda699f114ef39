// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"sort"
)

// selectCandidates keeps books whose combined score reaches the inclusion
// threshold, sorted by score descending with ties in catalog order. A NaN
// total never reaches the threshold.
func selectCandidates(ix *Index, records []ScoreRecord, inclusion float64) []ScoredItem {
	items := make([]ScoredItem, 0)
	for i := range records {
		rec := &records[i]
		if !(rec.Total >= inclusion) {
			continue
		}
		p := Position(i)
		items = append(items, ScoredItem{
			Position: p,
			Book:     ix.Book(p),
			Score:    rec.Total,
			Scores: map[string]float64{
				SignalAuthor:  rec.Author,
				SignalGenre:   rec.Genre,
				SignalContent: rec.Content,
				SignalSearch:  rec.Search,
			},
			Reason: rec.Reason,
		})
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Score > items[b].Score
	})
	return items
}

// AuthorQuota is the diversity quota: a single greedy scan over ranked
// items admitting a book only while its normalized author count is below
// the per-author cap and the list is shorter than k.
type AuthorQuota struct {
	maxPerAuthor int
}

// NewAuthorQuota creates an AuthorQuota. Caps below 1 are raised to 1.
func NewAuthorQuota(maxPerAuthor int) *AuthorQuota {
	if maxPerAuthor < 1 {
		maxPerAuthor = 1
	}
	return &AuthorQuota{maxPerAuthor: maxPerAuthor}
}

// Name returns the reranker identifier.
func (q *AuthorQuota) Name() string {
	return "author_quota"
}

// Rerank applies the quota. Items must already be sorted.
//
//nolint:gocritic // rangeValCopy: ScoredItem passed by value in range, acceptable for clarity
func (q *AuthorQuota) Rerank(_ context.Context, items []ScoredItem, k int) []ScoredItem {
	if k <= 0 {
		return []ScoredItem{}
	}
	out := make([]ScoredItem, 0, min(k, len(items)))
	counts := make(map[string]int)

	for _, item := range items {
		if len(out) >= k {
			break
		}
		author := Normalize(item.Book.Authors)
		if counts[author] >= q.maxPerAuthor {
			continue
		}
		counts[author]++
		out = append(out, item)
	}
	return out
}

var _ Reranker = (*AuthorQuota)(nil)
