// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package reranking

import (
	"context"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

// DefaultWindow is how many top-ranked books MMR reorders.
const DefaultWindow = 50

// maxWindow limits the pairwise similarity allocation.
const maxWindow = 2000

// MMR implements Maximal Marginal Relevance reranking.
// It balances relevance and diversity by iteratively selecting books
// that are both relevant and dissimilar to already selected books.
//
// The MMR formula is:
//
//	MMR = argmax[lambda * score(i) - (1-lambda) * max(sim(i, s)) for s in selected]
//
// Similarity is the content similarity from the index carried by the
// context (recommend.WithIndex). Without an index, genre Jaccard
// similarity is used instead.
//
// Only the first window books are reordered; the tail keeps its order.
// Books are never dropped, so caps applied afterwards see the full list.
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
type MMR struct {
	// Lambda balances relevance vs. diversity (0.0 to 1.0)
	lambda float64
	window int
}

// NewMMR creates a new MMR reranker over the DefaultWindow.
func NewMMR(lambda float64) *MMR {
	return NewMMRWindow(lambda, DefaultWindow)
}

// NewMMRWindow creates an MMR reranker that reorders the top window books.
func NewMMRWindow(lambda float64, window int) *MMR {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	if window < 1 {
		window = DefaultWindow
	}
	if window > maxWindow {
		window = maxWindow
	}
	return &MMR{lambda: lambda, window: window}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Rerank reorders the head of items. k bounds the number of books
// returned.
//
//nolint:gocritic // rangeValCopy: ScoredItem passed by value in range, acceptable for clarity
func (m *MMR) Rerank(ctx context.Context, items []recommend.ScoredItem, k int) []recommend.ScoredItem {
	if len(items) == 0 || k <= 0 {
		return items[:0]
	}
	if k > len(items) {
		k = len(items)
	}

	// Pure relevance keeps the input order
	if m.lambda >= 1.0 {
		return items[:k]
	}

	n := min(m.window, len(items))
	head := items[:n]
	similarities := m.buildSimilarityMatrix(recommend.IndexFromContext(ctx), head)

	out := make([]recommend.ScoredItem, 0, len(items))
	selected := make([]int, 0, n)
	taken := make([]bool, n)

	for len(selected) < n {
		bestIdx := -1
		bestMMR := 0.0

		for i, item := range head {
			if taken[i] {
				continue
			}

			maxSim := 0.0
			for _, j := range selected {
				if sim := similarities[i][j]; sim > maxSim {
					maxSim = sim
				}
			}

			mmrScore := m.lambda*item.Score - (1-m.lambda)*maxSim
			if bestIdx < 0 || mmrScore > bestMMR {
				bestMMR = mmrScore
				bestIdx = i
			}
		}

		taken[bestIdx] = true
		selected = append(selected, bestIdx)
		out = append(out, head[bestIdx])
	}

	out = append(out, items[n:]...)
	return out[:k]
}

// buildSimilarityMatrix computes pairwise similarity of the head items.
func (m *MMR) buildSimilarityMatrix(ix *recommend.Index, items []recommend.ScoredItem) [][]float64 {
	n := len(items)
	similarities := make([][]float64, n)
	for i := range similarities {
		similarities[i] = make([]float64, n)
	}

	useIndex := ix.HasMatrix()
	var genres []map[string]struct{}
	if !useIndex {
		genres = make([]map[string]struct{}, n)
		for i := range items {
			genres[i] = recommend.SplitGenres(items[i].Book.Genres)
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var sim float64
			if useIndex {
				sim = ix.Similarity(items[i].Position, items[j].Position)
			} else {
				sim = recommend.GenreScore(recommend.GenreJaccard, genres[i], genres[j])
			}
			similarities[i][j] = sim
			similarities[j][i] = sim
		}
	}

	return similarities
}

// Ensure MMR implements the interface.
var _ recommend.Reranker = (*MMR)(nil)
