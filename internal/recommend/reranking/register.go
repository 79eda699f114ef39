// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package reranking

import "github.com/tomtom215/shelfwise/internal/recommend"

// Register adds an MMR reranker to every engine whose profile sets
// diversity.similarity_lambda strictly between 0 and 1. It returns the
// number of engines that got one.
func Register(engines *recommend.Engines) int {
	n := 0
	engines.Each(func(eng *recommend.Engine) {
		lambda := eng.Profile().Diversity.SimilarityLambda
		if lambda > 0 && lambda < 1 {
			eng.RegisterReranker(NewMMR(lambda))
			n++
		}
	})
	return n
}
