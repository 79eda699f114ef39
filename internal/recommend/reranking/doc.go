// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package reranking implements optional post-processing for recommendation
// diversity.
//
// Rerankers run after candidates are sorted by score and before the author
// quota caps the list:
//
//	Scoring -> Candidate Sort -> Rerankers -> Author Quota -> Format
//
// # Maximal Marginal Relevance (MMR)
//
// MMR iteratively selects books that are both relevant and dissimilar to
// already selected books:
//
//	MMR = argmax[lambda * score(i) - (1-lambda) * max_similarity(i, selected)]
//
// Lambda Guidelines:
//   - 0.9-1.0: Mostly relevance, minimal diversity
//   - 0.7-0.9: Balanced
//   - 0.0-0.7: Diversity-focused (may sacrifice relevance)
//
// Similarity is read from the content similarity matrix of the index in
// the request context. Without one, genre Jaccard similarity is used.
//
// A profile enables MMR by setting diversity.similarity_lambda strictly
// between 0 and 1.
//
// # Performance
//
// MMR is O(w^2) in the window size w. Only the top w books are reordered;
// the rest of the list keeps its order.
//
// # Thread Safety
//
// Rerankers are stateless and safe for concurrent use.
package reranking
