// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package artifacts loads the precomputed ranking artifacts and serves the
active recommend.Index.

Two artifacts are produced upstream by the training step:

  - book_index: the metadata table (book_id, title, image_url, authors,
    genres, description), one row per book
  - cosine_sim: the square item-item similarity matrix whose row order
    matches book_index

Sources:

  - FileSource reads book_index.json and cosine_sim.json from a directory
  - DuckDBSource reads the book_index and cosine_sim tables of a DuckDB
    database (cosine_sim stores one FLOAT[] row per position)

A missing metadata table is an error wrapping
recommend.ErrArtifactsUnavailable. A missing matrix is not: the resulting
index is metadata-only and can serve the popular sample.

Loader guards a Source with a circuit breaker and records load metrics.
Holder keeps the last good index in an atomic pointer so a failed reload
never replaces a working index:

	holder := artifacts.NewHolder(artifacts.NewLoader(src, breaker.DefaultConfig(), logger), logger)
	holder.OnReload(searchIndex.Rebuild)
	if _, err := holder.Reload(ctx); err != nil {
	    // keep serving fallback lists
	}
	engines.SetIndexProvider(holder)
*/
package artifacts
