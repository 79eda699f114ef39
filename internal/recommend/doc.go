// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package recommend ranks catalog books for a user by blending author
// match, genre overlap and content similarity.
//
// # Architecture
//
// The pipeline reads a precomputed item-item similarity matrix and the
// catalog metadata table, both wrapped in an immutable Index:
//
//   - Normalizer: case and punctuation insensitive comparison keys
//   - Profile Builder: mean similarity row of the resolved liked books
//   - Scoring Engine: weighted author, genre and content scores with a reason
//   - Search Booster: additive boosts from fuzzy-matched search queries
//   - Ranker: inclusion threshold, stable sort, author quota and total cap
//   - Fallback: a seeded random sample when ranking cannot produce a list
//
// # Profiles
//
// Weights, thresholds and caps live in a named Profile. An Engine is built
// for exactly one profile and Engines routes requests by profile name.
//
// # Usage
//
//	engines, err := recommend.NewEngines(recommend.BuiltinProfiles(), recommend.ProfileDefault, logger)
//	engines.SetIndexProvider(holder)
//	engines.SetDataProvider(store)
//
//	resp := engines.Recommend(ctx, recommend.Request{
//	    Authors: []string{"Ursula K. Le Guin"},
//	    Genres:  []string{"fantasy"},
//	})
//
// # Errors
//
// Engine.Rank returns typed *StageError values. Engine.Recommend is the
// only place errors are converted into the fallback list, so Recommend
// always returns a schema-valid response.
//
// # Thread Safety
//
// Engines are safe for concurrent use. An Index is never mutated after
// construction and per-request scores are never shared.
package recommend
