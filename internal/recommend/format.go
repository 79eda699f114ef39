// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"math"
	"strconv"
)

// DisplayScore maps a raw score to the presentation scale: scaled by the
// multiplier and clamped to [0, ceiling]. It never feeds back into ranking.
func DisplayScore(raw float64, d DisplayConfig) float64 {
	return math.Max(0, math.Min(raw*d.Multiplier, d.Ceiling))
}

// Percent renders a [0, 1] value as a truncated integer percentage.
func Percent(v float64) string {
	return strconv.Itoa(int(v*100)) + "%"
}

// RoundScore rounds to 3 decimal places.
func RoundScore(v float64) float64 {
	return math.Round(v*1000) / 1000
}

//nolint:gocritic // hugeParam: item passed by value for immutability
func formatItem(item ScoredItem, d DisplayConfig) Record {
	b := item.Book
	return Record{
		ID:           b.ID,
		Title:        b.Title,
		ImageURL:     b.ImageURL,
		Authors:      b.Authors,
		Genres:       b.Genres,
		Description:  b.Description,
		Score:        RoundScore(item.Score),
		MatchPercent: Percent(DisplayScore(item.Score, d)),
		Reason:       item.Reason,
	}
}

//nolint:gocritic // hugeParam: b passed by value for immutability
func fallbackRecord(b Book, cfg FallbackConfig, reason string) Record {
	return Record{
		ID:           b.ID,
		Title:        b.Title,
		ImageURL:     b.ImageURL,
		Authors:      b.Authors,
		Genres:       b.Genres,
		Description:  b.Description,
		Score:        RoundScore(cfg.Score),
		MatchPercent: Percent(cfg.Score),
		Reason:       reason,
	}
}
