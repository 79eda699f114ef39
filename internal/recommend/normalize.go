// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import "strings"

// GenreDelimiter separates genre tags in the metadata table.
const GenreDelimiter = "|"

// stripper removes the separator characters ignored by comparisons.
var stripper = strings.NewReplacer("-", "", "_", "", " ", "", ".", "", ",", "")

// Normalize canonicalizes free text for comparison: lower-case with
// hyphens, underscores, spaces, periods and commas removed.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	return strings.TrimSpace(stripper.Replace(strings.ToLower(s)))
}

// NormalizeValue normalizes v if it is a string and returns "" otherwise.
func NormalizeValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return Normalize(s)
}

// normalizedSet builds the set of non-empty normalized values.
func normalizedSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if n := Normalize(v); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// SplitGenres parses a delimited genre string into its normalized tag set.
func SplitGenres(genres string) map[string]struct{} {
	if genres == "" {
		return map[string]struct{}{}
	}
	return normalizedSet(strings.Split(genres, GenreDelimiter))
}
