// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// splitRunes splits s into one element per code point, the unit the
// sequence matcher compares.
func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// closestTitle returns the catalog title most similar to query whose
// similarity ratio is at least cutoff. The cheap upper bounds are checked
// before the full ratio. Ties go to the lexically greatest title.
func closestTitle(ix *Index, query string, cutoff float64) (string, bool) {
	if query == "" || ix.Len() == 0 {
		return "", false
	}

	m := difflib.NewMatcher(nil, splitRunes(query))
	bestRatio := -1.0
	bestTitle := ""
	found := false

	for i, seq := range ix.titleRunes {
		m.SetSeq1(seq)
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		ratio := m.Ratio()
		if ratio < cutoff {
			continue
		}
		title := ix.titles[i]
		if ratio > bestRatio || (ratio == bestRatio && title > bestTitle) {
			bestRatio = ratio
			bestTitle = title
			found = true
		}
	}

	return bestTitle, found
}

// containingTitle returns the first position whose title contains query,
// ignoring case.
func containingTitle(ix *Index, query string) (Position, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0, false
	}
	for i, t := range ix.lowerTitles {
		if strings.Contains(t, q) {
			return Position(i), true
		}
	}
	return 0, false
}
