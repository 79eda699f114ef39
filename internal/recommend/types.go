// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Book is one row of the catalog metadata table.
type Book struct {
	// ID is the catalog identifier.
	ID string `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// ImageURL references the cover image.
	ImageURL string `json:"image_url"`

	// Authors is free text and may join several names.
	Authors string `json:"authors"`

	// Genres is a GenreDelimiter separated tag list.
	Genres string `json:"genres"`

	// Description is the catalog blurb.
	Description string `json:"description"`
}

// Position is the dense row index of a book in the metadata table and,
// identically, in the similarity matrix.
type Position int

// ItemRef refers to a liked book by identifier or by title.
// JSON numbers decode to their decimal text; other non-string values decode empty.
type ItemRef string

// UnmarshalJSON implements json.Unmarshaler.
func (r *ItemRef) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case string:
		*r = ItemRef(t)
	case float64:
		*r = ItemRef(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		*r = ""
	}
	return nil
}

// Terms is a list of free-text values. Non-string JSON elements decode as
// empty strings so one malformed entry never rejects a whole request.
type Terms []string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Terms) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Terms, len(raw))
	for i, v := range raw {
		if s, ok := v.(string); ok {
			out[i] = s
		}
	}
	*t = out
	return nil
}

// Request is the user input for one ranking invocation.
type Request struct {
	// UserID selects stored preferences and search history when a
	// DataProvider is configured. Zero means anonymous.
	UserID int `json:"user_id,omitempty"`

	// Liked holds liked-book references in the order given.
	Liked []ItemRef `json:"books"`

	// Searches holds free-text queries, most recent first.
	Searches Terms `json:"searches"`

	// Authors holds preferred author names.
	Authors Terms `json:"authors"`

	// Genres holds preferred genre tags.
	Genres Terms `json:"genres"`

	// Profile names the configuration profile. Empty selects the default.
	Profile string `json:"profile,omitempty"`

	// Limit truncates the final list when positive.
	Limit int `json:"limit,omitempty"`

	// RequestID is used for tracing. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// IsEmpty reports whether the request carries no user signal at all.
//
//nolint:gocritic // hugeParam: value receiver keeps Request immutable
func (r Request) IsEmpty() bool {
	return len(r.Liked) == 0 && len(r.Searches) == 0 && len(r.Authors) == 0 && len(r.Genres) == 0
}

// Preferences are the stored tastes of a user.
type Preferences struct {
	UserID    int       `json:"user_id"`
	Books     []ItemRef `json:"preferred_books"`
	Authors   Terms     `json:"preferred_authors"`
	Genres    Terms     `json:"preferred_genres"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScoreRecord holds the per-book sub-scores of one invocation.
type ScoreRecord struct {
	Author  float64
	Genre   float64
	Content float64

	// Search is the accumulated search boost included in Total.
	Search float64

	Total  float64
	Reason string
}

// ScoredItem is a ranked candidate.
type ScoredItem struct {
	// Position locates the book in the index the ranking was computed on.
	Position Position `json:"position"`

	// Book is the catalog row.
	Book Book `json:"book"`

	// Score is the combined score used for filtering and sorting.
	Score float64 `json:"score"`

	// Scores breaks the combined score down by signal.
	Scores map[string]float64 `json:"scores,omitempty"`

	// Reason explains the recommendation.
	Reason string `json:"reason,omitempty"`
}

// Signal names used in ScoredItem.Scores.
const (
	SignalAuthor  = "author"
	SignalGenre   = "genre"
	SignalContent = "content"
	SignalSearch  = "search"
)

// Record is one formatted recommendation.
type Record struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	ImageURL     string  `json:"image_url"`
	Authors      string  `json:"authors"`
	Genres       string  `json:"genres"`
	Description  string  `json:"description"`
	Score        float64 `json:"score"`
	MatchPercent string  `json:"match_percent"`
	Reason       string  `json:"reason"`
}

// Response is the output of Engine.Recommend.
type Response struct {
	// Items is never nil.
	Items []Record `json:"items"`

	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	RequestID string `json:"request_id"`
	UserID    int    `json:"user_id,omitempty"`
	Profile   string `json:"profile"`

	// Fallback is true when the whole list is the popular sample.
	Fallback bool `json:"fallback"`

	// FallbackCause classifies why the fallback path was taken.
	FallbackCause string `json:"fallback_cause,omitempty"`

	// Candidates counts books that cleared the inclusion threshold.
	Candidates int `json:"candidates"`

	// Backfilled counts sample items appended to a short list.
	Backfilled int `json:"backfilled"`

	ResolvedLiked   int       `json:"resolved_liked"`
	AppliedSearches []string  `json:"applied_searches,omitempty"`
	IndexVersion    string    `json:"index_version,omitempty"`
	LatencyMS       int64     `json:"latency_ms"`
	Timestamp       time.Time `json:"timestamp"`
}

// DataProvider supplies stored user data.
// This is typically implemented by the database layer.
type DataProvider interface {
	// GetPreferences returns the stored preferences for a user.
	GetPreferences(ctx context.Context, userID int) (*Preferences, error)

	// GetRecentSearches returns up to limit distinct recent queries, newest first.
	GetRecentSearches(ctx context.Context, userID int, limit int) ([]string, error)
}

// IndexProvider supplies the index to rank against.
type IndexProvider interface {
	// Current returns the active index or nil when none is loaded.
	Current() *Index
}

// Reranker post-processes ranked candidates.
type Reranker interface {
	// Name returns the reranker identifier.
	Name() string

	// Rerank returns at most k items.
	Rerank(ctx context.Context, items []ScoredItem, k int) []ScoredItem
}

// Observer receives one event per Recommend call.
type Observer interface {
	ObserveRecommendation(profile, cause string, candidates, returned int, latency time.Duration)
}

// mergeTerms returns a followed by the values of b not already in a.
// Duplicates within a are kept.
func mergeTerms(a, b []string) Terms {
	out := make(Terms, 0, len(a)+len(b))
	out = append(out, a...)
	seen := make(map[string]struct{}, len(a))
	for _, v := range a {
		seen[strings.TrimSpace(v)] = struct{}{}
	}
	for _, v := range b {
		key := strings.TrimSpace(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// mergeRefs is mergeTerms for liked-book references.
func mergeRefs(a, b []ItemRef) []ItemRef {
	out := make([]ItemRef, 0, len(a)+len(b))
	out = append(out, a...)
	seen := make(map[ItemRef]struct{}, len(a))
	for _, v := range a {
		seen[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
