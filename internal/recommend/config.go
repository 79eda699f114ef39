// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"fmt"
	"sort"
	"strings"
)

// Built-in profile names.
const (
	ProfileDefault = "default"
	ProfileSurvey  = "survey"
)

// Reason template placeholders.
const (
	PlaceholderAuthor = "{author}"
	PlaceholderQuery  = "{query}"
)

// GenreFormula selects how genre overlap is scored.
type GenreFormula string

const (
	// GenreUserCoverage is |user ∩ book| / |user|.
	GenreUserCoverage GenreFormula = "user_coverage"

	// GenreJaccard is |user ∩ book| / |user ∪ book|.
	GenreJaccard GenreFormula = "jaccard"
)

// Profile is a named, immutable parameter set for the ranking pipeline.
// Engines clone the profile they are built with; mutate a copy and build a
// new engine to change behavior.
type Profile struct {
	// Name identifies the profile in requests and metrics.
	Name string `json:"name"`

	// Weights combine the three signals.
	Weights Weights `json:"weights"`

	// GenreFormula selects the genre overlap definition.
	GenreFormula GenreFormula `json:"genre_formula"`

	// Thresholds drive reason attribution and candidate inclusion.
	Thresholds Thresholds `json:"thresholds"`

	// Resolve controls liked-book lookup.
	Resolve ResolveConfig `json:"resolve"`

	// Search controls query boosting.
	Search SearchConfig `json:"search"`

	// Diversity caps the result list.
	Diversity DiversityConfig `json:"diversity"`

	// Fallback controls the popular sample and backfill.
	Fallback FallbackConfig `json:"fallback"`

	// Display controls the presentation transform.
	Display DisplayConfig `json:"display"`

	// Reasons holds the user-facing reason strings.
	Reasons ReasonTemplates `json:"reasons"`

	// Seed seeds the fallback sampler. Zero seeds each engine randomly.
	Seed int64 `json:"seed"`
}

// Weights are the signal weights, conventionally summing to 1.0.
type Weights struct {
	Author  float64 `json:"author"`
	Content float64 `json:"content"`
	Genre   float64 `json:"genre"`
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Author + w.Content + w.Genre
}

// Thresholds used during scoring and ranking.
type Thresholds struct {
	// GenreHigh is the inclusive genre score from which the genre reason
	// outranks content similarity.
	GenreHigh float64 `json:"genre_high"`

	// ContentModerate is the exclusive content score above which the
	// content reason applies.
	ContentModerate float64 `json:"content_moderate"`

	// Inclusion is the inclusive minimum combined score of a candidate.
	Inclusion float64 `json:"inclusion"`
}

// ResolveConfig controls how liked-book references are resolved.
type ResolveConfig struct {
	// TitleCutoff is the minimum fuzzy title ratio accepted.
	TitleCutoff float64 `json:"title_cutoff"`
}

// SearchConfig controls search boosting.
type SearchConfig struct {
	// MinQueryLength ignores shorter queries, counted in characters.
	MinQueryLength int `json:"min_query_length"`

	// FuzzyCutoff is the minimum fuzzy title ratio for a query.
	FuzzyCutoff float64 `json:"fuzzy_cutoff"`

	// SubstringFallback matches by case-insensitive containment when the
	// fuzzy match fails.
	SubstringFallback bool `json:"substring_fallback"`

	// Boost scales the matched book's similarity row before it is added.
	Boost float64 `json:"boost"`

	// TopSimilar is how many most-similar books may take the search reason.
	TopSimilar int `json:"top_similar"`

	// ReasonThreshold is the exclusive post-boost score above which the
	// search reason overrides.
	ReasonThreshold float64 `json:"reason_threshold"`
}

// DiversityConfig caps the result list.
type DiversityConfig struct {
	// MaxPerAuthor caps books per normalized author.
	MaxPerAuthor int `json:"max_per_author"`

	// MaxTotal caps the number of ranked results.
	MaxTotal int `json:"max_total"`

	// SimilarityLambda enables similarity-based diversification when in
	// (0, 1). 0 or 1 disables it.
	SimilarityLambda float64 `json:"similarity_lambda"`
}

// FallbackConfig controls the popular sample.
type FallbackConfig struct {
	// SampleSize is the number of books in a full fallback list.
	SampleSize int `json:"sample_size"`

	// Score is the fixed score of sampled books.
	Score float64 `json:"score"`

	// MinResults triggers backfill when the ranked list is shorter.
	MinResults int `json:"min_results"`

	// BackfillTarget is the list length backfill fills up to.
	BackfillTarget int `json:"backfill_target"`

	// DedupeBackfill excludes already ranked books from the backfill sample.
	DedupeBackfill bool `json:"dedupe_backfill"`
}

// DisplayConfig is the presentation-only score transform.
type DisplayConfig struct {
	Multiplier float64 `json:"multiplier"`
	Ceiling    float64 `json:"ceiling"`
}

// ReasonTemplates are the user-facing reason strings.
type ReasonTemplates struct {
	// Author may contain PlaceholderAuthor.
	Author  string `json:"author"`
	Genre   string `json:"genre"`
	Content string `json:"content"`

	// Search may contain PlaceholderQuery.
	Search   string `json:"search"`
	Fallback string `json:"fallback"`
}

// DefaultProfile returns the reference configuration.
func DefaultProfile() *Profile {
	return &Profile{
		Name: ProfileDefault,
		Weights: Weights{
			Author:  0.30,
			Content: 0.50,
			Genre:   0.20,
		},
		GenreFormula: GenreUserCoverage,
		Thresholds: Thresholds{
			GenreHigh:       0.5,
			ContentModerate: 0.3,
			Inclusion:       0.334,
		},
		Resolve: ResolveConfig{
			TitleCutoff: 0.8,
		},
		Search: SearchConfig{
			MinQueryLength:    3,
			FuzzyCutoff:       0.4,
			SubstringFallback: true,
			Boost:             0.2,
			TopSimilar:        5,
			ReasonThreshold:   0.5,
		},
		Diversity: DiversityConfig{
			MaxPerAuthor: 3,
			MaxTotal:     100,
		},
		Fallback: FallbackConfig{
			SampleSize:     15,
			Score:          0.85,
			MinResults:     5,
			BackfillTarget: 5,
			DedupeBackfill: true,
		},
		Display: DisplayConfig{
			Multiplier: 1.5,
			Ceiling:    0.99,
		},
		Reasons: ReasonTemplates{
			Author:   "matched by author " + PlaceholderAuthor,
			Genre:    "matches your genres",
			Content:  "similar to books you liked",
			Search:   "related to search '" + PlaceholderQuery + "'",
			Fallback: "popular recommendation",
		},
	}
}

// SurveyProfile returns the survey-tuned variant: genre outweighs content,
// short lists are topped up to a full sample without deduplication.
func SurveyProfile() *Profile {
	p := DefaultProfile()
	p.Name = ProfileSurvey
	p.Weights = Weights{Author: 0.30, Content: 0.32, Genre: 0.38}
	p.Search.SubstringFallback = false
	p.Fallback.BackfillTarget = 15
	p.Fallback.DedupeBackfill = false
	p.Reasons = ReasonTemplates{
		Author:   "From author " + PlaceholderAuthor,
		Genre:    "Matches your genres",
		Content:  "Similar to books you liked",
		Search:   "Related to search '" + PlaceholderQuery + "'",
		Fallback: "Popular Recommendation",
	}
	return p
}

// BuiltinProfiles returns fresh copies of the built-in profiles keyed by name.
func BuiltinProfiles() map[string]*Profile {
	return map[string]*Profile{
		ProfileDefault: DefaultProfile(),
		ProfileSurvey:  SurveyProfile(),
	}
}

// Validate checks the profile for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}

	if p.Weights.Author < 0 || p.Weights.Content < 0 || p.Weights.Genre < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", p.Weights)
	}
	if p.Weights.Sum() == 0 {
		return fmt.Errorf("weights must not all be zero")
	}

	switch p.GenreFormula {
	case GenreUserCoverage, GenreJaccard:
	default:
		return fmt.Errorf("genre_formula must be %q or %q, got %q", GenreUserCoverage, GenreJaccard, p.GenreFormula)
	}

	if err := inUnit("resolve.title_cutoff", p.Resolve.TitleCutoff); err != nil {
		return err
	}
	if err := inUnit("search.fuzzy_cutoff", p.Search.FuzzyCutoff); err != nil {
		return err
	}
	if p.Search.MinQueryLength < 1 {
		return fmt.Errorf("search.min_query_length must be positive, got %d", p.Search.MinQueryLength)
	}
	if p.Search.Boost < 0 {
		return fmt.Errorf("search.boost must be non-negative, got %f", p.Search.Boost)
	}
	if p.Search.TopSimilar < 0 {
		return fmt.Errorf("search.top_similar must be non-negative, got %d", p.Search.TopSimilar)
	}

	if p.Diversity.MaxPerAuthor < 1 {
		return fmt.Errorf("diversity.max_per_author must be positive, got %d", p.Diversity.MaxPerAuthor)
	}
	if p.Diversity.MaxTotal < 1 {
		return fmt.Errorf("diversity.max_total must be positive, got %d", p.Diversity.MaxTotal)
	}
	if err := inUnit("diversity.similarity_lambda", p.Diversity.SimilarityLambda); err != nil {
		return err
	}

	if p.Fallback.SampleSize < 0 {
		return fmt.Errorf("fallback.sample_size must be non-negative, got %d", p.Fallback.SampleSize)
	}
	if p.Fallback.MinResults < 0 {
		return fmt.Errorf("fallback.min_results must be non-negative, got %d", p.Fallback.MinResults)
	}
	if p.Fallback.BackfillTarget < p.Fallback.MinResults {
		return fmt.Errorf("fallback.backfill_target must be >= fallback.min_results, got %d < %d",
			p.Fallback.BackfillTarget, p.Fallback.MinResults)
	}

	if p.Display.Multiplier <= 0 {
		return fmt.Errorf("display.multiplier must be positive, got %f", p.Display.Multiplier)
	}
	if p.Display.Ceiling <= 0 || p.Display.Ceiling > 1 {
		return fmt.Errorf("display.ceiling must be in (0, 1], got %f", p.Display.Ceiling)
	}

	return nil
}

func inUnit(field string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s must be in [0, 1], got %f", field, v)
	}
	return nil
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	// Direct copy - nested structs contain only value types
	c := *p
	return &c
}

// ProfileNames returns the sorted keys of profiles.
func ProfileNames(profiles map[string]*Profile) []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
