// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Note: This package has no external dependencies on other internal packages
// to maintain clean separation. DataProvider and IndexProvider allow
// integration with the storage and artifact layers without circular imports.

// DefaultSearchHistoryLimit is how many stored searches are merged into a request.
const DefaultSearchHistoryLimit = 10

// Engine runs the ranking pipeline under one Profile.
// It is safe for concurrent use; per-request state is never shared.
type Engine struct {
	profile *Profile
	logger  zerolog.Logger

	rerankers []Reranker
	quota     *AuthorQuota

	// Collaborators, guarded by mu
	dataProvider       DataProvider
	indexProvider      IndexProvider
	observer           Observer
	searchHistoryLimit int
	mu                 sync.RWMutex

	sampler *sampler

	// Metrics
	requestCount  atomic.Int64
	fallbackCount atomic.Int64
	errorCount    atomic.Int64
}

// Stats are cumulative engine counters.
type Stats struct {
	Profile       string `json:"profile"`
	RequestCount  int64  `json:"request_count"`
	FallbackCount int64  `json:"fallback_count"`
	ErrorCount    int64  `json:"error_count"`
}

// Ranking is the typed result of Engine.Rank.
type Ranking struct {
	// Items are the ranked, diversity-capped books.
	Items []ScoredItem

	// Candidates counts books that cleared the inclusion threshold.
	Candidates int

	// ResolvedLiked counts liked references that resolved to a book.
	ResolvedLiked int

	// AppliedSearches lists the queries that boosted scores.
	AppliedSearches []string
}

// NewEngine creates an engine for profile. A nil profile selects DefaultProfile.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(profile *Profile, logger zerolog.Logger) (*Engine, error) {
	if profile == nil {
		profile = DefaultProfile()
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	profile = profile.Clone()

	return &Engine{
		profile: profile,
		logger: logger.With().
			Str("component", "recommend").
			Str("profile", profile.Name).
			Logger(),
		rerankers:          make([]Reranker, 0),
		quota:              NewAuthorQuota(profile.Diversity.MaxPerAuthor),
		searchHistoryLimit: DefaultSearchHistoryLimit,
		sampler:            newSampler(profile.Seed),
	}, nil
}

// Name returns the profile name.
func (e *Engine) Name() string {
	return e.profile.Name
}

// Profile returns a copy of the engine's profile.
func (e *Engine) Profile() *Profile {
	return e.profile.Clone()
}

// SetDataProvider sets the source of stored user data.
func (e *Engine) SetDataProvider(dp DataProvider) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dataProvider = dp
}

// SetIndexProvider sets the source of the active index.
func (e *Engine) SetIndexProvider(ip IndexProvider) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.indexProvider = ip
}

// SetObserver sets the per-request observer.
func (e *Engine) SetObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observer = o
}

// SetSearchHistoryLimit sets how many stored searches are merged. Values
// below 1 disable the merge.
func (e *Engine) SetSearchHistoryLimit(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.searchHistoryLimit = n
}

// RegisterReranker adds a reranker that runs after sorting and before the
// author quota.
func (e *Engine) RegisterReranker(rr Reranker) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rerankers = append(e.rerankers, rr)
	e.logger.Info().
		Str("reranker", rr.Name()).
		Msg("registered reranker")
}

// Stats returns the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Profile:       e.profile.Name,
		RequestCount:  e.requestCount.Load(),
		FallbackCount: e.fallbackCount.Load(),
		ErrorCount:    e.errorCount.Load(),
	}
}

// Rank runs the ranking stages against ix and returns the ranked items or a
// *StageError. The returned Ranking is non-nil whenever ix held a matrix,
// so counters survive an ErrNoCandidates failure.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Rank(ctx context.Context, ix *Index, req Request) (ranking *Ranking, err error) {
	stage := StageLoad
	defer func() {
		if r := recover(); r != nil {
			err = stageErr(stage, fmt.Errorf("%w: %v", ErrUnexpected, r))
		}
	}()

	if !ix.HasMatrix() {
		return nil, stageErr(StageLoad, ErrArtifactsUnavailable)
	}
	ranking = &Ranking{}

	stage = StageProfile
	if err := ctx.Err(); err != nil {
		return ranking, stageErr(stage, err)
	}
	profileVec, resolved := buildProfileVector(ix, req.Liked, e.profile.Resolve.TitleCutoff)
	ranking.ResolvedLiked = resolved

	stage = StageScore
	records, err := newScorer(e.profile, req).score(ctx, ix, profileVec)
	if err != nil {
		return ranking, stageErr(stage, err)
	}

	stage = StageSearch
	applied, err := applySearches(ctx, ix, records, req.Searches, e.profile)
	ranking.AppliedSearches = applied
	if err != nil {
		return ranking, stageErr(stage, err)
	}

	stage = StageRank
	items := selectCandidates(ix, records, e.profile.Thresholds.Inclusion)
	ranking.Candidates = len(items)
	if len(items) == 0 {
		return ranking, stageErr(stage, ErrNoCandidates)
	}

	stage = StageRerank
	ranking.Items = e.applyRerankers(WithIndex(ctx, ix), items)
	return ranking, nil
}

// applyRerankers runs the registered rerankers and then the author quota.
func (e *Engine) applyRerankers(ctx context.Context, items []ScoredItem) []ScoredItem {
	e.mu.RLock()
	rerankers := e.rerankers
	e.mu.RUnlock()

	for _, rr := range rerankers {
		items = rr.Rerank(ctx, items, len(items))
	}
	return e.quota.Rerank(ctx, items, e.profile.Diversity.MaxTotal)
}

// Recommend is the top-level adapter around Rank: it merges stored user
// data, ranks against the current index, formats the result and converts
// every failure into the fallback sample. It always returns a response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (resp *Response) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	e.mu.RLock()
	indexProvider := e.indexProvider
	observer := e.observer
	e.mu.RUnlock()

	var ix *Index
	if indexProvider != nil {
		ix = indexProvider.Current()
	}

	resp = &Response{
		Items: []Record{},
		Metadata: ResponseMetadata{
			RequestID:    req.RequestID,
			UserID:       req.UserID,
			Profile:      e.profile.Name,
			IndexVersion: ix.Version(),
		},
	}

	defer func() {
		if r := recover(); r != nil {
			e.fallback(resp, ix, stageErr(StageFormat, fmt.Errorf("%w: %v", ErrUnexpected, r)), logger)
		}
		resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
		resp.Metadata.Timestamp = time.Now()
		if observer != nil {
			observer.ObserveRecommendation(e.profile.Name, resp.Metadata.FallbackCause,
				resp.Metadata.Candidates, len(resp.Items), time.Since(start))
		}
		logger.Debug().
			Bool("fallback", resp.Metadata.Fallback).
			Int("candidates", resp.Metadata.Candidates).
			Int("returned", len(resp.Items)).
			Int64("latency_ms", resp.Metadata.LatencyMS).
			Msg("recommendation complete")
	}()

	req = e.withStoredData(ctx, req, logger)

	ranking, err := e.Rank(ctx, ix, req)
	if ranking != nil {
		resp.Metadata.Candidates = ranking.Candidates
		resp.Metadata.ResolvedLiked = ranking.ResolvedLiked
		resp.Metadata.AppliedSearches = ranking.AppliedSearches
	}
	if err != nil {
		e.fallback(resp, ix, err, logger)
		return resp
	}

	resp.Items = e.format(ranking.Items, ix, resp)
	if req.Limit > 0 && len(resp.Items) > req.Limit {
		resp.Items = resp.Items[:req.Limit]
	}
	return resp
}

// fallback replaces the response items with the popular sample.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) fallback(resp *Response, ix *Index, err error, logger zerolog.Logger) {
	e.fallbackCount.Add(1)
	cause := FallbackCause(err)
	if cause != CauseNoCandidates {
		e.errorCount.Add(1)
	}

	var stage Stage
	var se *StageError
	if errors.As(err, &se) {
		stage = se.Stage
	}
	event := logger.Warn()
	if cause == CauseNoCandidates {
		event = logger.Debug()
	}
	event.Err(err).
		Str("stage", string(stage)).
		Str("cause", cause).
		Msg("serving fallback recommendations")

	resp.Metadata.Fallback = true
	resp.Metadata.FallbackCause = cause
	resp.Metadata.Backfilled = 0
	resp.Items = []Record{}
	if ix.Len() > 0 {
		resp.Items = fallbackRecords(e.sampler, ix, e.profile.Fallback.SampleSize, nil, e.profile)
	}
}

// format converts ranked items to records and backfills a short list.
func (e *Engine) format(items []ScoredItem, ix *Index, resp *Response) []Record {
	records := make([]Record, 0, len(items))
	for i := range items {
		records = append(records, formatItem(items[i], e.profile.Display))
	}

	fb := e.profile.Fallback
	if len(records) >= fb.MinResults {
		return records
	}

	var exclude map[string]struct{}
	if fb.DedupeBackfill {
		exclude = make(map[string]struct{}, len(records))
		for i := range records {
			exclude[records[i].ID] = struct{}{}
		}
	}
	fill := fallbackRecords(e.sampler, ix, fb.BackfillTarget-len(records), exclude, e.profile)
	resp.Metadata.Backfilled = len(fill)
	return append(records, fill...)
}

// withStoredData merges the user's stored preferences and recent searches
// behind the explicit request values. Provider failures are logged and
// leave the request unchanged.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) withStoredData(ctx context.Context, req Request, logger zerolog.Logger) Request {
	e.mu.RLock()
	dp := e.dataProvider
	limit := e.searchHistoryLimit
	e.mu.RUnlock()

	if dp == nil || req.UserID <= 0 {
		return req
	}

	prefs, err := dp.GetPreferences(ctx, req.UserID)
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("failed to load stored preferences")
	case prefs != nil:
		req.Liked = mergeRefs(req.Liked, prefs.Books)
		req.Authors = mergeTerms(req.Authors, prefs.Authors)
		req.Genres = mergeTerms(req.Genres, prefs.Genres)
	}

	if limit > 0 {
		searches, err := dp.GetRecentSearches(ctx, req.UserID, limit)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to load search history")
		} else {
			req.Searches = mergeTerms(req.Searches, searches)
		}
	}

	return req
}

// prepareRequest generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = fmt.Sprintf("rec-%d-%d", time.Now().UnixNano(), e.requestCount.Load())
	}
	return req
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Int("user_id", req.UserID).
		Logger()
}

type indexCtxKey struct{}

// WithIndex returns a context carrying the index a ranking runs against,
// for rerankers that need similarity rows.
func WithIndex(ctx context.Context, ix *Index) context.Context {
	return context.WithValue(ctx, indexCtxKey{}, ix)
}

// IndexFromContext returns the index stored by WithIndex, or nil.
func IndexFromContext(ctx context.Context) *Index {
	ix, _ := ctx.Value(indexCtxKey{}).(*Index)
	return ix
}
