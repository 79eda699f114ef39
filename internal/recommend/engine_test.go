// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func newTestEngine(t *testing.T, profile *Profile, ix *Index) *Engine {
	t.Helper()
	eng, err := NewEngine(profile, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	eng.SetIndexProvider(staticIndex{ix: ix})
	return eng
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	t.Run("nil profile selects default", func(t *testing.T) {
		t.Parallel()
		eng, err := NewEngine(nil, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		if eng.Name() != ProfileDefault {
			t.Errorf("Name() = %q, want %q", eng.Name(), ProfileDefault)
		}
	})

	t.Run("invalid profile rejected", func(t *testing.T) {
		t.Parallel()
		p := DefaultProfile()
		p.Diversity.MaxTotal = 0
		if _, err := NewEngine(p, zerolog.Nop()); err == nil {
			t.Error("expected error for invalid profile")
		}
	})

	t.Run("profile is copied", func(t *testing.T) {
		t.Parallel()
		p := DefaultProfile()
		eng, err := NewEngine(p, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		p.Weights.Author = 0.9
		if eng.Profile().Weights.Author != 0.30 {
			t.Error("engine profile changed after caller mutation")
		}
	})
}

func TestEngine_Recommend_AuthorAndGenre(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, DefaultProfile(), mustIndex(t, testCatalog(), testMatrix()))
	resp := eng.Recommend(context.Background(), Request{
		Authors: Terms{"Tolkien"},
		Genres:  Terms{"Fantasy"},
	})

	if resp.Metadata.Fallback {
		t.Fatalf("unexpected fallback, cause %q", resp.Metadata.FallbackCause)
	}
	if resp.Metadata.Candidates != 2 {
		t.Errorf("Candidates = %d, want 2", resp.Metadata.Candidates)
	}
	if len(resp.Items) != 4 {
		t.Fatalf("len(Items) = %d, want 2 ranked plus 2 backfilled", len(resp.Items))
	}
	if resp.Metadata.Backfilled != 2 {
		t.Errorf("Backfilled = %d, want 2", resp.Metadata.Backfilled)
	}

	for i, id := range []string{"1", "4"} {
		rec := resp.Items[i]
		if rec.ID != id {
			t.Errorf("Items[%d].ID = %q, want %q", i, rec.ID, id)
		}
		if rec.Score != 0.5 || rec.MatchPercent != "75%" {
			t.Errorf("Items[%d] score = %v %q, want 0.5 75%%", i, rec.Score, rec.MatchPercent)
		}
		if rec.Reason != "matched by author J.R.R. Tolkien" {
			t.Errorf("Items[%d].Reason = %q", i, rec.Reason)
		}
	}

	seen := make(map[string]bool)
	for _, rec := range resp.Items {
		if seen[rec.ID] {
			t.Errorf("book %q appears twice with dedupe enabled", rec.ID)
		}
		seen[rec.ID] = true
	}
	for _, rec := range resp.Items[2:] {
		if rec.Reason != "popular recommendation" || rec.MatchPercent != "85%" {
			t.Errorf("backfill record %+v", rec)
		}
	}

	if resp.Metadata.RequestID == "" || !strings.HasPrefix(resp.Metadata.RequestID, "rec-") {
		t.Errorf("RequestID = %q, want generated rec- prefix", resp.Metadata.RequestID)
	}
	if resp.Metadata.IndexVersion != "test" {
		t.Errorf("IndexVersion = %q, want test", resp.Metadata.IndexVersion)
	}
}

func TestEngine_Recommend_SurveyProfile(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, SurveyProfile(), mustIndex(t, testCatalog(), testMatrix()))
	resp := eng.Recommend(context.Background(), Request{
		Authors: Terms{"Tolkien"},
		Genres:  Terms{"Fantasy"},
	})

	if len(resp.Items) != 6 {
		t.Fatalf("len(Items) = %d, want 2 ranked plus 4 backfilled", len(resp.Items))
	}
	if resp.Items[0].Score != 0.68 {
		t.Errorf("Score = %v, want 0.68", resp.Items[0].Score)
	}
	if resp.Items[0].MatchPercent != "99%" {
		t.Errorf("MatchPercent = %q, want 99%%", resp.Items[0].MatchPercent)
	}
	if resp.Items[0].Reason != "From author J.R.R. Tolkien" {
		t.Errorf("Reason = %q", resp.Items[0].Reason)
	}
	if resp.Items[5].Reason != "Popular Recommendation" {
		t.Errorf("backfill Reason = %q", resp.Items[5].Reason)
	}
}

func TestEngine_Recommend_LikedBooks(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, DefaultProfile(), mustIndex(t, testCatalog(), testMatrix()))
	resp := eng.Recommend(context.Background(), Request{Liked: []ItemRef{"The Hobbit"}})

	if resp.Metadata.ResolvedLiked != 1 {
		t.Errorf("ResolvedLiked = %d, want 1", resp.Metadata.ResolvedLiked)
	}
	if resp.Metadata.Candidates != 2 {
		t.Fatalf("Candidates = %d, want 2", resp.Metadata.Candidates)
	}
	if resp.Items[0].ID != "1" || resp.Items[1].ID != "4" {
		t.Errorf("order = %s,%s want 1,4", resp.Items[0].ID, resp.Items[1].ID)
	}
	if resp.Items[1].Reason != "similar to books you liked" {
		t.Errorf("Reason = %q", resp.Items[1].Reason)
	}
}

func TestEngine_Recommend_Fallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ix        *Index
		ctx       func() context.Context
		req       Request
		reranker  Reranker
		wantCause string
		wantItems int
	}{
		{
			name:      "missing matrix",
			ix:        mustIndex(t, numberedCatalog(20), nil),
			req:       Request{Authors: Terms{"Author 1"}},
			wantCause: CauseArtifactsUnavailable,
			wantItems: 15,
		},
		{
			name:      "no index",
			ix:        nil,
			req:       Request{Authors: Terms{"Author 1"}},
			wantCause: CauseArtifactsUnavailable,
			wantItems: 0,
		},
		{
			name:      "empty request",
			ix:        mustIndex(t, testCatalog(), testMatrix()),
			req:       Request{},
			wantCause: CauseNoCandidates,
			wantItems: 4,
		},
		{
			name: "canceled context",
			ix:   mustIndex(t, testCatalog(), testMatrix()),
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			req:       Request{Authors: Terms{"Tolkien"}},
			wantCause: CauseCanceled,
			wantItems: 4,
		},
		{
			name:      "panicking reranker",
			ix:        mustIndex(t, testCatalog(), testMatrix()),
			req:       Request{Authors: Terms{"Tolkien"}},
			reranker:  panicReranker{},
			wantCause: CauseUnexpected,
			wantItems: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			eng := newTestEngine(t, DefaultProfile(), tt.ix)
			if tt.reranker != nil {
				eng.RegisterReranker(tt.reranker)
			}
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}

			resp := eng.Recommend(ctx, tt.req)
			if resp == nil {
				t.Fatal("Recommend() returned nil")
			}
			if !resp.Metadata.Fallback {
				t.Error("Fallback = false, want true")
			}
			if resp.Metadata.FallbackCause != tt.wantCause {
				t.Errorf("FallbackCause = %q, want %q", resp.Metadata.FallbackCause, tt.wantCause)
			}
			if len(resp.Items) != tt.wantItems {
				t.Errorf("len(Items) = %d, want %d", len(resp.Items), tt.wantItems)
			}
			for _, rec := range resp.Items {
				if rec.Score != 0.85 || rec.MatchPercent != "85%" || rec.Reason != "popular recommendation" {
					t.Errorf("fallback record %+v", rec)
				}
			}
		})
	}
}

func TestEngine_Recommend_DataProvider(t *testing.T) {
	t.Parallel()

	ix := mustIndex(t, testCatalog(), testMatrix())

	t.Run("stored preferences are merged", func(t *testing.T) {
		t.Parallel()
		dp := &mockDataProvider{
			prefs: map[int]*Preferences{7: {UserID: 7, Books: []ItemRef{"1"}}},
		}
		eng := newTestEngine(t, DefaultProfile(), ix)
		eng.SetDataProvider(dp)

		resp := eng.Recommend(context.Background(), Request{UserID: 7})
		if resp.Metadata.Fallback {
			t.Fatalf("unexpected fallback, cause %q", resp.Metadata.FallbackCause)
		}
		if resp.Metadata.ResolvedLiked != 1 {
			t.Errorf("ResolvedLiked = %d, want 1", resp.Metadata.ResolvedLiked)
		}
		if dp.lastLimit != DefaultSearchHistoryLimit {
			t.Errorf("search history limit = %d, want %d", dp.lastLimit, DefaultSearchHistoryLimit)
		}
	})

	t.Run("anonymous requests skip the provider", func(t *testing.T) {
		t.Parallel()
		dp := &mockDataProvider{}
		eng := newTestEngine(t, DefaultProfile(), ix)
		eng.SetDataProvider(dp)

		eng.Recommend(context.Background(), Request{Authors: Terms{"Tolkien"}})
		if dp.lastLimit != 0 {
			t.Error("provider consulted for anonymous request")
		}
	})

	t.Run("provider errors still produce a list", func(t *testing.T) {
		t.Parallel()
		dp := &mockDataProvider{
			prefsErr:    errors.New("db down"),
			searchesErr: errors.New("db down"),
		}
		eng := newTestEngine(t, DefaultProfile(), ix)
		eng.SetDataProvider(dp)

		resp := eng.Recommend(context.Background(), Request{UserID: 7, Authors: Terms{"Tolkien"}})
		if resp.Metadata.Fallback {
			t.Errorf("unexpected fallback, cause %q", resp.Metadata.FallbackCause)
		}
		if len(resp.Items) == 0 {
			t.Error("expected items")
		}
	})
}

func TestEngine_Recommend_LimitObserverStats(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	eng := newTestEngine(t, DefaultProfile(), mustIndex(t, testCatalog(), testMatrix()))
	eng.SetObserver(obs)

	resp := eng.Recommend(context.Background(), Request{Authors: Terms{"Tolkien"}, Limit: 1})
	if len(resp.Items) != 1 {
		t.Errorf("len(Items) = %d, want 1", len(resp.Items))
	}
	eng.Recommend(context.Background(), Request{})

	if len(obs.causes) != 2 {
		t.Fatalf("observer called %d times, want 2", len(obs.causes))
	}
	if obs.causes[0] != CauseNone || obs.causes[1] != CauseNoCandidates {
		t.Errorf("causes = %v", obs.causes)
	}
	if obs.counts[0] != 1 {
		t.Errorf("returned = %d, want 1", obs.counts[0])
	}

	stats := eng.Stats()
	if stats.RequestCount != 2 || stats.FallbackCount != 1 || stats.ErrorCount != 0 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestEngine_Recommend_Deterministic(t *testing.T) {
	t.Parallel()

	ix := mustIndex(t, numberedCatalog(40), nil)
	p := DefaultProfile()
	p.Seed = 42
	a := newTestEngine(t, p, ix).Recommend(context.Background(), Request{})
	b := newTestEngine(t, p, ix).Recommend(context.Background(), Request{})

	if len(a.Items) != len(b.Items) {
		t.Fatalf("lengths differ: %d vs %d", len(a.Items), len(b.Items))
	}
	for i := range a.Items {
		if a.Items[i].ID != b.Items[i].ID {
			t.Fatalf("samples differ at %d", i)
		}
	}
}

func TestEngine_Recommend_AuthorCap(t *testing.T) {
	t.Parallel()

	books := []Book{
		{ID: "A", Title: "Alpha", Authors: "X", Genres: "G"},
		{ID: "B", Title: "Beta", Authors: "Y", Genres: "G"},
		{ID: "C", Title: "Gamma", Authors: "X", Genres: "G"},
	}
	ix := mustIndex(t, books, zeroMatrix(3))

	tests := []struct {
		name string
		cap  int
		want []string
	}{
		{"cap two", 2, []string{"A", "C"}},
		{"cap one", 1, []string{"A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := DefaultProfile()
			p.Thresholds.Inclusion = 0.05
			p.Fallback.MinResults = 0
			p.Fallback.BackfillTarget = 0
			p.Diversity.MaxPerAuthor = tt.cap

			resp := newTestEngine(t, p, ix).Recommend(context.Background(), Request{Authors: Terms{"X"}})
			if len(resp.Items) != len(tt.want) {
				t.Fatalf("len(Items) = %d, want %d", len(resp.Items), len(tt.want))
			}
			for i, id := range tt.want {
				if resp.Items[i].ID != id {
					t.Errorf("Items[%d].ID = %q, want %q", i, resp.Items[i].ID, id)
				}
				if resp.Items[i].Score != 0.3 {
					t.Errorf("Items[%d].Score = %v, want 0.3", i, resp.Items[i].Score)
				}
			}
		})
	}
}

func TestEngine_Rank(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, DefaultProfile(), nil)

	t.Run("missing matrix", func(t *testing.T) {
		t.Parallel()
		ranking, err := eng.Rank(context.Background(), mustIndex(t, testCatalog(), nil), Request{})
		if ranking != nil {
			t.Error("expected nil ranking")
		}
		var se *StageError
		if !errors.As(err, &se) || se.Stage != StageLoad {
			t.Errorf("err = %v, want load stage error", err)
		}
		if !errors.Is(err, ErrArtifactsUnavailable) {
			t.Errorf("err = %v, want ErrArtifactsUnavailable", err)
		}
	})

	t.Run("no candidates keeps counters", func(t *testing.T) {
		t.Parallel()
		ranking, err := eng.Rank(context.Background(), mustIndex(t, testCatalog(), testMatrix()),
			Request{Liked: []ItemRef{"Unknown Book Title"}})
		if !errors.Is(err, ErrNoCandidates) {
			t.Fatalf("err = %v, want ErrNoCandidates", err)
		}
		if ranking == nil || ranking.ResolvedLiked != 0 {
			t.Errorf("ranking = %+v", ranking)
		}
	})

	t.Run("search boost", func(t *testing.T) {
		t.Parallel()
		ranking, err := eng.Rank(context.Background(), mustIndex(t, testCatalog(), testMatrix()),
			Request{Genres: Terms{"Adventure"}, Searches: Terms{"Dune", "Dune"}})
		if err != nil {
			t.Fatalf("Rank() error = %v", err)
		}
		if len(ranking.AppliedSearches) != 2 {
			t.Errorf("AppliedSearches = %v, want both queries", ranking.AppliedSearches)
		}
		if ranking.Items[0].Book.ID != "2" {
			t.Fatalf("top book = %q, want 2", ranking.Items[0].Book.ID)
		}
		if !approxEqual(ranking.Items[0].Score, 0.6) {
			t.Errorf("Score = %v, want 0.6", ranking.Items[0].Score)
		}
		if ranking.Items[0].Reason != "related to search 'Dune'" {
			t.Errorf("Reason = %q", ranking.Items[0].Reason)
		}
	})
}

func TestIndexContext(t *testing.T) {
	t.Parallel()

	if IndexFromContext(context.Background()) != nil {
		t.Error("expected nil index from empty context")
	}
	ix := mustIndex(t, testCatalog(), testMatrix())
	if IndexFromContext(WithIndex(context.Background(), ix)) != ix {
		t.Error("index not carried by context")
	}
}

func TestEngine_Recommend_NonFiniteSimilarity(t *testing.T) {
	t.Parallel()

	nan := float32(math.NaN())
	books := []Book{
		{ID: "A", Title: "Alpha", Authors: "X", Genres: "G1"},
		{ID: "B", Title: "Beta", Authors: "Y", Genres: "G2"},
		{ID: "C", Title: "Gamma", Authors: "Z", Genres: "G3"},
	}
	matrix := [][]float32{
		{1, nan, float32(math.Inf(1))},
		{nan, 1, 0},
		{float32(math.Inf(1)), 0, 1},
	}
	ix := mustIndex(t, books, matrix)

	resp := newTestEngine(t, DefaultProfile(), ix).Recommend(context.Background(),
		Request{Liked: []ItemRef{"Alpha"}})

	for _, item := range resp.Items {
		if math.IsNaN(item.Score) || math.IsInf(item.Score, 0) {
			t.Errorf("item %s has score %v", item.ID, item.Score)
		}
		if strings.HasPrefix(item.MatchPercent, "-") {
			t.Errorf("item %s has match %s", item.ID, item.MatchPercent)
		}
	}
	if !resp.Metadata.Fallback {
		t.Errorf("want fallback when no finite score reaches the threshold, got %+v", resp.Items)
	}
	if _, err := json.Marshal(resp.Items); err != nil {
		t.Errorf("json.Marshal() error = %v", err)
	}
}
