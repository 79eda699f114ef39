// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"strings"
)

// ctxCheckInterval is how many books are scored between cancellation checks.
const ctxCheckInterval = 4096

// scorer computes the initial Score Record of every book.
type scorer struct {
	profile     *Profile
	userAuthors map[string]struct{}
	userGenres  map[string]struct{}
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func newScorer(profile *Profile, req Request) *scorer {
	return &scorer{
		profile:     profile,
		userAuthors: normalizedSet(req.Authors),
		userGenres:  normalizedSet(req.Genres),
	}
}

// authorScore is 1 when the book's normalized authors equal a preferred
// author or contain one.
func (s *scorer) authorScore(bookAuthors string) float64 {
	if bookAuthors == "" || len(s.userAuthors) == 0 {
		return 0
	}
	if _, ok := s.userAuthors[bookAuthors]; ok {
		return 1
	}
	for ua := range s.userAuthors {
		if strings.Contains(bookAuthors, ua) {
			return 1
		}
	}
	return 0
}

// GenreScore scores the overlap of two normalized genre sets with formula.
// It is in [0, 1] and exactly 0 when either set is empty.
func GenreScore(formula GenreFormula, user, book map[string]struct{}) float64 {
	if len(user) == 0 || len(book) == 0 {
		return 0
	}
	inter := 0
	for g := range user {
		if _, ok := book[g]; ok {
			inter++
		}
	}
	if formula == GenreJaccard {
		return float64(inter) / float64(len(user)+len(book)-inter)
	}
	return float64(inter) / float64(len(user))
}

// score fills one record per book. A nil profileVec scores content as 0.
func (s *scorer) score(ctx context.Context, ix *Index, profileVec []float64) ([]ScoreRecord, error) {
	records := make([]ScoreRecord, ix.Len())
	w := s.profile.Weights
	th := s.profile.Thresholds
	reasons := s.profile.Reasons

	for i := range records {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		p := Position(i)
		rec := &records[i]

		rec.Author = s.authorScore(ix.NormalizedAuthors(p))
		rec.Genre = GenreScore(s.profile.GenreFormula, s.userGenres, ix.GenreSet(p))
		if profileVec != nil {
			rec.Content = profileVec[i]
		}
		rec.Total = rec.Author*w.Author + rec.Content*w.Content + rec.Genre*w.Genre

		switch {
		case rec.Author == 1:
			rec.Reason = strings.ReplaceAll(reasons.Author, PlaceholderAuthor, ix.Book(p).Authors)
		case rec.Genre >= th.GenreHigh && rec.Genre > 0:
			rec.Reason = reasons.Genre
		case profileVec != nil && rec.Content > th.ContentModerate:
			rec.Reason = reasons.Content
		case rec.Genre > 0:
			rec.Reason = reasons.Genre
		}
	}

	return records, nil
}
