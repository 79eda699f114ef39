// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package reranking

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		lambdas []float64
		want    int
	}{
		{"all disabled", []float64{0, 0}, 0},
		{"one enabled", []float64{0, 0.5}, 1},
		{"bounds excluded", []float64{0, 1}, 0},
		{"every profile", []float64{0.3, 0.7}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			profiles := make(map[string]*recommend.Profile, len(tt.lambdas))
			names := []string{recommend.ProfileDefault, "diverse"}
			for i, lambda := range tt.lambdas {
				p := recommend.DefaultProfile()
				p.Diversity.SimilarityLambda = lambda
				profiles[names[i]] = p
			}

			engines, err := recommend.NewEngines(profiles, recommend.ProfileDefault, zerolog.Nop())
			if err != nil {
				t.Fatalf("NewEngines() error = %v", err)
			}
			if got := Register(engines); got != tt.want {
				t.Errorf("Register() = %d, want %d", got, tt.want)
			}
		})
	}
}
