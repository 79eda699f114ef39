// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

//go:build integration

package database

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/testinfra"
)

func TestMySQLStore_Integration(t *testing.T) {
	container := testinfra.StartMySQL(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := OpenMySQL(ctx, MySQLConfig{DSN: container.DSN, AutoMigrate: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenMySQL() error = %v", err)
	}
	defer store.Close()

	t.Run("preferences upsert", func(t *testing.T) {
		if _, err := store.GetPreferences(ctx, 42); !errors.Is(err, ErrNotFound) {
			t.Fatalf("GetPreferences() error = %v, want ErrNotFound", err)
		}

		prefs := &recommend.Preferences{
			UserID:  42,
			Books:   []recommend.ItemRef{"101", "The Hobbit"},
			Authors: recommend.Terms{"J.R.R. Tolkien"},
			Genres:  recommend.Terms{"Fantasy", "Adventure"},
		}
		if err := store.SavePreferences(ctx, prefs); err != nil {
			t.Fatalf("SavePreferences() error = %v", err)
		}
		prefs.Genres = recommend.Terms{"Classics"}
		if err := store.SavePreferences(ctx, prefs); err != nil {
			t.Fatalf("SavePreferences() second error = %v", err)
		}

		got, err := store.GetPreferences(ctx, 42)
		if err != nil {
			t.Fatalf("GetPreferences() error = %v", err)
		}
		if !reflect.DeepEqual(got.Books, prefs.Books) || !reflect.DeepEqual(got.Genres, prefs.Genres) {
			t.Errorf("GetPreferences() = %+v, want %+v", got, prefs)
		}
	})

	t.Run("numeric book ids in stored json", func(t *testing.T) {
		_, err := store.db.ExecContext(ctx,
			`INSERT INTO MPC (user_id, preferred_books, preferred_authors, preferred_genres) VALUES (?, ?, ?, ?)`,
			43, `[101, "Dune"]`, `{"not": "a list"}`, nil)
		if err != nil {
			t.Fatalf("seed error = %v", err)
		}
		got, err := store.GetPreferences(ctx, 43)
		if err != nil {
			t.Fatalf("GetPreferences() error = %v", err)
		}
		if !reflect.DeepEqual(got.Books, []recommend.ItemRef{"101", "Dune"}) {
			t.Errorf("Books = %v", got.Books)
		}
		if len(got.Authors) != 0 {
			t.Errorf("malformed authors should decode empty, got %v", got.Authors)
		}
	})

	t.Run("recent searches", func(t *testing.T) {
		for _, q := range []string{"dune", "ab", "hobbit", "dune", "emma"} {
			if err := store.LogSearch(ctx, 42, q); err != nil {
				t.Fatalf("LogSearch(%q) error = %v", q, err)
			}
		}
		got, err := store.GetRecentSearches(ctx, 42, 10)
		if err != nil {
			t.Fatalf("GetRecentSearches() error = %v", err)
		}
		want := []string{"emma", "dune", "hobbit"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("GetRecentSearches() = %v, want %v", got, want)
		}
	})
}
