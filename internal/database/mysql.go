// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

// MySQLConfig configures the MySQL connection pool.
type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// AutoMigrate creates the tables when they are missing.
	AutoMigrate bool
}

// MySQLStore implements Store on MySQL.
type MySQLStore struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS MPC (
user_id INT NOT NULL PRIMARY KEY,
preferred_books JSON NULL,
preferred_authors JSON NULL,
preferred_genres JSON NULL)`,

	`CREATE TABLE IF NOT EXISTS search_logs (
id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
user_id INT NOT NULL,
search_query VARCHAR(255) NOT NULL,
search_timestamp TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
INDEX search_logs_user_ts (user_id, search_timestamp))`,
}

// OpenMySQL connects to MySQL and verifies the connection.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func OpenMySQL(ctx context.Context, cfg MySQLConfig, logger zerolog.Logger) (*MySQLStore, error) {
	dsn, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	// JSON columns and timestamps need parsed times
	dsn.ParseTime = true

	db, err := sqlx.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 20
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 5
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach mysql: %w", err)
	}

	store := &MySQLStore{
		db:     db,
		logger: logger.With().Str("component", "store").Str("backend", BackendMySQL).Logger(),
	}

	if cfg.AutoMigrate {
		if err := store.migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	store.logger.Info().Str("addr", dsn.Addr).Str("database", dsn.DBName).Msg("Connected to MySQL")
	return store, nil
}

func (s *MySQLStore) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Backend implements Store.
func (s *MySQLStore) Backend() string {
	return BackendMySQL
}

type preferencesRow struct {
	Books   sql.NullString `db:"preferred_books"`
	Authors sql.NullString `db:"preferred_authors"`
	Genres  sql.NullString `db:"preferred_genres"`
}

// GetPreferences implements Store.
func (s *MySQLStore) GetPreferences(ctx context.Context, userID int) (prefs *recommend.Preferences, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(BackendMySQL, "get_preferences", time.Since(start), ignoreNotFound(err)) }()

	if err := checkUser(userID); err != nil {
		return nil, err
	}

	var row preferencesRow
	err = s.db.GetContext(ctx, &row,
		`SELECT preferred_books, preferred_authors, preferred_genres FROM MPC WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}

	prefs = &recommend.Preferences{UserID: userID}
	s.decodeColumn(userID, "preferred_books", row.Books, &prefs.Books)
	s.decodeColumn(userID, "preferred_authors", row.Authors, &prefs.Authors)
	s.decodeColumn(userID, "preferred_genres", row.Genres, &prefs.Genres)
	return prefs, nil
}

// decodeColumn decodes a JSON array column. Malformed values are logged
// and treated as empty.
func (s *MySQLStore) decodeColumn(userID int, column string, value sql.NullString, dst any) {
	if !value.Valid || value.String == "" {
		return
	}
	if err := json.Unmarshal([]byte(value.String), dst); err != nil {
		s.logger.Warn().Err(err).Int("user_id", userID).Str("column", column).Msg("Ignoring malformed preference column")
	}
}

// SavePreferences implements Store with upsert semantics.
func (s *MySQLStore) SavePreferences(ctx context.Context, prefs *recommend.Preferences) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(BackendMySQL, "save_preferences", time.Since(start), err) }()

	if err := checkUser(prefs.UserID); err != nil {
		return err
	}

	p := normalizePreferences(prefs)
	books, err := json.Marshal(p.Books)
	if err != nil {
		return fmt.Errorf("marshal books: %w", err)
	}
	authors, err := json.Marshal(p.Authors)
	if err != nil {
		return fmt.Errorf("marshal authors: %w", err)
	}
	genres, err := json.Marshal(p.Genres)
	if err != nil {
		return fmt.Errorf("marshal genres: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO MPC (user_id, preferred_authors, preferred_genres, preferred_books)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		preferred_authors = VALUES(preferred_authors),
		preferred_genres = VALUES(preferred_genres),
		preferred_books = VALUES(preferred_books)`,
		p.UserID, string(authors), string(genres), string(books))
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// LogSearch implements Store.
func (s *MySQLStore) LogSearch(ctx context.Context, userID int, query string) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(BackendMySQL, "log_search", time.Since(start), err) }()

	if err := checkUser(userID); err != nil {
		return err
	}
	query, err = cleanQuery(query)
	if err != nil {
		return err
	}

	if _, err = s.db.ExecContext(ctx,
		`INSERT INTO search_logs (user_id, search_query) VALUES (?, ?)`, userID, query); err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// GetRecentSearches implements Store.
func (s *MySQLStore) GetRecentSearches(ctx context.Context, userID int, limit int) (queries []string, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(BackendMySQL, "recent_searches", time.Since(start), err) }()

	if err := checkUser(userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []string{}, nil
	}

	err = s.db.SelectContext(ctx, &queries, `
		SELECT search_query
		FROM search_logs
		WHERE user_id = ? AND CHAR_LENGTH(TRIM(search_query)) >= ?
		GROUP BY search_query
		ORDER BY MAX(search_timestamp) DESC, MAX(id) DESC
		LIMIT ?`, userID, minSearchLength, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent searches: %w", err)
	}
	if queries == nil {
		queries = []string{}
	}
	return queries, nil
}

// Ping implements Store.
func (s *MySQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close implements Store.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

var _ Store = (*MySQLStore)(nil)
