// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

// Key prefixes for BadgerDB storage
const (
	prefsKeyPrefix  = "prefs:"
	searchKeyPrefix = "search:"
)

// BadgerConfig configures the embedded store.
type BadgerConfig struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string

	InMemory   bool
	SyncWrites bool
}

// BadgerStore implements Store on BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	seq    atomic.Uint64
	logger zerolog.Logger
}

// searchEntry is the stored value of one search.
type searchEntry struct {
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

// OpenBadger opens (or creates) the store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func OpenBadger(cfg BadgerConfig, logger zerolog.Logger) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("badger path is required")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.SyncWrites = cfg.SyncWrites

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	store := &BadgerStore{
		db:     db,
		logger: logger.With().Str("component", "store").Str("backend", BackendBadger).Logger(),
	}
	store.logger.Info().Str("path", cfg.Path).Bool("in_memory", cfg.InMemory).Msg("Opened Badger store")
	return store, nil
}

// Backend implements Store.
func (s *BadgerStore) Backend() string {
	return BackendBadger
}

func prefsKey(userID int) []byte {
	return []byte(fmt.Sprintf("%s%d", prefsKeyPrefix, userID))
}

func searchPrefix(userID int) []byte {
	return []byte(fmt.Sprintf("%s%d:", searchKeyPrefix, userID))
}

// GetPreferences implements Store.
func (s *BadgerStore) GetPreferences(ctx context.Context, userID int) (prefs *recommend.Preferences, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery(BackendBadger, "get_preferences", time.Since(start), ignoreNotFound(err))
	}()

	if err := checkUser(userID); err != nil {
		return nil, err
	}

	var p recommend.Preferences
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(prefsKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get preferences: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePreferences implements Store with upsert semantics.
func (s *BadgerStore) SavePreferences(ctx context.Context, prefs *recommend.Preferences) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(BackendBadger, "save_preferences", time.Since(start), err) }()

	if err := checkUser(prefs.UserID); err != nil {
		return err
	}

	p := normalizePreferences(prefs)
	p.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(&p)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(prefsKey(p.UserID), data)
	})
}

// LogSearch implements Store.
func (s *BadgerStore) LogSearch(ctx context.Context, userID int, query string) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(BackendBadger, "log_search", time.Since(start), err) }()

	if err := checkUser(userID); err != nil {
		return err
	}
	query, err = cleanQuery(query)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	data, err := json.Marshal(searchEntry{Query: query, Timestamp: now})
	if err != nil {
		return fmt.Errorf("marshal search: %w", err)
	}

	// Zero-padded so that keys sort chronologically
	key := fmt.Sprintf("%s%020d:%020d", searchPrefix(userID), now.UnixNano(), s.seq.Add(1))
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// GetRecentSearches implements Store.
func (s *BadgerStore) GetRecentSearches(ctx context.Context, userID int, limit int) (queries []string, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(BackendBadger, "recent_searches", time.Since(start), err) }()

	if err := checkUser(userID); err != nil {
		return nil, err
	}
	queries = []string{}
	if limit <= 0 {
		return queries, nil
	}

	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := searchPrefix(userID)
		seekKey := append(append([]byte{}, prefix...), 0xFF)
		seen := make(map[string]struct{}, limit)

		for it.Seek(seekKey); it.ValidForPrefix(prefix) && len(queries) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var entry searchEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				return fmt.Errorf("decode search: %w", err)
			}
			if !keepSearch(entry.Query) {
				continue
			}
			if _, ok := seen[entry.Query]; ok {
				continue
			}
			seen[entry.Query] = struct{}{}
			queries = append(queries, entry.Query)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return queries, nil
}

// Ping implements Store.
func (s *BadgerStore) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger store is closed")
	}
	return nil
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

var _ Store = (*BadgerStore)(nil)
