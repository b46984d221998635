// Package cache stores catalog detail records in Badger so repeat lookups of
// the same work skip the network.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/mediadiet/mediadiet/internal/catalog"
)

// DefaultTTL is how long a detail record is served from cache.
const DefaultTTL = 24 * time.Hour

// Store wraps a Badger database holding cached detail records.
type Store struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// Open opens (or creates) a cache at path. An empty path opens an in-memory
// cache.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog cache: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{db: db, ttl: ttl, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// get decodes the value at key into dest. It reports false on a miss.
func (s *Store) get(key string, dest any) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// set stores value at key with the store's TTL.
func (s *Store) set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), data).WithTTL(s.ttl))
	})
}

// through returns the cached value at key or loads, stores and returns it.
// Cache failures are logged and bypassed.
func through[T any](ctx context.Context, s *Store, key string, load func(context.Context) (*T, error)) (*T, error) {
	var cached T
	hit, err := s.get(key, &cached)
	if err != nil {
		s.logger.Warn("catalog cache read failed", "key", key, "error", err)
	}
	if hit {
		return &cached, nil
	}

	return reload(ctx, s, key, load)
}

// reload loads a fresh value and overwrites whatever is stored at key.
func reload[T any](ctx context.Context, s *Store, key string, load func(context.Context) (*T, error)) (*T, error) {
	v, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.set(key, v); err != nil {
		s.logger.Warn("catalog cache write failed", "key", key, "error", err)
	}
	return v, nil
}

// Movies caches GetMovie; searches pass through.
type Movies struct {
	catalog.MovieCatalog
	store *Store
}

// GetMovie implements catalog.MovieCatalog.
func (m *Movies) GetMovie(ctx context.Context, id string) (*catalog.MovieDetail, error) {
	return through(ctx, m.store, "movie:"+id, func(ctx context.Context) (*catalog.MovieDetail, error) {
		return m.MovieCatalog.GetMovie(ctx, id)
	})
}

// Shows caches GetShow; searches pass through.
type Shows struct {
	catalog.ShowCatalog
	store *Store
}

// GetShow implements catalog.ShowCatalog.
func (c *Shows) GetShow(ctx context.Context, id string) (*catalog.ShowDetail, error) {
	return through(ctx, c.store, "show:"+id, func(ctx context.Context) (*catalog.ShowDetail, error) {
		return c.ShowCatalog.GetShow(ctx, id)
	})
}

// RefreshShow implements catalog.ShowRefresher. Seasons are added upstream
// over time, so a cached season list can be missing one.
func (c *Shows) RefreshShow(ctx context.Context, id string) (*catalog.ShowDetail, error) {
	return reload(ctx, c.store, "show:"+id, func(ctx context.Context) (*catalog.ShowDetail, error) {
		return c.ShowCatalog.GetShow(ctx, id)
	})
}

// Books caches GetBook; searches pass through.
type Books struct {
	catalog.BookCatalog
	store *Store
}

// GetBook implements catalog.BookCatalog.
func (b *Books) GetBook(ctx context.Context, id string) (*catalog.BookDetail, error) {
	return through(ctx, b.store, "book:"+id, func(ctx context.Context) (*catalog.BookDetail, error) {
		return b.BookCatalog.GetBook(ctx, id)
	})
}

// Wrap returns catalogs whose detail lookups go through s.
func (s *Store) Wrap(c catalog.Catalogs) catalog.Catalogs {
	return catalog.Catalogs{
		Movies: &Movies{MovieCatalog: c.Movies, store: s},
		Shows:  &Shows{ShowCatalog: c.Shows, store: s},
		Books:  &Books{BookCatalog: c.Books, store: s},
	}
}
