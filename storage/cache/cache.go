package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/dumpsift/dumpsift/storage"
)

// Cache is a query-result cache backed by BadgerDB with per-entry TTL.
// Values are stored JSON-encoded; a missing or expired key is an
// absence, never an error.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ storage.Cache = (*Cache)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a cache at the given directory, creating it if needed.
// Pass inMemory to run without a directory (tests, ephemeral runs).
func Open(filePath string, inMemory bool) (*Cache, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	logger := slog.Default().With("component", "cache")
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Cache{db: db, logger: logger}, nil
}

// Ping verifies the cache answers a trivial read.
func (c *Cache) Ping(ctx context.Context) error {
	return c.db.View(func(tx *badger.Txn) error {
		_, err := tx.Get([]byte("cache!probe"))
		if err == badger.ErrKeyNotFound {
			return nil // reachable, key simply absent
		}
		return err
	})
}

// Close closes the cache. Safe to call on an already-closed cache.
func (c *Cache) Close() error {
	if c.db.IsClosed() {
		return nil
	}
	return c.db.Close()
}

// Set stores a JSON-serializable value under key with the given expiry.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %s: %w", key, err)
	}

	return c.db.Update(func(tx *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), encoded)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return tx.SetEntry(entry)
	})
}

// Get reads the value under key into dest. A miss (including an
// expired entry) returns false with a nil error.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	var found bool
	err := c.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, dest); err != nil {
				return fmt.Errorf("failed to decode cache value for %s: %w", key, err)
			}
			found = true
			return nil
		})
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Clear drops every cached entry.
func (c *Cache) Clear() error {
	return c.db.DropAll()
}
