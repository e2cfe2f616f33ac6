// Package store persists the grocery list, its tombstones, and the session state
// in a Badger key-value database. Every value is a JSON document under a
// namespaced key; there is no row-level persistence.
package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	domainerrors "github.com/grocerylistapp/grocerylist/internal/errors"
)

// errKeyNotFound is returned by get when the key is absent.
// Public read methods translate it into their own NotFound sentinel or default.
var errKeyNotFound = errors.New("key not found")

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// New opens (or creates) the database at path.
// An empty path opens an in-memory database that is lost on Close.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else {
		opts.SyncWrites = true       // The list is small; durability matters more than throughput.
		opts.CompactL0OnClose = true // Faster startup on the next open.
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Info("Badger database opened successfully", "path", path, "in_memory", path == "")

	return &Store{db: db, logger: logger}, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	s.logger.Info("Closing database connection")
	return s.db.Close()
}

// Ping verifies the database can serve a read transaction.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(_ *badger.Txn) error { return nil })
}

// get loads the JSON value stored at key into dest.
func (s *Store) get(ctx context.Context, key string, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errKeyNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, dest); err != nil {
				return fmt.Errorf("failed to unmarshal %s: %w", key, err)
			}
			return nil
		})
	})
}

// getRaw loads the raw bytes stored at key.
func (s *Store) getRaw(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errKeyNotFound
		}
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	return out, err
}

// mutation is one key write (or delete, when value is nil) inside a batch.
type mutation struct {
	key   string
	value any
	raw   []byte
}

func put(key string, value any) mutation { return mutation{key: key, value: value} }
func putRaw(key string, raw []byte) mutation {
	return mutation{key: key, raw: raw}
}
func remove(key string) mutation { return mutation{key: key} }

// apply commits all mutations in a single transaction: either every key
// changes or none does.
func (s *Store) apply(ctx context.Context, muts ...mutation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded := make([][]byte, len(muts))
	for i, m := range muts {
		switch {
		case m.raw != nil:
			encoded[i] = m.raw
		case m.value != nil:
			data, err := json.Marshal(m.value)
			if err != nil {
				return fmt.Errorf("failed to marshal %s: %w", m.key, err)
			}
			encoded[i] = data
		}
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for i, m := range muts {
			if encoded[i] == nil {
				if err := txn.Delete([]byte(m.key)); err != nil {
					return fmt.Errorf("failed to delete %s: %w", m.key, err)
				}
				continue
			}
			if err := txn.Set([]byte(m.key), encoded[i]); err != nil {
				return fmt.Errorf("failed to set %s: %w", m.key, err)
			}
		}
		return nil
	})
}

// fail logs a storage failure and wraps it as a storage error.
func (s *Store) fail(op string, err error) error {
	s.logger.Error("Storage operation failed", "op", op, "error", err)
	return domainerrors.Storage(err, op)
}
