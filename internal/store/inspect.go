package store

import (
	"context"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Entry describes one stored key.
type Entry struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// Entries lists every key the application owns, in key order, with the size
// of its value. Values are not read.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			out = append(out, Entry{
				Key:  strings.TrimPrefix(string(item.Key()), keyPrefix),
				Size: item.ValueSize(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("list entries", err)
	}
	return out, nil
}
