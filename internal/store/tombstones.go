package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/grocerylistapp/grocerylist/internal/domain"
)

// TombstoneKind selects one of the two tombstone lists.
type TombstoneKind int

// Tombstone lists.
const (
	TombstoneCategories TombstoneKind = iota
	TombstoneItems
)

// String returns a readable name for logs.
func (k TombstoneKind) String() string {
	if k == TombstoneItems {
		return "items"
	}
	return "categories"
}

func (k TombstoneKind) key() string {
	if k == TombstoneItems {
		return keyDeletedItems
	}
	return keyDeletedCategories
}

// ReadDeletedCategories returns the category tombstones, empty when none are stored.
func (s *Store) ReadDeletedCategories(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	if err := s.get(ctx, keyDeletedCategories, &out); err != nil {
		if errors.Is(err, errKeyNotFound) {
			return []domain.Category{}, nil
		}
		return nil, s.fail("read deleted categories", err)
	}
	return nonNil(out), nil
}

// ReadDeletedItems returns the item tombstones, empty when none are stored.
func (s *Store) ReadDeletedItems(ctx context.Context) ([]domain.Item, error) {
	out := []domain.Item{}
	if err := s.get(ctx, keyDeletedItems, &out); err != nil {
		if errors.Is(err, errKeyNotFound) {
			return []domain.Item{}, nil
		}
		return nil, s.fail("read deleted items", err)
	}
	return nonNil(out), nil
}

// WriteDeletedCategories replaces the category tombstone list.
func (s *Store) WriteDeletedCategories(ctx context.Context, categories []domain.Category) error {
	if err := s.apply(ctx, put(keyDeletedCategories, nonNil(categories))); err != nil {
		return s.fail("write deleted categories", err)
	}
	return nil
}

// WriteDeletedItems replaces the item tombstone list.
func (s *Store) WriteDeletedItems(ctx context.Context, items []domain.Item) error {
	if err := s.apply(ctx, put(keyDeletedItems, nonNil(items))); err != nil {
		return s.fail("write deleted items", err)
	}
	return nil
}

// ClearTombstones drops one tombstone list.
func (s *Store) ClearTombstones(ctx context.Context, kind TombstoneKind) error {
	if err := s.apply(ctx, remove(kind.key())); err != nil {
		return s.fail(fmt.Sprintf("clear deleted %s", kind), err)
	}
	return nil
}

// CountTombstones returns how many entries the given list holds.
func (s *Store) CountTombstones(ctx context.Context, kind TombstoneKind) (int, error) {
	if kind == TombstoneItems {
		items, err := s.ReadDeletedItems(ctx)
		return len(items), err
	}
	categories, err := s.ReadDeletedCategories(ctx)
	return len(categories), err
}
