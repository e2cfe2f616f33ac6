package store

import (
	"context"
	"errors"

	"github.com/grocerylistapp/grocerylist/internal/domain"
)

// ReadDocument loads the grocery list.
// Returns ErrDocumentNotFound when nothing has been written yet.
func (s *Store) ReadDocument(ctx context.Context) (*domain.GroceryList, error) {
	var doc domain.GroceryList
	if err := s.get(ctx, keyDocument, &doc); err != nil {
		if errors.Is(err, errKeyNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, s.fail("read document", err)
	}
	return doc.Normalize(), nil
}

// WriteDocument replaces the grocery list. Tombstones embedded in doc are not
// persisted with it; they live under their own keys.
func (s *Store) WriteDocument(ctx context.Context, doc *domain.GroceryList) error {
	if err := s.apply(ctx, put(keyDocument, activeOnly(doc))); err != nil {
		return s.fail("write document", err)
	}
	return nil
}

// CommitDeletion writes the document together with both tombstone lists in
// one transaction, so a delete never lands without its tombstone.
func (s *Store) CommitDeletion(ctx context.Context, doc *domain.GroceryList, deletedCategories []domain.Category, deletedItems []domain.Item) error {
	err := s.apply(ctx,
		put(keyDocument, activeOnly(doc)),
		put(keyDeletedCategories, nonNil(deletedCategories)),
		put(keyDeletedItems, nonNil(deletedItems)),
	)
	if err != nil {
		return s.fail("commit deletion", err)
	}
	return nil
}

// CommitSync adopts the server's document and clears both tombstone lists in
// one transaction.
func (s *Store) CommitSync(ctx context.Context, doc *domain.GroceryList) error {
	err := s.apply(ctx,
		put(keyDocument, activeOnly(doc)),
		remove(keyDeletedCategories),
		remove(keyDeletedItems),
	)
	if err != nil {
		return s.fail("commit sync", err)
	}
	return nil
}

// activeOnly strips wire-only tombstones from a document before persisting it.
func activeOnly(doc *domain.GroceryList) *domain.GroceryList {
	out := doc.Clone().Normalize()
	out.DeletedCategories = nil
	out.DeletedItems = nil
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
