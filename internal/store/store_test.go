package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/grocerylistapp/grocerylist/internal/domain"
	"github.com/grocerylistapp/grocerylist/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "grocerylist-store-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "data"), nil)
	require.NoError(t, err)

	cleanup := func() {
		s.Close()
		os.RemoveAll(tmpDir)
	}
	return s, cleanup
}

func sampleDocument() *domain.GroceryList {
	doc := domain.NewGroceryList()
	doc.Categories = []domain.Category{
		{UserID: "u1", CategoryID: "c2", Text: "FRUIT", IsOpen: true},
		{UserID: "u1", CategoryID: "c1", Text: "DAIRY"},
	}
	doc.Items = []domain.Item{
		{UserIDCategoryID: "u1c1", ItemID: "i1", Text: "MILK", Quantity: 2, QuantityUnit: "L", GoodPrice: "1.20"},
		{UserIDCategoryID: "u1c2", ItemID: "i2", Text: "APPLE", Quantity: 6, IsChecked: true, GoodPrice: domain.PricePlaceholder},
	}
	return doc
}

func TestDocument_RoundTrip(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := sampleDocument()
	require.NoError(t, s.WriteDocument(ctx, doc))

	got, err := s.ReadDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestDocument_RoundTripEmpty(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.WriteDocument(ctx, domain.NewGroceryList()))

	got, err := s.ReadDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.NewGroceryList(), got)
}

func TestDocument_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.ReadDocument(context.Background())
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestDocument_WriteStripsTombstones(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := sampleDocument()
	doc.DeletedCategories = []domain.Category{{UserID: "u1", CategoryID: "c9"}}
	require.NoError(t, s.WriteDocument(ctx, doc))

	got, err := s.ReadDocument(ctx)
	require.NoError(t, err)
	assert.Nil(t, got.DeletedCategories)
	// The caller's document is not modified.
	assert.Len(t, doc.DeletedCategories, 1)
}

func TestTombstones_DefaultEmpty(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	categories, err := s.ReadDeletedCategories(ctx)
	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)

	items, err := s.ReadDeletedItems(ctx)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestTombstones_WriteAndClear(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	deleted := []domain.Category{{UserID: "u1", CategoryID: "c1", Text: "DAIRY"}}
	require.NoError(t, s.WriteDeletedCategories(ctx, deleted))
	require.NoError(t, s.WriteDeletedItems(ctx, []domain.Item{{ItemID: "i1", Quantity: 1}}))

	got, err := s.ReadDeletedCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, deleted, got)

	require.NoError(t, s.ClearTombstones(ctx, store.TombstoneCategories))

	n, err := s.CountTombstones(ctx, store.TombstoneCategories)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// The other list is untouched.
	n, err = s.CountTombstones(ctx, store.TombstoneItems)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCommitDeletion_WritesAllKeys(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := sampleDocument()
	removed := doc.Categories[1]
	doc.Categories = doc.Categories[:1]

	require.NoError(t, s.CommitDeletion(ctx, doc, []domain.Category{removed}, nil))

	got, err := s.ReadDocument(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Categories, 1)

	categories, err := s.ReadDeletedCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{removed}, categories)

	items, err := s.ReadDeletedItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCommitSync_ReplacesDocumentAndClearsTombstones(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.WriteDocument(ctx, sampleDocument()))
	require.NoError(t, s.WriteDeletedCategories(ctx, []domain.Category{{CategoryID: "c9"}}))
	require.NoError(t, s.WriteDeletedItems(ctx, []domain.Item{{ItemID: "i9", Quantity: 1}}))

	server := domain.NewGroceryList()
	server.Categories = []domain.Category{{UserID: "u1", CategoryID: "c7", Text: "BAKERY", IsOpen: true}}
	require.NoError(t, s.CommitSync(ctx, server))

	got, err := s.ReadDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, server, got)

	n, err := s.CountTombstones(ctx, store.TombstoneCategories)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = s.CountTombstones(ctx, store.TombstoneItems)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestContextCanceled(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.WriteDocument(ctx, sampleDocument())
	assert.Error(t, err)

	_, err = s.ReadDocument(context.Background())
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestInMemoryStore(t *testing.T) {
	s, err := store.New("", nil)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.WriteDocument(ctx, sampleDocument()))

	got, err := s.ReadDocument(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
}
