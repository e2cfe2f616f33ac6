package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() *GroceryList {
	doc := NewGroceryList()
	doc.Categories = []Category{
		{UserID: "u1", CategoryID: "c2", Text: "FRUIT", IsOpen: true},
		{UserID: "u1", CategoryID: "c1", Text: "DAIRY", IsOpen: false},
		{UserID: "u2", CategoryID: "c3", Text: "DAIRY", IsOpen: true},
	}
	doc.Items = []Item{
		{UserIDCategoryID: "u1c1", ItemID: "i1", Text: "MILK", Quantity: 1, GoodPrice: PricePlaceholder},
		{UserIDCategoryID: "u1c1", ItemID: "i2", Text: "CHEESE", Quantity: 2, IsChecked: true},
		{UserIDCategoryID: "u1c2", ItemID: "i3", Text: "MILK", Quantity: 1},
	}
	return doc
}

func TestCategoryWithSameText(t *testing.T) {
	doc := testDocument()

	tests := []struct {
		name     string
		category Category
		wantID   string
	}{
		{"same owner same text", Category{UserID: "u1", CategoryID: "new", Text: "DAIRY"}, "c1"},
		{"case and space insensitive", Category{UserID: "u1", CategoryID: "new", Text: "  dairy "}, "c1"},
		{"own id excluded", Category{UserID: "u1", CategoryID: "c1", Text: "DAIRY"}, ""},
		{"other owner", Category{UserID: "u3", CategoryID: "new", Text: "DAIRY"}, ""},
		{"blank never collides", Category{UserID: "u1", CategoryID: "new", Text: ""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := doc.CategoryWithSameText(tt.category)
			if tt.wantID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.CategoryID)
		})
	}
}

func TestItemWithSameText(t *testing.T) {
	doc := testDocument()

	got := doc.ItemWithSameText(Item{UserIDCategoryID: "u1c1", ItemID: "new", Text: "milk"})
	require.NotNil(t, got)
	assert.Equal(t, "i1", got.ItemID)

	// Same text in another category is fine.
	assert.Nil(t, doc.ItemWithSameText(Item{UserIDCategoryID: "u1c3", ItemID: "new", Text: "MILK"}))
	// The candidate's own id is excluded.
	assert.Nil(t, doc.ItemWithSameText(Item{UserIDCategoryID: "u1c1", ItemID: "i1", Text: "MILK"}))
}

func TestItemsForCategory(t *testing.T) {
	doc := testDocument()

	items := doc.ItemsForCategory("u1c1")
	require.Len(t, items, 2)
	assert.Equal(t, "i1", items[0].ItemID)
	assert.Equal(t, "i2", items[1].ItemID)

	assert.Empty(t, doc.ItemsForCategory("missing"))
	assert.NotNil(t, doc.ItemsForCategory("missing"))
}

func TestClone_IsIndependent(t *testing.T) {
	doc := testDocument()
	clone := doc.Clone()

	clone.Categories[0].Text = "CHANGED"
	clone.Items = append(clone.Items, Item{ItemID: "i9"})

	assert.Equal(t, "FRUIT", doc.Categories[0].Text)
	assert.Len(t, doc.Items, 3)
}

func TestNormalize_FillsNilSlices(t *testing.T) {
	doc := (&GroceryList{}).Normalize()

	assert.NotNil(t, doc.Categories)
	assert.NotNil(t, doc.Items)
	assert.Nil(t, doc.DeletedCategories)
}

func TestNewItem_Defaults(t *testing.T) {
	it := NewItem(CategoryKey("u1", "c1"), "i1")

	assert.Equal(t, "u1c1", it.UserIDCategoryID)
	assert.Equal(t, MinQuantity, it.Quantity)
	assert.Equal(t, PricePlaceholder, it.GoodPrice)
	assert.False(t, it.IsChecked)
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "MILK", NormalizeText("  milk\t"))
	assert.Equal(t, "PÃO DE LÓ", NormalizeText("pão de ló"))
	assert.Equal(t, "", NormalizeText("   "))
}
