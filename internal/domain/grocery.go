package domain

import (
	"slices"

	"github.com/grocerylistapp/grocerylist/internal/id"
)

// PricePlaceholder is the GoodPrice value meaning "no price noted yet".
const PricePlaceholder = "$"

// Category groups items under a collapsible heading.
// (UserID, Text) is unique among the owner's active categories.
type Category struct {
	UserID     string `json:"UserId" validate:"required"`
	CategoryID string `json:"CategoryId" validate:"required"`
	Text       string `json:"Text"`
	IsOpen     bool   `json:"IsOpen"`
}

// Key returns the UserId+CategoryId key items use to reference this category.
func (c Category) Key() string {
	return CategoryKey(c.UserID, c.CategoryID)
}

// Item is a purchasable entry inside a category.
// (UserIDCategoryID, Text) is unique among the category's active items.
type Item struct {
	UserIDCategoryID string `json:"UserIdCategoryId" validate:"required"`
	ItemID           string `json:"ItemId" validate:"required"`
	Text             string `json:"Text"`
	IsChecked        bool   `json:"IsChecked"`
	Quantity         int    `json:"Quantity" validate:"min=1"`
	QuantityUnit     string `json:"QuantityUnit"`
	GoodPrice        string `json:"GoodPrice"`
}

// CategoryID returns the id of the category owning the item.
func (i Item) CategoryID() string {
	return id.CategoryIDFromKey(i.UserIDCategoryID)
}

// CategoryKey builds the owner+category key stored on items.
func CategoryKey(userID, categoryID string) string {
	return userID + categoryID
}

// NewCategory returns a blank, open category owned by userID.
func NewCategory(userID, categoryID string) Category {
	return Category{
		UserID:     userID,
		CategoryID: categoryID,
		IsOpen:     true,
	}
}

// NewItem returns a blank, unchecked item with quantity 1 and no price noted.
func NewItem(categoryKey, itemID string) Item {
	return Item{
		UserIDCategoryID: categoryKey,
		ItemID:           itemID,
		Quantity:         MinQuantity,
		GoodPrice:        PricePlaceholder,
	}
}

// GroceryList is the aggregate document persisted as a single unit.
// Deleted* carry tombstones only on the wire during a push.
type GroceryList struct {
	Categories        []Category `json:"categories"`
	Items             []Item     `json:"items"`
	DeletedCategories []Category `json:"deletedCategories,omitempty"`
	DeletedItems      []Item     `json:"deletedItems,omitempty"`
}

// NewGroceryList returns an empty document.
func NewGroceryList() *GroceryList {
	return &GroceryList{
		Categories: []Category{},
		Items:      []Item{},
	}
}

// Normalize replaces nil active slices with empty ones so documents compare
// and serialise consistently.
func (g *GroceryList) Normalize() *GroceryList {
	if g.Categories == nil {
		g.Categories = []Category{}
	}
	if g.Items == nil {
		g.Items = []Item{}
	}
	return g
}

// Clone returns a deep copy of the document.
func (g *GroceryList) Clone() *GroceryList {
	return &GroceryList{
		Categories:        slices.Clone(g.Categories),
		Items:             slices.Clone(g.Items),
		DeletedCategories: slices.Clone(g.DeletedCategories),
		DeletedItems:      slices.Clone(g.DeletedItems),
	}
}

// CategoryIndex returns the position of the category with categoryID, or -1.
func (g *GroceryList) CategoryIndex(categoryID string) int {
	return slices.IndexFunc(g.Categories, func(c Category) bool {
		return c.CategoryID == categoryID
	})
}

// ItemIndex returns the position of the item with itemID, or -1.
func (g *GroceryList) ItemIndex(itemID string) int {
	return slices.IndexFunc(g.Items, func(i Item) bool {
		return i.ItemID == itemID
	})
}

// CategoryWithSameText returns another active category of the same owner whose
// text matches c's. Blank text never collides.
func (g *GroceryList) CategoryWithSameText(c Category) *Category {
	text := NormalizeText(c.Text)
	if text == "" {
		return nil
	}
	for i := range g.Categories {
		other := g.Categories[i]
		if other.CategoryID != c.CategoryID && other.UserID == c.UserID && NormalizeText(other.Text) == text {
			return &other
		}
	}
	return nil
}

// ItemWithSameText returns another active item of the same category whose
// text matches it's. Blank text never collides.
func (g *GroceryList) ItemWithSameText(it Item) *Item {
	text := NormalizeText(it.Text)
	if text == "" {
		return nil
	}
	for i := range g.Items {
		other := g.Items[i]
		if other.ItemID != it.ItemID && other.UserIDCategoryID == it.UserIDCategoryID && NormalizeText(other.Text) == text {
			return &other
		}
	}
	return nil
}

// ItemsForCategory returns the active items whose key equals categoryKey, in stored order.
func (g *GroceryList) ItemsForCategory(categoryKey string) []Item {
	items := []Item{}
	for _, it := range g.Items {
		if it.UserIDCategoryID == categoryKey {
			items = append(items, it)
		}
	}
	return items
}

// ItemsUnderCategory returns the active items belonging to categoryID regardless
// of owner prefix.
func (g *GroceryList) ItemsUnderCategory(categoryID string) []Item {
	items := []Item{}
	for _, it := range g.Items {
		if it.CategoryID() == categoryID {
			items = append(items, it)
		}
	}
	return items
}
