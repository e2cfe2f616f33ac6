package service

import (
	"context"

	"github.com/grocerylistapp/grocerylist/internal/domain"
	domainerrors "github.com/grocerylistapp/grocerylist/internal/errors"
)

// AddedCategory is the result of AddCategory.
type AddedCategory struct {
	Category domain.Category `json:"category"`
	Item     *domain.Item    `json:"item,omitempty"`
}

// AddCategory creates a blank open category for userID. When the preferences
// ask for it, a blank item is created inside it in the same write.
func (s *ListService) AddCategory(ctx context.Context, userID string, prefs domain.UserPrefs) (*AddedCategory, error) {
	return s.CreateCategory(ctx, userID, "", prefs)
}

// CreateCategory is AddCategory with an initial text, which is normalised and
// held to the uniqueness rule.
func (s *ListService) CreateCategory(ctx context.Context, userID, text string, prefs domain.UserPrefs) (*AddedCategory, error) {
	categoryID, err := newID()
	if err != nil {
		return nil, err
	}
	out := &AddedCategory{Category: domain.NewCategory(userID, categoryID)}
	out.Category.Text = domain.NormalizeText(text)

	if prefs.ShouldCreateNewItemWhenCreateNewCategory {
		itemID, err := newID()
		if err != nil {
			return nil, err
		}
		item := domain.NewItem(out.Category.Key(), itemID)
		out.Item = &item
	}

	if err := s.validator.Validate(out.Category); err != nil {
		return nil, err
	}

	err = s.mutate(ctx, "add category", func(doc *domain.GroceryList) error {
		if err := s.insertCategory(doc, out.Category); err != nil {
			return err
		}
		if out.Item != nil {
			return s.insertItem(doc, *out.Item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddItem creates a blank item at the end of the category's items.
func (s *ListService) AddItem(ctx context.Context, categoryID string) (*domain.Item, error) {
	itemID, err := newID()
	if err != nil {
		return nil, err
	}

	var item domain.Item
	err = s.mutate(ctx, "add item", func(doc *domain.GroceryList) error {
		idx := doc.CategoryIndex(categoryID)
		if idx < 0 {
			return domainerrors.NotFoundf("category %s not found", categoryID)
		}
		item = domain.NewItem(doc.Categories[idx].Key(), itemID)
		return s.insertItem(doc, item)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ToggleCategoryOpen flips whether the category is expanded.
func (s *ListService) ToggleCategoryOpen(ctx context.Context, categoryID string) (*domain.Category, error) {
	var out domain.Category
	err := s.mutate(ctx, "toggle category", func(doc *domain.GroceryList) error {
		idx := doc.CategoryIndex(categoryID)
		if idx < 0 {
			return domainerrors.NotFoundf("category %s not found", categoryID)
		}
		doc.Categories[idx].IsOpen = !doc.Categories[idx].IsOpen
		out = doc.Categories[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetAllCategoriesOpen expands or collapses every category.
func (s *ListService) SetAllCategoriesOpen(ctx context.Context, open bool) error {
	return s.mutate(ctx, "set all categories open", func(doc *domain.GroceryList) error {
		for i := range doc.Categories {
			doc.Categories[i].IsOpen = open
		}
		return nil
	})
}

// ToggleItemChecked flips the item's checked state.
func (s *ListService) ToggleItemChecked(ctx context.Context, itemID string) (*domain.Item, error) {
	var out domain.Item
	err := s.mutate(ctx, "toggle item", func(doc *domain.GroceryList) error {
		idx := doc.ItemIndex(itemID)
		if idx < 0 {
			return domainerrors.NotFoundf("item %s not found", itemID)
		}
		doc.Items[idx].IsChecked = !doc.Items[idx].IsChecked
		out = doc.Items[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeQuantity applies raw user input to the item's quantity.
// Input that is not a number of at least 1 stores 1 and returns a notice.
func (s *ListService) ChangeQuantity(ctx context.Context, itemID, raw string) (domain.QuantityChange, error) {
	change := domain.ParseQuantity(raw)
	err := s.mutate(ctx, "change quantity", func(doc *domain.GroceryList) error {
		idx := doc.ItemIndex(itemID)
		if idx < 0 {
			return domainerrors.NotFoundf("item %s not found", itemID)
		}
		doc.Items[idx].Quantity = change.Quantity
		return nil
	})
	if err != nil {
		return domain.QuantityChange{}, err
	}
	return change, nil
}

// CategoryView is a category with the items the current filter shows.
type CategoryView struct {
	Category domain.Category `json:"category"`
	Items    []domain.Item   `json:"items"`
}

// ListView is the filtered projection UI shells render.
type ListView struct {
	Shown       string         `json:"shown"`
	Categories  []CategoryView `json:"categories"`
	EmptyPhrase string         `json:"empty_phrase,omitempty"`
}

// View projects the document through the display filter. The stored document
// is not modified.
func (s *ListService) View(ctx context.Context, shown domain.ItemsShown) (*ListView, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	view := &ListView{
		Shown:      shown.String(),
		Categories: make([]CategoryView, 0, len(doc.Categories)),
	}
	visible := 0
	for _, c := range doc.Categories {
		items := shown.Filter(doc.ItemsForCategory(c.Key()))
		visible += len(items)
		view.Categories = append(view.Categories, CategoryView{Category: c, Items: items})
	}
	if visible == 0 {
		view.EmptyPhrase = shown.EmptyPhrase()
	}
	return view, nil
}

// CategoryPatch lists the category fields to change. Nil fields are kept.
type CategoryPatch struct {
	Text   *string
	IsOpen *bool
}

// PatchCategory changes selected fields of a stored category, applying the
// same uniqueness rule as UpdateCategory.
func (s *ListService) PatchCategory(ctx context.Context, categoryID string, patch CategoryPatch) (*domain.Category, error) {
	var out domain.Category
	err := s.mutate(ctx, "patch category", func(doc *domain.GroceryList) error {
		idx := doc.CategoryIndex(categoryID)
		if idx < 0 {
			return domainerrors.NotFoundf("category %s not found", categoryID)
		}
		out = doc.Categories[idx]
		if patch.Text != nil {
			out.Text = domain.NormalizeText(*patch.Text)
		}
		if patch.IsOpen != nil {
			out.IsOpen = *patch.IsOpen
		}
		return s.replaceCategory(doc, out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ItemPatch lists the item fields to change. Nil fields are kept.
type ItemPatch struct {
	Text         *string
	IsChecked    *bool
	Quantity     *int
	QuantityUnit *string
	GoodPrice    *string
}

// PatchItem changes selected fields of a stored item, applying the same
// uniqueness and quantity rules as UpdateItem.
func (s *ListService) PatchItem(ctx context.Context, itemID string, patch ItemPatch) (*domain.Item, error) {
	var out domain.Item
	err := s.mutate(ctx, "patch item", func(doc *domain.GroceryList) error {
		idx := doc.ItemIndex(itemID)
		if idx < 0 {
			return domainerrors.NotFoundf("item %s not found", itemID)
		}
		out = doc.Items[idx]
		if patch.Text != nil {
			out.Text = domain.NormalizeText(*patch.Text)
		}
		if patch.IsChecked != nil {
			out.IsChecked = *patch.IsChecked
		}
		if patch.Quantity != nil {
			out.Quantity = *patch.Quantity
		}
		if patch.QuantityUnit != nil {
			out.QuantityUnit = *patch.QuantityUnit
		}
		if patch.GoodPrice != nil {
			out.GoodPrice = *patch.GoodPrice
		}
		if err := s.validator.Validate(out); err != nil {
			return err
		}
		return s.replaceItem(doc, out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
