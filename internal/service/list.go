package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/grocerylistapp/grocerylist/internal/domain"
	domainerrors "github.com/grocerylistapp/grocerylist/internal/errors"
	"github.com/grocerylistapp/grocerylist/internal/id"
	"github.com/grocerylistapp/grocerylist/internal/sse"
	"github.com/grocerylistapp/grocerylist/internal/store"
	"github.com/grocerylistapp/grocerylist/internal/validation"
)

// DuplicatePolicy decides what happens when a write would create a second
// category or item with the same text.
type DuplicatePolicy string

// Duplicate policies.
const (
	DuplicateReject DuplicatePolicy = "reject"
	DuplicateAllow  DuplicatePolicy = "allow"
)

// Uniqueness violations. Local state is untouched when either is returned.
var (
	ErrDuplicateCategory = domainerrors.AlreadyExists("There's another category with the same text")
	ErrDuplicateItem     = domainerrors.AlreadyExists("There's another item with the same text")
)

// ListOptions configures the reconciliation rules.
type ListOptions struct {
	Duplicates     DuplicatePolicy
	CascadeDeletes bool
}

// DefaultListOptions rejects duplicates and cascades category deletes.
func DefaultListOptions() ListOptions {
	return ListOptions{Duplicates: DuplicateReject, CascadeDeletes: true}
}

// ListService applies every mutation of the grocery list.
// Mutations read the whole document, compute the new one and write it back
// while holding a single writer lock, so no two mutations interleave.
type ListService struct {
	mu        sync.Mutex
	store     *store.Store
	events    store.EventEmitter
	validator *validation.Validator
	opts      ListOptions
	logger    *slog.Logger
}

// NewListService creates a new list service.
func NewListService(st *store.Store, events store.EventEmitter, v *validation.Validator, opts ListOptions, logger *slog.Logger) *ListService {
	if opts.Duplicates == "" {
		opts.Duplicates = DuplicateReject
	}
	return &ListService{
		store:     st,
		events:    events,
		validator: v,
		opts:      opts,
		logger:    logger,
	}
}

// load reads the document, treating an absent one as empty.
// Callers that mutate must hold s.mu.
func (s *ListService) load(ctx context.Context) (*domain.GroceryList, error) {
	doc, err := s.store.ReadDocument(ctx)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return domain.NewGroceryList(), nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// mutate runs fn against the current document and persists the result.
// Nothing is written when fn fails.
func (s *ListService) mutate(ctx context.Context, op string, fn func(doc *domain.GroceryList) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := s.store.WriteDocument(ctx, doc); err != nil {
		return err
	}

	s.changed(op, doc)
	return nil
}

// changed announces a committed write.
func (s *ListService) changed(op string, doc *domain.GroceryList) {
	s.logger.Debug("list updated", "op", op)
	s.events.Emit(sse.NewListChangedEvent(op, doc))
}

func (s *ListService) rejectDuplicates() bool {
	return s.opts.Duplicates != DuplicateAllow
}

// Document returns the active document, or an empty one if nothing is stored.
func (s *ListService) Document(ctx context.Context) (*domain.GroceryList, error) {
	return s.load(ctx)
}

// InsertCategory adds a category at the front of the list.
func (s *ListService) InsertCategory(ctx context.Context, category domain.Category) error {
	if err := s.validator.Validate(category); err != nil {
		return err
	}
	category.Text = domain.NormalizeText(category.Text)

	return s.mutate(ctx, "insert category", func(doc *domain.GroceryList) error {
		return s.insertCategory(doc, category)
	})
}

// insertCategory prepends category after the id and uniqueness checks.
func (s *ListService) insertCategory(doc *domain.GroceryList, category domain.Category) error {
	if doc.CategoryIndex(category.CategoryID) >= 0 {
		return domainerrors.AlreadyExists("category " + category.CategoryID + " already exists")
	}
	if s.rejectDuplicates() && doc.CategoryWithSameText(category) != nil {
		return ErrDuplicateCategory
	}
	doc.Categories = slices.Insert(doc.Categories, 0, category)
	return nil
}

// UpdateCategory replaces the category with the same id in place.
func (s *ListService) UpdateCategory(ctx context.Context, category domain.Category) error {
	if err := s.validator.Validate(category); err != nil {
		return err
	}
	category.Text = domain.NormalizeText(category.Text)

	return s.mutate(ctx, "update category", func(doc *domain.GroceryList) error {
		return s.replaceCategory(doc, category)
	})
}

// replaceCategory swaps in category by id after the uniqueness check.
func (s *ListService) replaceCategory(doc *domain.GroceryList, category domain.Category) error {
	idx := doc.CategoryIndex(category.CategoryID)
	if idx < 0 {
		return domainerrors.NotFoundf("category %s not found", category.CategoryID)
	}
	if s.rejectDuplicates() && doc.CategoryWithSameText(category) != nil {
		return ErrDuplicateCategory
	}
	doc.Categories[idx] = category
	return nil
}

// DeleteCategory removes a category and records its tombstone. With cascading
// enabled the category's items are removed and tombstoned as well.
// Deleting an unknown id is a no-op.
func (s *ListService) DeleteCategory(ctx context.Context, categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	idx := doc.CategoryIndex(categoryID)
	if idx < 0 {
		return nil
	}

	deletedCategories, err := s.store.ReadDeletedCategories(ctx)
	if err != nil {
		return err
	}
	deletedItems, err := s.store.ReadDeletedItems(ctx)
	if err != nil {
		return err
	}

	deletedCategories = append(deletedCategories, doc.Categories[idx])
	doc.Categories = slices.Delete(doc.Categories, idx, idx+1)

	if s.opts.CascadeDeletes {
		cascaded := doc.ItemsUnderCategory(categoryID)
		deletedItems = append(deletedItems, cascaded...)
		doc.Items = slices.DeleteFunc(doc.Items, func(it domain.Item) bool {
			return it.CategoryID() == categoryID
		})
		if len(cascaded) > 0 {
			s.logger.Debug("cascaded category delete", "category_id", categoryID, "items", len(cascaded))
		}
	}

	if err := s.store.CommitDeletion(ctx, doc, deletedCategories, deletedItems); err != nil {
		return err
	}
	s.changed("delete category", doc)
	return nil
}

// InsertItem appends an item to the list. Its category must exist.
func (s *ListService) InsertItem(ctx context.Context, item domain.Item) error {
	if err := s.validator.Validate(item); err != nil {
		return err
	}
	item.Text = domain.NormalizeText(item.Text)

	return s.mutate(ctx, "insert item", func(doc *domain.GroceryList) error {
		return s.insertItem(doc, item)
	})
}

// insertItem appends item after the owner, id and uniqueness checks.
func (s *ListService) insertItem(doc *domain.GroceryList, item domain.Item) error {
	if err := checkOwner(doc, item); err != nil {
		return err
	}
	if doc.ItemIndex(item.ItemID) >= 0 {
		return domainerrors.AlreadyExists("item " + item.ItemID + " already exists")
	}
	if s.rejectDuplicates() && doc.ItemWithSameText(item) != nil {
		return ErrDuplicateItem
	}
	doc.Items = append(doc.Items, item)
	return nil
}

// checkOwner requires the item's key to be exactly the Key of a stored
// category. A key with a foreign owner prefix would never be listed under it.
func checkOwner(doc *domain.GroceryList, item domain.Item) error {
	idx := doc.CategoryIndex(item.CategoryID())
	if idx < 0 {
		return domainerrors.NotFoundf("category %s not found", item.CategoryID())
	}
	if key := doc.Categories[idx].Key(); key != item.UserIDCategoryID {
		return domainerrors.Validation("item " + item.ItemID + " does not belong to the owner of category " + item.CategoryID())
	}
	return nil
}

// UpdateItem replaces the item with the same id in place.
func (s *ListService) UpdateItem(ctx context.Context, item domain.Item) error {
	if err := s.validator.Validate(item); err != nil {
		return err
	}
	item.Text = domain.NormalizeText(item.Text)

	return s.mutate(ctx, "update item", func(doc *domain.GroceryList) error {
		return s.replaceItem(doc, item)
	})
}

// replaceItem swaps in item by id after the owner and uniqueness checks.
func (s *ListService) replaceItem(doc *domain.GroceryList, item domain.Item) error {
	idx := doc.ItemIndex(item.ItemID)
	if idx < 0 {
		return domainerrors.NotFoundf("item %s not found", item.ItemID)
	}
	if err := checkOwner(doc, item); err != nil {
		return err
	}
	if s.rejectDuplicates() && doc.ItemWithSameText(item) != nil {
		return ErrDuplicateItem
	}
	doc.Items[idx] = item
	return nil
}

// DeleteItem removes an item and records its tombstone.
// Deleting an unknown id is a no-op.
func (s *ListService) DeleteItem(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	idx := doc.ItemIndex(itemID)
	if idx < 0 {
		return nil
	}

	deletedCategories, err := s.store.ReadDeletedCategories(ctx)
	if err != nil {
		return err
	}
	deletedItems, err := s.store.ReadDeletedItems(ctx)
	if err != nil {
		return err
	}

	deletedItems = append(deletedItems, doc.Items[idx])
	doc.Items = slices.Delete(doc.Items, idx, idx+1)

	if err := s.store.CommitDeletion(ctx, doc, deletedCategories, deletedItems); err != nil {
		return err
	}
	s.changed("delete item", doc)
	return nil
}

// GetItemWithSameText returns another item of the same category whose text
// matches item's, or nil.
func (s *ListService) GetItemWithSameText(ctx context.Context, item domain.Item) (*domain.Item, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.ItemWithSameText(item), nil
}

// ItemsForCategory returns the items stored under categoryKey in list order.
func (s *ListService) ItemsForCategory(ctx context.Context, categoryKey string) ([]domain.Item, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.ItemsForCategory(categoryKey), nil
}

// Reset replaces the document with an empty one. Tombstones are kept.
func (s *ListService) Reset(ctx context.Context) error {
	return s.mutate(ctx, "reset", func(doc *domain.GroceryList) error {
		doc.Categories = []domain.Category{}
		doc.Items = []domain.Item{}
		return nil
	})
}

// OpResult is the outcome of an operation in the shape UI shells render.
type OpResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Result converts an operation error into an OpResult.
func (s *ListService) Result(err error) OpResult {
	if err == nil {
		return OpResult{OK: true}
	}

	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return OpResult{Message: domainErr.Message}
	}

	s.logger.Error("unexpected list error", "error", err)
	return OpResult{Message: "Something went wrong"}
}

// newID generates a record id, reporting entropy failure as an internal error.
func newID() (string, error) {
	v, err := id.Generate()
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to generate id")
	}
	return v, nil
}
