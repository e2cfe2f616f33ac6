package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/grocerylistapp/grocerylist/internal/domain"
	domainerrors "github.com/grocerylistapp/grocerylist/internal/errors"
	"github.com/grocerylistapp/grocerylist/internal/service"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createCategory",
		Method:        http.MethodPost,
		Path:          "/api/v1/categories",
		Summary:       "Create category",
		Description:   "Adds an open category at the top of the list, with a blank item when the preferences ask for one",
		Tags:          []string{"Categories"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCategory",
		Method:      http.MethodPut,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Update category",
		Description: "Renames or opens/closes a category",
		Tags:        []string{"Categories"},
	}, s.handleUpdateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteCategory",
		Method:        http.MethodDelete,
		Path:          "/api/v1/categories/{id}",
		Summary:       "Delete category",
		Description:   "Removes a category and records it for the next push",
		Tags:          []string{"Categories"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleCategory",
		Method:      http.MethodPost,
		Path:        "/api/v1/categories/{id}/toggle",
		Summary:     "Toggle category",
		Description: "Flips whether a category is expanded",
		Tags:        []string{"Categories"},
	}, s.handleToggleCategory)

	huma.Register(s.api, huma.Operation{
		OperationID:   "setCategoriesOpen",
		Method:        http.MethodPost,
		Path:          "/api/v1/categories/open",
		Summary:       "Open or close all categories",
		Tags:          []string{"Categories"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleSetCategoriesOpen)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addItem",
		Method:        http.MethodPost,
		Path:          "/api/v1/categories/{id}/items",
		Summary:       "Add item",
		Description:   "Appends a blank item to a category",
		Tags:          []string{"Categories", "Items"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCategoryItems",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{id}/items",
		Summary:     "List category items",
		Description: "Returns every item of a category in list order, ignoring the display filter",
		Tags:        []string{"Categories", "Items"},
	}, s.handleListCategoryItems)
}

// === DTOs ===

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Text string `json:"text,omitempty" maxLength:"200" doc:"Initial text; blank when omitted"`
}

// CreateCategoryInput wraps the create category request for Huma.
type CreateCategoryInput struct {
	Body CreateCategoryRequest
}

// AddedCategoryOutput wraps a created category for Huma.
type AddedCategoryOutput struct {
	Body *service.AddedCategory
}

// CategoryIDInput identifies a category by path.
type CategoryIDInput struct {
	ID string `path:"id" doc:"Category ID"`
}

// UpdateCategoryRequest is the request body for updating a category.
type UpdateCategoryRequest struct {
	Text   *string `json:"text,omitempty" maxLength:"200" doc:"New text"`
	IsOpen *bool   `json:"is_open,omitempty" doc:"Whether the category is expanded"`
}

// UpdateCategoryInput wraps the update category request for Huma.
type UpdateCategoryInput struct {
	ID   string `path:"id" doc:"Category ID"`
	Body UpdateCategoryRequest
}

// CategoryOutput wraps a category for Huma.
type CategoryOutput struct {
	Body *domain.Category
}

// SetCategoriesOpenRequest is the request body for opening or closing all categories.
type SetCategoriesOpenRequest struct {
	Open bool `json:"open" doc:"true expands every category, false collapses them"`
}

// SetCategoriesOpenInput wraps the request for Huma.
type SetCategoriesOpenInput struct {
	Body SetCategoriesOpenRequest
}

// ItemOutput wraps an item for Huma.
type ItemOutput struct {
	Body *domain.Item
}

// CategoryItemsResponse lists the items of one category.
type CategoryItemsResponse struct {
	Items []domain.Item `json:"items" doc:"Items in list order"`
}

// CategoryItemsOutput wraps the category items response for Huma.
type CategoryItemsOutput struct {
	Body CategoryItemsResponse
}

// === Handlers ===

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*AddedCategoryOutput, error) {
	session, err := s.services.Session.Load(ctx)
	if err != nil {
		return nil, s.fail("create category", err)
	}

	added, err := s.services.List.CreateCategory(ctx, session.User.UserID, input.Body.Text, session.Prefs)
	if err != nil {
		return nil, s.fail("create category", err)
	}
	return &AddedCategoryOutput{Body: added}, nil
}

func (s *Server) handleUpdateCategory(ctx context.Context, input *UpdateCategoryInput) (*CategoryOutput, error) {
	category, err := s.services.List.PatchCategory(ctx, input.ID, service.CategoryPatch{
		Text:   input.Body.Text,
		IsOpen: input.Body.IsOpen,
	})
	if err != nil {
		return nil, s.fail("update category", err)
	}
	return &CategoryOutput{Body: category}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, input *CategoryIDInput) (*struct{}, error) {
	if err := s.services.List.DeleteCategory(ctx, input.ID); err != nil {
		return nil, s.fail("delete category", err)
	}
	return nil, nil
}

func (s *Server) handleToggleCategory(ctx context.Context, input *CategoryIDInput) (*CategoryOutput, error) {
	category, err := s.services.List.ToggleCategoryOpen(ctx, input.ID)
	if err != nil {
		return nil, s.fail("toggle category", err)
	}
	return &CategoryOutput{Body: category}, nil
}

func (s *Server) handleSetCategoriesOpen(ctx context.Context, input *SetCategoriesOpenInput) (*struct{}, error) {
	if err := s.services.List.SetAllCategoriesOpen(ctx, input.Body.Open); err != nil {
		return nil, s.fail("set categories open", err)
	}
	return nil, nil
}

func (s *Server) handleAddItem(ctx context.Context, input *CategoryIDInput) (*ItemOutput, error) {
	item, err := s.services.List.AddItem(ctx, input.ID)
	if err != nil {
		return nil, s.fail("add item", err)
	}
	return &ItemOutput{Body: item}, nil
}

func (s *Server) handleListCategoryItems(ctx context.Context, input *CategoryIDInput) (*CategoryItemsOutput, error) {
	doc, err := s.services.List.Document(ctx)
	if err != nil {
		return nil, s.fail("list category items", err)
	}
	idx := doc.CategoryIndex(input.ID)
	if idx < 0 {
		return nil, s.fail("list category items", domainerrors.NotFoundf("category %s not found", input.ID))
	}

	items, err := s.services.List.ItemsForCategory(ctx, doc.Categories[idx].Key())
	if err != nil {
		return nil, s.fail("list category items", err)
	}
	return &CategoryItemsOutput{Body: CategoryItemsResponse{Items: items}}, nil
}
