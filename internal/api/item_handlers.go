package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/grocerylistapp/grocerylist/internal/domain"
	"github.com/grocerylistapp/grocerylist/internal/service"
)

func (s *Server) registerItemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "updateItem",
		Method:      http.MethodPut,
		Path:        "/api/v1/items/{id}",
		Summary:     "Update item",
		Description: "Changes the text, price, unit, quantity or checked state of an item",
		Tags:        []string{"Items"},
	}, s.handleUpdateItem)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteItem",
		Method:        http.MethodDelete,
		Path:          "/api/v1/items/{id}",
		Summary:       "Delete item",
		Description:   "Removes an item and records it for the next push",
		Tags:          []string{"Items"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/items/{id}/check",
		Summary:     "Toggle item",
		Description: "Flips whether an item is checked",
		Tags:        []string{"Items"},
	}, s.handleCheckItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "changeQuantity",
		Method:      http.MethodPost,
		Path:        "/api/v1/items/{id}/quantity",
		Summary:     "Change quantity",
		Description: "Applies raw quantity input. Anything that is not a number of at least 1 stores 1 and returns a notice",
		Tags:        []string{"Items"},
	}, s.handleChangeQuantity)

	huma.Register(s.api, huma.Operation{
		OperationID: "findDuplicateItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/items/duplicate",
		Summary:     "Find duplicate item",
		Description: "Returns another item of the category with the same text, if any",
		Tags:        []string{"Items"},
	}, s.handleFindDuplicateItem)
}

// === DTOs ===

// ItemIDInput identifies an item by path.
type ItemIDInput struct {
	ID string `path:"id" doc:"Item ID"`
}

// UpdateItemRequest is the request body for updating an item.
type UpdateItemRequest struct {
	Text         *string `json:"text,omitempty" maxLength:"200" doc:"New text"`
	IsChecked    *bool   `json:"is_checked,omitempty" doc:"Checked state"`
	Quantity     *int    `json:"quantity,omitempty" doc:"Quantity, at least 1"`
	QuantityUnit *string `json:"quantity_unit,omitempty" maxLength:"50" doc:"Unit shown after the quantity"`
	GoodPrice    *string `json:"good_price,omitempty" maxLength:"50" doc:"Price worth paying"`
}

// UpdateItemInput wraps the update item request for Huma.
type UpdateItemInput struct {
	ID   string `path:"id" doc:"Item ID"`
	Body UpdateItemRequest
}

// ChangeQuantityRequest carries raw quantity input as typed by the user.
type ChangeQuantityRequest struct {
	Quantity string `json:"quantity" doc:"Raw quantity input"`
}

// ChangeQuantityInput wraps the change quantity request for Huma.
type ChangeQuantityInput struct {
	ID   string `path:"id" doc:"Item ID"`
	Body ChangeQuantityRequest
}

// QuantityOutput wraps the applied quantity for Huma.
type QuantityOutput struct {
	Body domain.QuantityChange
}

// FindDuplicateRequest describes the item text to check.
type FindDuplicateRequest struct {
	CategoryKey string `json:"category_key" minLength:"1" doc:"UserId+CategoryId key of the category"`
	ItemID      string `json:"item_id,omitempty" doc:"Item being edited; excluded from the match"`
	Text        string `json:"text" doc:"Text to look for"`
}

// FindDuplicateInput wraps the find duplicate request for Huma.
type FindDuplicateInput struct {
	Body FindDuplicateRequest
}

// DuplicateResponse names the colliding item, if any.
type DuplicateResponse struct {
	Duplicate *domain.Item `json:"duplicate" doc:"The other item with the same text, or null"`
}

// DuplicateOutput wraps the duplicate response for Huma.
type DuplicateOutput struct {
	Body DuplicateResponse
}

// === Handlers ===

func (s *Server) handleUpdateItem(ctx context.Context, input *UpdateItemInput) (*ItemOutput, error) {
	item, err := s.services.List.PatchItem(ctx, input.ID, service.ItemPatch{
		Text:         input.Body.Text,
		IsChecked:    input.Body.IsChecked,
		Quantity:     input.Body.Quantity,
		QuantityUnit: input.Body.QuantityUnit,
		GoodPrice:    input.Body.GoodPrice,
	})
	if err != nil {
		return nil, s.fail("update item", err)
	}
	return &ItemOutput{Body: item}, nil
}

func (s *Server) handleDeleteItem(ctx context.Context, input *ItemIDInput) (*struct{}, error) {
	if err := s.services.List.DeleteItem(ctx, input.ID); err != nil {
		return nil, s.fail("delete item", err)
	}
	return nil, nil
}

func (s *Server) handleCheckItem(ctx context.Context, input *ItemIDInput) (*ItemOutput, error) {
	item, err := s.services.List.ToggleItemChecked(ctx, input.ID)
	if err != nil {
		return nil, s.fail("check item", err)
	}
	return &ItemOutput{Body: item}, nil
}

func (s *Server) handleChangeQuantity(ctx context.Context, input *ChangeQuantityInput) (*QuantityOutput, error) {
	change, err := s.services.List.ChangeQuantity(ctx, input.ID, input.Body.Quantity)
	if err != nil {
		return nil, s.fail("change quantity", err)
	}
	return &QuantityOutput{Body: change}, nil
}

func (s *Server) handleFindDuplicateItem(ctx context.Context, input *FindDuplicateInput) (*DuplicateOutput, error) {
	probe := domain.Item{
		UserIDCategoryID: input.Body.CategoryKey,
		ItemID:           input.Body.ItemID,
		Text:             domain.NormalizeText(input.Body.Text),
	}

	dup, err := s.services.List.GetItemWithSameText(ctx, probe)
	if err != nil {
		return nil, s.fail("find duplicate item", err)
	}
	return &DuplicateOutput{Body: DuplicateResponse{Duplicate: dup}}, nil
}
