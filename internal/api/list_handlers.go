package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/grocerylistapp/grocerylist/internal/domain"
	domainerrors "github.com/grocerylistapp/grocerylist/internal/errors"
	"github.com/grocerylistapp/grocerylist/internal/service"
)

func (s *Server) registerListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getList",
		Method:      http.MethodGet,
		Path:        "/api/v1/list",
		Summary:     "Get list",
		Description: "Returns categories with the items the display filter shows",
		Tags:        []string{"List"},
	}, s.handleGetList)

	huma.Register(s.api, huma.Operation{
		OperationID:   "resetList",
		Method:        http.MethodDelete,
		Path:          "/api/v1/list",
		Summary:       "Reset list",
		Description:   "Empties the active list. Pending deletions are kept for the next push",
		Tags:          []string{"List"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleResetList)
}

// GetListInput contains parameters for reading the list.
type GetListInput struct {
	Shown string `query:"shown" enum:"both,checked,unchecked" default:"both" doc:"Which items to show"`
}

// ListOutput wraps the list view for Huma.
type ListOutput struct {
	Body *service.ListView
}

func (s *Server) handleGetList(ctx context.Context, input *GetListInput) (*ListOutput, error) {
	shown, err := domain.ParseItemsShown(input.Shown)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	view, err := s.services.List.View(ctx, shown)
	if err != nil {
		return nil, s.fail("get list", err)
	}
	return &ListOutput{Body: view}, nil
}

func (s *Server) handleResetList(ctx context.Context, _ *struct{}) (*struct{}, error) {
	if err := s.services.List.Reset(ctx); err != nil {
		return nil, s.fail("reset list", err)
	}
	return nil, nil
}

// fail logs errors the caller cannot act on and passes err through for huma
// to render.
func (s *Server) fail(op string, err error) error {
	var domainErr *domainerrors.Error
	if !domainerrors.As(err, &domainErr) || domainErr.HTTPStatus() == http.StatusInternalServerError {
		s.logger.Error("request failed", "op", op, "error", err)
	}
	return err
}
