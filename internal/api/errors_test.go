package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/grocerylistapp/grocerylist/internal/errors"
)

func TestRegisterErrorHandler_DomainErrorsWin(t *testing.T) {
	RegisterErrorHandler()

	err := huma.NewError(http.StatusInternalServerError, "unexpected error occurred",
		fmt.Errorf("push: %w", domainerrors.Network(errors.New("dial tcp"), "Server is down!")))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.GetStatus())
	assert.Equal(t, "NETWORK", apiErr.Code)
	assert.Equal(t, "Server is down!", apiErr.Message)
}

func TestRegisterErrorHandler_RequestValidation(t *testing.T) {
	RegisterErrorHandler()

	err := huma.NewError(http.StatusUnprocessableEntity, "validation failed",
		&huma.ErrorDetail{Location: "body.open", Message: "expected boolean"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.GetStatus())
	assert.Equal(t, "VALIDATION", apiErr.Code)
	assert.Equal(t, map[string]string{"body.open": "expected boolean"}, apiErr.Details)
}

func TestStatusToCode(t *testing.T) {
	tests := []struct {
		status int
		want   domainerrors.Code
	}{
		{http.StatusBadRequest, domainerrors.CodeValidation},
		{http.StatusUnprocessableEntity, domainerrors.CodeValidation},
		{http.StatusUnauthorized, domainerrors.CodeUnauthorized},
		{http.StatusNotFound, domainerrors.CodeNotFound},
		{http.StatusConflict, domainerrors.CodeConflict},
		{http.StatusTooManyRequests, domainerrors.CodeRateLimited},
		{http.StatusTeapot, domainerrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, statusToCode(tt.status))
		})
	}
}
