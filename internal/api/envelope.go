package api

import (
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/grocerylistapp/grocerylist/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in response.Envelope.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, _ := strconv.Atoi(status)

	switch e := v.(type) {
	case *APIError:
		return response.Fail(e.Code, e.Message, e.Details), nil
	case error:
		return response.Fail(string(statusToCode(code)), e.Error(), nil), nil
	}

	if code >= http.StatusBadRequest {
		return response.Fail(string(statusToCode(code)), http.StatusText(code), v), nil
	}
	return response.OK(v), nil
}
