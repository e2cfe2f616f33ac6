package remote

import (
	"encoding/json/v2"
	"net/http"

	domainerrors "github.com/grocerylistapp/grocerylist/internal/errors"
)

// Envelope is the wire shape of every remote response.
type Envelope[T any] struct {
	Data       *T     `json:"Data,omitempty"`
	Message    string `json:"Message,omitempty"`
	WasAnError bool   `json:"WasAnError"`
	Code       int    `json:"Code,omitempty"`
}

// successCodes are the application codes under which Data may be trusted.
var successCodes = map[int]bool{
	0:                    true,
	http.StatusOK:        true,
	http.StatusCreated:   true,
	http.StatusNoContent: true,
}

// Result is the tagged outcome of a remote call: either a value or an error,
// never both.
type Result[T any] struct {
	value *T
	err   error
}

// Ok wraps a successful payload.
func Ok[T any](v *T) Result[T] { return Result[T]{value: v} }

// Err wraps a failure.
func Err[T any](err error) Result[T] { return Result[T]{err: err} }

// Unwrap returns the payload or the error.
func (r Result[T]) Unwrap() (*T, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.value, nil
}

// IsOk reports whether the call succeeded.
func (r Result[T]) IsOk() bool { return r.err == nil }

// decode turns a raw response into a Result.
// requireData makes a success envelope without Data an error carrying the
// server's message.
func decode[T any](resp *response, requireData bool) Result[T] {
	var env Envelope[T]
	if len(resp.body) == 0 || json.Unmarshal(resp.body, &env) != nil {
		if resp.status >= 200 && resp.status < 300 && !requireData {
			return Ok[T](nil)
		}
		if resp.status >= 200 && resp.status < 300 {
			return Err[T](domainerrors.Remote("malformed response from server"))
		}
		return Err[T](statusError(resp.status, bodyMessage(resp.status, resp.body)))
	}

	if env.WasAnError || !successCodes[env.Code] || resp.status >= 400 {
		status := env.Code
		if status == 0 || status < 400 {
			status = resp.status
		}
		msg := env.Message
		if msg == "" {
			msg = bodyMessage(resp.status, resp.body)
		}
		return Err[T](statusError(status, msg))
	}

	if env.Data == nil && requireData {
		msg := env.Message
		if msg == "" {
			msg = "server returned no data"
		}
		return Err[T](domainerrors.Remote(msg))
	}

	return Ok(env.Data)
}
