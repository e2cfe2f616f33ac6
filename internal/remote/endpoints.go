package remote

import (
	"context"
	"encoding/json/v2"
	"net/http"

	"github.com/grocerylistapp/grocerylist/internal/domain"
	domainerrors "github.com/grocerylistapp/grocerylist/internal/errors"
)

// Remote endpoint paths, relative to the base URL.
const (
	pathIsUp            = "/IsUp"
	pathLogin           = "/Login"
	pathGetGroceryList  = "/GetGroceryList"
	pathSyncGroceryList = "/SyncGroceryList"
	pathPutCategory     = "/PutCategory"
	pathDeleteCategory  = "/DeleteCategory"
	pathPutItem         = "/PutItem"
	pathDeleteItem      = "/DeleteItem"
)

// IsUp probes server liveness. Any failure, including a timeout, reports false.
func (c *Client) IsUp(ctx context.Context) bool {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: pathIsUp})
	if err != nil {
		c.logger.Debug("liveness probe failed", "error", err)
		return false
	}
	return resp.status >= 200 && resp.status < 300
}

// Login exchanges credentials for the user profile and a bearer token.
// Servers that answer with a bare {User, Token} body are accepted as well.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	resp, err := c.do(ctx, request{method: http.MethodPost, path: pathLogin, body: creds})
	if err != nil {
		return nil, err
	}

	result, err := decode[domain.LoginResult](resp, false).Unwrap()
	if err != nil {
		return nil, err
	}
	if result == nil {
		var bare domain.LoginResult
		if json.Unmarshal(resp.body, &bare) == nil && bare.Token != "" {
			result = &bare
		}
	}
	if result == nil || result.Token == "" {
		return nil, domainerrors.Remote("login response carried no token")
	}
	return result, nil
}

// GetGroceryList downloads the server's authoritative document.
func (c *Client) GetGroceryList(ctx context.Context) (*domain.GroceryList, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: pathGetGroceryList})
	if err != nil {
		return nil, err
	}
	doc, err := decode[domain.GroceryList](resp, true).Unwrap()
	if err != nil {
		return nil, err
	}
	return doc.Normalize(), nil
}

// SyncGroceryList uploads the document with its tombstones attached and
// returns the server's reconciled document.
func (c *Client) SyncGroceryList(ctx context.Context, doc *domain.GroceryList) (*domain.GroceryList, error) {
	resp, err := c.do(ctx, request{method: http.MethodPut, path: pathSyncGroceryList, body: doc})
	if err != nil {
		return nil, err
	}
	reconciled, err := decode[domain.GroceryList](resp, true).Unwrap()
	if err != nil {
		return nil, err
	}
	reconciled.DeletedCategories = nil
	reconciled.DeletedItems = nil
	return reconciled.Normalize(), nil
}

// PutCategory upserts a single category on the server.
func (c *Client) PutCategory(ctx context.Context, category domain.Category) error {
	return c.send(ctx, http.MethodPut, pathPutCategory, category)
}

// DeleteCategory removes a single category on the server.
func (c *Client) DeleteCategory(ctx context.Context, category domain.Category) error {
	return c.send(ctx, http.MethodDelete, pathDeleteCategory, category)
}

// PutItem upserts a single item on the server.
func (c *Client) PutItem(ctx context.Context, item domain.Item) error {
	return c.send(ctx, http.MethodPut, pathPutItem, item)
}

// DeleteItem removes a single item on the server.
func (c *Client) DeleteItem(ctx context.Context, item domain.Item) error {
	return c.send(ctx, http.MethodDelete, pathDeleteItem, item)
}

// send performs a call whose success carries no payload.
func (c *Client) send(ctx context.Context, method, path string, body any) error {
	resp, err := c.do(ctx, request{method: method, path: path, body: body})
	if err != nil {
		return err
	}
	_, err = decode[struct{}](resp, false).Unwrap()
	return err
}
