package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerylistapp/grocerylist/internal/domain"
	domainerrors "github.com/grocerylistapp/grocerylist/internal/errors"
	"github.com/grocerylistapp/grocerylist/internal/service"
)

func login(t *testing.T, ts *testServer) {
	t.Helper()
	require.NoError(t, ts.store.WriteSession(context.Background(), "token-1"))
}

func TestPush_RequiresSession(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/sync/push")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	env := decodeEnvelope[any](t, resp)
	assert.Equal(t, "UNAUTHORIZED", env.Code)
	assert.Equal(t, service.MessageNotLoggedIn, env.Error)
}

func TestPush_SendsTombstonesAndClearsThem(t *testing.T) {
	ts := setupTestServer(t)
	login(t, ts)
	ctx := context.Background()

	c := ts.createCategory(t, "DAIRY")
	milk := ts.addItem(t, c.CategoryID, "MILK")
	require.Equal(t, http.StatusNoContent, ts.api.Delete("/api/v1/items/"+milk.ItemID).Code)

	resp := ts.api.Post("/api/v1/sync/push")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	report := decodeEnvelope[service.SyncReport](t, resp).Data
	assert.Equal(t, service.StateSucceeded, report.State)
	assert.Equal(t, service.MessagePushSucceeded, report.Message)

	require.NotNil(t, ts.remote.pushed)
	require.Len(t, ts.remote.pushed.DeletedItems, 1)
	assert.Equal(t, milk.ItemID, ts.remote.pushed.DeletedItems[0].ItemID)

	deletedItems, err := ts.store.ReadDeletedItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, deletedItems)

	status := decodeEnvelope[service.SyncStatus](t, ts.api.Get("/api/v1/sync/status")).Data
	assert.Equal(t, service.StateSucceeded, status.Push.State)
	assert.Equal(t, service.StateIdle, status.Pull.State)
}

func TestPull_ServerDown(t *testing.T) {
	ts := setupTestServer(t)
	login(t, ts)

	c := ts.createCategory(t, "DAIRY")

	ts.remote.mu.Lock()
	ts.remote.up = false
	ts.remote.err = domainerrors.Network(errors.New("connection refused"), "GetGroceryList request failed")
	ts.remote.mu.Unlock()

	resp := ts.api.Post("/api/v1/sync/pull")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, service.MessageServerDown, decodeEnvelope[any](t, resp).Error)

	view := decodeEnvelope[service.ListView](t, ts.api.Get("/api/v1/list")).Data
	require.Len(t, view.Categories, 1, "a failed pull leaves the list alone")
	assert.Equal(t, c.CategoryID, view.Categories[0].Category.CategoryID)

	status := decodeEnvelope[service.SyncStatus](t, ts.api.Get("/api/v1/sync/status")).Data
	assert.Equal(t, service.StateFailed, status.Pull.State)
	require.NotNil(t, status.ServerUp)
	assert.False(t, *status.ServerUp)
}

func TestPull_ReplacesList(t *testing.T) {
	ts := setupTestServer(t)
	login(t, ts)

	ts.createCategory(t, "LOCAL")

	server := domain.NewGroceryList()
	server.Categories = append(server.Categories, domain.Category{UserID: "u1", CategoryID: "c1", Text: "REMOTE", IsOpen: true})
	ts.remote.mu.Lock()
	ts.remote.doc = server
	ts.remote.mu.Unlock()

	resp := ts.api.Post("/api/v1/sync/pull")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, service.MessagePullSucceeded, decodeEnvelope[service.SyncReport](t, resp).Data.Message)

	view := decodeEnvelope[service.ListView](t, ts.api.Get("/api/v1/list")).Data
	require.Len(t, view.Categories, 1)
	assert.Equal(t, "REMOTE", view.Categories[0].Category.Text)
}
