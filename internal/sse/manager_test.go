package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerylistapp/grocerylist/internal/domain"
	"github.com/grocerylistapp/grocerylist/internal/logger"
)

func startManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(logger.Discard())
	m.Start(t.Context())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
	})
	return m
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case evt := <-c.EventChan:
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestManager_BroadcastsToEveryClient(t *testing.T) {
	m := startManager(t)

	a, err := m.Connect()
	require.NoError(t, err)
	b, err := m.Connect()
	require.NoError(t, err)
	assert.Equal(t, 2, m.ClientCount())

	doc := domain.NewGroceryList()
	m.Emit(NewListChangedEvent("add category", doc))

	for _, c := range []*Client{a, b} {
		evt := receive(t, c)
		assert.Equal(t, EventListChanged, evt.Type)
		assert.Equal(t, ListChangedEventData{Op: "add category"}, evt.Data)
	}
}

func TestManager_IgnoresForeignEvents(t *testing.T) {
	m := startManager(t)
	c, err := m.Connect()
	require.NoError(t, err)

	m.Emit("not an event")
	m.Emit(NewHeartbeatEvent())

	assert.Equal(t, EventHeartbeat, receive(t, c).Type)
}

func TestManager_Disconnect(t *testing.T) {
	m := startManager(t)
	c, err := m.Connect()
	require.NoError(t, err)

	m.Disconnect(c.ID)
	m.Disconnect(c.ID)

	assert.Equal(t, 0, m.ClientCount())
	_, open := <-c.Done
	assert.False(t, open)
}

func TestManager_ShutdownClosesClients(t *testing.T) {
	m := NewManager(logger.Discard())
	m.Start(context.Background())

	c, err := m.Connect()
	require.NoError(t, err)

	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))

	_, open := <-c.Done
	assert.False(t, open)
	assert.Equal(t, 0, m.ClientCount())

	// Emitting after shutdown is a silent no-op.
	m.Emit(NewHeartbeatEvent())
}

func TestManager_ShutdownWithoutStart(t *testing.T) {
	m := NewManager(logger.Discard())
	c, err := m.Connect()
	require.NoError(t, err)

	require.NoError(t, m.Shutdown(context.Background()))

	_, open := <-c.Done
	assert.False(t, open)
}

func TestHandler_StreamsEvents(t *testing.T) {
	m := startManager(t)
	srv := httptest.NewServer(NewHandler(m, logger.Discard()))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "no", resp.Header.Get("X-Accel-Buffering"))

	reader := bufio.NewReader(resp.Body)
	readFrame := func() (string, string) {
		t.Helper()
		var event, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case line == "":
				return event, data
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			}
		}
	}

	event, data := readFrame()
	assert.Equal(t, "connected", event)
	assert.Contains(t, data, "client_id")

	// The client is registered before the connected frame is written.
	require.Equal(t, 1, m.ClientCount())
	up := true
	m.Emit(NewSyncCompletedEvent("pull", "succeeded", "List downloaded", &up))

	event, data = readFrame()
	assert.Equal(t, string(EventSyncCompleted), event)
	assert.Contains(t, data, `"action":"pull"`)
	assert.Contains(t, data, `"server_up":true`)
}
