package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grocerylistapp/grocerylist/internal/domain"
	"github.com/grocerylistapp/grocerylist/internal/id"
	"github.com/grocerylistapp/grocerylist/internal/sse"
	"github.com/grocerylistapp/grocerylist/internal/store"
	"github.com/grocerylistapp/grocerylist/internal/validation"
)

// fakeRemote is an in-process stand-in for the remote API.
type fakeRemote struct {
	mu sync.Mutex

	up        bool
	isUpCalls int

	pullDoc *domain.GroceryList
	pullErr error

	// syncFn answers SyncGroceryList; received holds the last payload.
	syncFn   func(doc *domain.GroceryList) (*domain.GroceryList, error)
	received *domain.GroceryList

	loginResult *domain.LoginResult
	loginErr    error
}

func (f *fakeRemote) IsUp(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.isUpCalls++
	return f.up
}

func (f *fakeRemote) probes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isUpCalls
}

func (f *fakeRemote) GetGroceryList(context.Context) (*domain.GroceryList, error) {
	if f.pullErr != nil {
		return nil, f.pullErr
	}
	return f.pullDoc.Clone(), nil
}

func (f *fakeRemote) SyncGroceryList(_ context.Context, doc *domain.GroceryList) (*domain.GroceryList, error) {
	f.mu.Lock()
	f.received = doc.Clone()
	fn := f.syncFn
	f.mu.Unlock()
	return fn(doc)
}

func (f *fakeRemote) Login(context.Context, domain.Credentials) (*domain.LoginResult, error) {
	return f.loginResult, f.loginErr
}

// recordingEmitter keeps every emitted event.
type recordingEmitter struct {
	mu     sync.Mutex
	events []sse.Event
}

func (r *recordingEmitter) Emit(event any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event.(sse.Event))
}

// types returns the emitted event types in order.
func (r *recordingEmitter) types() []sse.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sse.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *recordingEmitter) last() sse.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type testEnv struct {
	store   *store.Store
	events  *recordingEmitter
	list    *ListService
	sync    *SyncService
	session *SessionService
	remote  *fakeRemote
}

// setupTestEnv wires every service over a temp Badger database.
func setupTestEnv(t *testing.T, opts ListOptions) *testEnv {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "grocerylist-service-test-*")
	require.NoError(t, err)

	st, err := store.New(filepath.Join(tmpDir, "db"), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	})

	logger := slog.New(slog.DiscardHandler)
	v := validation.New()
	remote := &fakeRemote{up: true}
	events := &recordingEmitter{}
	list := NewListService(st, events, v, opts, logger)

	return &testEnv{
		store:   st,
		events:  events,
		list:    list,
		sync:    NewSyncService(list, st, events, remote, logger),
		session: NewSessionService(st, events, remote, v, "http://localhost:5000/api", logger),
		remote:  remote,
	}
}

func newTestCategory(userID, text string) domain.Category {
	c := domain.NewCategory(userID, id.MustGenerate())
	c.Text = text
	return c
}

func newTestItem(category domain.Category, text string) domain.Item {
	it := domain.NewItem(category.Key(), id.MustGenerate())
	it.Text = text
	return it
}
