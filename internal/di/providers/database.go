package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/grocerylistapp/grocerylist/internal/config"
	"github.com/grocerylistapp/grocerylist/internal/remote"
	"github.com/grocerylistapp/grocerylist/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	path := cfg.Store.DataPath
	if cfg.Store.InMemory() {
		path = ""
	}

	db, err := store.New(path, log)
	if err != nil {
		return nil, err
	}
	return &StoreHandle{Store: db}, nil
}

// RemoteClientHandle wraps the remote client with shutdown capability.
type RemoteClientHandle struct {
	*remote.Client
}

// Shutdown implements do.Shutdownable.
func (h *RemoteClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideRemoteClient provides the backend client. The server address and
// token are read from the store on every request, so logins and address
// changes apply without a restart.
func ProvideRemoteClient(i do.Injector) (*RemoteClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	client := remote.New(remote.NewStoreSource(storeHandle.Store, cfg.Remote.BaseURL), remote.Options{
		Timeout: cfg.Remote.Timeout,
		RPS:     cfg.Remote.RPS,
		Burst:   cfg.Remote.Burst,
	}, log)

	return &RemoteClientHandle{Client: client}, nil
}
