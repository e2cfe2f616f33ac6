package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/grocerylistapp/grocerylist/internal/config"
	"github.com/grocerylistapp/grocerylist/internal/service"
	"github.com/grocerylistapp/grocerylist/internal/validation"
)

// ProvideListService provides the reconciliation engine.
func ProvideListService(i do.Injector) (*service.ListService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	events := do.MustInvoke[*SSEManagerHandle](i)
	v := do.MustInvoke[*validation.Validator](i)

	opts := service.ListOptions{
		Duplicates:     service.DuplicatePolicy(cfg.List.DuplicatePolicy),
		CascadeDeletes: cfg.List.CascadeDeletes,
	}
	return service.NewListService(storeHandle.Store, events.Manager, v, opts, log.With("component", "list")), nil
}

// ProvideSyncService provides the sync coordinator.
func ProvideSyncService(i do.Injector) (*service.SyncService, error) {
	log := do.MustInvoke[*slog.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	events := do.MustInvoke[*SSEManagerHandle](i)
	list := do.MustInvoke[*service.ListService](i)
	client := do.MustInvoke[*RemoteClientHandle](i)

	return service.NewSyncService(list, storeHandle.Store, events.Manager, client.Client, log.With("component", "sync")), nil
}

// ProvideSessionService provides the session and preferences loader.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	events := do.MustInvoke[*SSEManagerHandle](i)
	client := do.MustInvoke[*RemoteClientHandle](i)
	v := do.MustInvoke[*validation.Validator](i)

	return service.NewSessionService(storeHandle.Store, events.Manager, client.Client, v, cfg.Remote.BaseURL, log.With("component", "session")), nil
}
