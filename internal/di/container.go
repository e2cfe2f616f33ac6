// Package di wires the grocery list services together.
package di

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/grocerylistapp/grocerylist/internal/config"
	"github.com/grocerylistapp/grocerylist/internal/di/providers"
	"github.com/grocerylistapp/grocerylist/internal/service"
)

// NewContainer creates the DI container for an already loaded configuration.
// Everything is built lazily on first use.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, cfg)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage, change feed and remote
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideRemoteClient)

	// Business services
	do.Provide(injector, providers.ProvideListService)
	do.Provide(injector, providers.ProvideSyncService)
	do.Provide(injector, providers.ProvideSessionService)

	// Server
	do.Provide(injector, providers.ProvideAPIServer)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap builds every service the local API needs and starts serving.
func Bootstrap(injector *do.RootScope) (*providers.HTTPServerHandle, error) {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*slog.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.RemoteClientHandle](injector)

	_ = do.MustInvoke[*service.ListService](injector)
	_ = do.MustInvoke[*service.SyncService](injector)
	_ = do.MustInvoke[*service.SessionService](injector)

	_ = do.MustInvoke[*providers.APIServerHandle](injector)
	return do.Invoke[*providers.HTTPServerHandle](injector)
}
