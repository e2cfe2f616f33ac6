package providers

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/grocerylistapp/grocerylist/internal/api"
	"github.com/grocerylistapp/grocerylist/internal/config"
	"github.com/grocerylistapp/grocerylist/internal/service"
)

// APIServerHandle wraps the API handler with Shutdownable.
type APIServerHandle struct {
	*api.Server
}

// Shutdown implements do.Shutdownable.
func (h *APIServerHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideAPIServer provides the local API handler.
func ProvideAPIServer(i do.Injector) (*APIServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	services := &api.Services{
		List:    do.MustInvoke[*service.ListService](i),
		Sync:    do.MustInvoke[*service.SyncService](i),
		Session: do.MustInvoke[*service.SessionService](i),
		Events:  do.MustInvoke[*SSEManagerHandle](i).Manager,
	}

	handler := api.NewServer(storeHandle.Store, services, api.Options{
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
		RequestBurst:      cfg.Server.RequestBurst,
	}, log.With("component", "api"))

	return &APIServerHandle{Server: handler}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	errs chan error
}

// Errors reports a listener failure. It is closed once serving stops.
func (h *HTTPServerHandle) Errors() <-chan error {
	return h.errs
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer binds the loopback listener and starts serving in the
// background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)
	handler := do.MustInvoke[*APIServerHandle](i)
	events := do.MustInvoke[*SSEManagerHandle](i)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Event streams never go idle on their own; end them so Shutdown can drain.
	srv.RegisterOnShutdown(func() {
		if err := events.Shutdown(); err != nil {
			log.Warn("SSE shutdown", "error", err)
		}
	})

	// Bind before returning so a busy port fails startup.
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, err
	}

	h := &HTTPServerHandle{Server: srv, errs: make(chan error, 1)}
	go func() {
		defer close(h.errs)
		log.Info("HTTP server starting", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			h.errs <- err
		}
	}()

	return h, nil
}
