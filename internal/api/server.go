// Package api serves the grocery list to local UI shells over HTTP.
// It binds loopback only and holds no authentication of its own; the remote
// bearer token stays inside the process.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/grocerylistapp/grocerylist/internal/http/response"
	"github.com/grocerylistapp/grocerylist/internal/ratelimit"
	"github.com/grocerylistapp/grocerylist/internal/service"
	"github.com/grocerylistapp/grocerylist/internal/sse"
	"github.com/grocerylistapp/grocerylist/internal/store"
)

// Services groups the services the handlers call.
type Services struct {
	List    *service.ListService
	Sync    *service.SyncService
	Session *service.SessionService
	// Events feeds GET /api/v1/events. The route is absent when nil.
	Events *sse.Manager
}

// Options tunes the per-client request limit.
type Options struct {
	RequestsPerSecond float64
	RequestBurst      int
}

// DefaultOptions matches the SERVER_RPS and SERVER_BURST defaults.
func DefaultOptions() Options {
	return Options{RequestsPerSecond: 20, RequestBurst: 40}
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *store.Store
	services *Services
	router   *chi.Mux
	api      huma.API
	limiter  *ratelimit.KeyedRateLimiter
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	if opts.RequestsPerSecond <= 0 || opts.RequestBurst <= 0 {
		opts = DefaultOptions()
	}

	s := &Server{
		store:    st,
		services: services,
		router:   chi.NewRouter(),
		limiter:  ratelimit.New(opts.RequestsPerSecond, opts.RequestBurst),
		logger:   logger,
	}

	s.setupMiddleware(retryAfter(opts.RequestsPerSecond))

	humaConfig := huma.DefaultConfig("Grocery List API", "1.0.0")
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerListRoutes()
	s.registerCategoryRoutes()
	s.registerItemRoutes()
	s.registerSyncRoutes()
	s.registerSessionRoutes()

	if services.Events != nil {
		s.router.Method(http.MethodGet, "/api/v1/events", sse.NewHandler(services.Events, s.logger.With("component", "sse")))
	}

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "no route for "+r.URL.Path, s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, s.logger)
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases the rate limiter.
func (s *Server) Close() {
	s.limiter.Stop()
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(wait time.Duration) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(RateLimitMiddleware(s.limiter, wait, s.logger))
}

// requestLogger logs each request at debug level once it completes.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
