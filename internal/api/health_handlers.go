package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns local storage health and the last known remote server state",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	database := s.checkDatabase(ctx)
	remote := s.checkRemote()

	// The list works offline, so an unreachable server only degrades.
	overall := "healthy"
	switch {
	case database.Status != "healthy":
		overall = "unhealthy"
	case remote.Status != "healthy":
		overall = "degraded"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status: overall,
			Components: map[string]ComponentHealth{
				"database": database,
				"remote":   remote,
			},
		},
	}, nil
}

// checkDatabase verifies Badger is accessible.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{Status: "degraded", Message: "database not configured"}
	}

	start := time.Now()
	err := s.store.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "database read failed",
		}
	}
	return ComponentHealth{Status: "healthy", Latency: latency.String()}
}

// checkRemote reports the last liveness answer without probing.
func (s *Server) checkRemote() ComponentHealth {
	if s.services == nil || s.services.Sync == nil {
		return ComponentHealth{Status: "degraded", Message: "sync not configured"}
	}

	up := s.services.Sync.Status().ServerUp
	switch {
	case up == nil:
		return ComponentHealth{Status: "degraded", Message: "server not checked yet"}
	case !*up:
		return ComponentHealth{Status: "degraded", Message: "server is down"}
	default:
		return ComponentHealth{Status: "healthy"}
	}
}
