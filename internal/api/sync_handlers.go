package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/grocerylistapp/grocerylist/internal/service"
)

func (s *Server) registerSyncRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "pushList",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync/push",
		Summary:     "Push list",
		Description: "Uploads the list with pending deletions and adopts the server's reconciled list",
		Tags:        []string{"Sync"},
	}, s.handlePush)

	huma.Register(s.api, huma.Operation{
		OperationID: "pullList",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync/pull",
		Summary:     "Pull list",
		Description: "Replaces the local list with the server's copy",
		Tags:        []string{"Sync"},
	}, s.handlePull)

	huma.Register(s.api, huma.Operation{
		OperationID: "syncStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/sync/status",
		Summary:     "Sync status",
		Description: "Returns the latest push and pull outcome",
		Tags:        []string{"Sync"},
	}, s.handleSyncStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkServer",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync/check",
		Summary:     "Check server",
		Description: "Probes whether the remote server is up",
		Tags:        []string{"Sync"},
	}, s.handleCheckServer)
}

// === DTOs ===

// SyncReportOutput wraps a sync report for Huma.
type SyncReportOutput struct {
	Body *service.SyncReport
}

// SyncStatusOutput wraps the sync status for Huma.
type SyncStatusOutput struct {
	Body service.SyncStatus
}

// CheckServerResponse reports the probe result.
type CheckServerResponse struct {
	ServerUp bool `json:"server_up" doc:"Whether the server answered"`
}

// CheckServerOutput wraps the probe result for Huma.
type CheckServerOutput struct {
	Body CheckServerResponse
}

// === Handlers ===

func (s *Server) handlePush(ctx context.Context, _ *struct{}) (*SyncReportOutput, error) {
	report, err := s.services.Sync.Push(ctx)
	if err != nil {
		return nil, s.fail("push", err)
	}
	return &SyncReportOutput{Body: report}, nil
}

func (s *Server) handlePull(ctx context.Context, _ *struct{}) (*SyncReportOutput, error) {
	report, err := s.services.Sync.Pull(ctx)
	if err != nil {
		return nil, s.fail("pull", err)
	}
	return &SyncReportOutput{Body: report}, nil
}

func (s *Server) handleSyncStatus(_ context.Context, _ *struct{}) (*SyncStatusOutput, error) {
	return &SyncStatusOutput{Body: s.services.Sync.Status()}, nil
}

func (s *Server) handleCheckServer(ctx context.Context, _ *struct{}) (*CheckServerOutput, error) {
	return &CheckServerOutput{Body: CheckServerResponse{ServerUp: s.services.Sync.CheckServer(ctx)}}, nil
}
