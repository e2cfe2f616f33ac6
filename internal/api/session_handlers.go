package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/grocerylistapp/grocerylist/internal/domain"
)

func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/api/v1/session",
		Summary:     "Get session",
		Description: "Returns the current profile, preferences and server address",
		Tags:        []string{"Session"},
	}, s.handleGetSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/session/login",
		Summary:     "Log in",
		Description: "Exchanges credentials with the server and stores the session",
		Tags:        []string{"Session"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID:   "logout",
		Method:        http.MethodPost,
		Path:          "/api/v1/session/logout",
		Summary:       "Log out",
		Description:   "Forgets the session token. The list stays on the device",
		Tags:          []string{"Session"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "setBaseURL",
		Method:      http.MethodPut,
		Path:        "/api/v1/session/base-url",
		Summary:     "Set server address",
		Tags:        []string{"Session"},
	}, s.handleSetBaseURL)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPreferences",
		Method:      http.MethodGet,
		Path:        "/api/v1/preferences",
		Summary:     "Get preferences",
		Tags:        []string{"Preferences"},
	}, s.handleGetPreferences)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePreferences",
		Method:      http.MethodPut,
		Path:        "/api/v1/preferences",
		Summary:     "Update preferences",
		Tags:        []string{"Preferences"},
	}, s.handleUpdatePreferences)
}

// === DTOs ===

// SessionResponse contains session data in API responses. The token is never
// exposed.
type SessionResponse struct {
	LoggedIn bool             `json:"logged_in" doc:"Whether a server session exists"`
	User     *domain.User     `json:"user" doc:"Current profile; a guest before login"`
	Prefs    domain.UserPrefs `json:"prefs" doc:"Display preferences"`
	BaseURL  string           `json:"base_url" doc:"Server address"`
}

// SessionOutput wraps the session response for Huma.
type SessionOutput struct {
	Body SessionResponse
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Username string `json:"username" doc:"Username"`
	Password string `json:"password" doc:"Password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// SetBaseURLRequest is the request body for changing the server address.
type SetBaseURLRequest struct {
	BaseURL string `json:"base_url" doc:"Server address, e.g. http://192.168.1.10:5000/api"`
}

// SetBaseURLInput wraps the request for Huma.
type SetBaseURLInput struct {
	Body SetBaseURLRequest
}

// PreferencesOutput wraps preferences for Huma.
type PreferencesOutput struct {
	Body domain.UserPrefs
}

// UpdatePreferencesInput wraps new preferences for Huma.
type UpdatePreferencesInput struct {
	Body domain.UserPrefs
}

// === Handlers ===

func toSessionResponse(session *domain.Session) SessionResponse {
	return SessionResponse{
		LoggedIn: session.LoggedIn(),
		User:     session.User,
		Prefs:    session.Prefs,
		BaseURL:  session.BaseURL,
	}
}

func (s *Server) handleGetSession(ctx context.Context, _ *struct{}) (*SessionOutput, error) {
	session, err := s.services.Session.Load(ctx)
	if err != nil {
		return nil, s.fail("get session", err)
	}
	return &SessionOutput{Body: toSessionResponse(session)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*SessionOutput, error) {
	session, err := s.services.Session.Login(ctx, domain.Credentials{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, s.fail("login", err)
	}
	return &SessionOutput{Body: toSessionResponse(session)}, nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*struct{}, error) {
	if err := s.services.Session.Logout(ctx); err != nil {
		return nil, s.fail("logout", err)
	}
	return nil, nil
}

func (s *Server) handleSetBaseURL(ctx context.Context, input *SetBaseURLInput) (*SessionOutput, error) {
	if err := s.services.Session.SetBaseURL(ctx, input.Body.BaseURL); err != nil {
		return nil, s.fail("set base url", err)
	}
	return s.handleGetSession(ctx, nil)
}

func (s *Server) handleGetPreferences(ctx context.Context, _ *struct{}) (*PreferencesOutput, error) {
	prefs, err := s.services.Session.Preferences(ctx)
	if err != nil {
		return nil, s.fail("get preferences", err)
	}
	return &PreferencesOutput{Body: prefs}, nil
}

func (s *Server) handleUpdatePreferences(ctx context.Context, input *UpdatePreferencesInput) (*PreferencesOutput, error) {
	prefs, err := s.services.Session.UpdatePreferences(ctx, input.Body)
	if err != nil {
		return nil, s.fail("update preferences", err)
	}
	return &PreferencesOutput{Body: prefs}, nil
}
