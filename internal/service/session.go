package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/grocerylistapp/grocerylist/internal/domain"
	domainerrors "github.com/grocerylistapp/grocerylist/internal/errors"
	"github.com/grocerylistapp/grocerylist/internal/sse"
	"github.com/grocerylistapp/grocerylist/internal/store"
	"github.com/grocerylistapp/grocerylist/internal/validation"
)

// Login failure messages for transport errors.
const (
	MessageLoginFailedServerUp = "Server is up but login doesn't!"
)

// Authenticator is the part of the remote API the session service needs.
type Authenticator interface {
	IsUp(ctx context.Context) bool
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
}

// SessionService loads and changes who is using the application and how.
type SessionService struct {
	store          *store.Store
	events         store.EventEmitter
	remote         Authenticator
	validator      *validation.Validator
	defaultBaseURL string
	logger         *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(st *store.Store, events store.EventEmitter, remote Authenticator, v *validation.Validator, defaultBaseURL string, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:          st,
		events:         events,
		remote:         remote,
		validator:      v,
		defaultBaseURL: defaultBaseURL,
		logger:         logger,
	}
}

// Load assembles the startup session. A missing profile is replaced by a
// persisted guest and missing preferences by persisted defaults. A missing
// token means local-only mode.
func (s *SessionService) Load(ctx context.Context) (*domain.Session, error) {
	token, err := s.store.ReadSession(ctx)
	if err != nil && !errors.Is(err, store.ErrSessionNotFound) {
		return nil, err
	}

	user, err := s.loadUser(ctx)
	if err != nil {
		return nil, err
	}

	prefs, err := s.store.ReadPreferences(ctx)
	if err != nil {
		return nil, err
	}

	baseURL, err := s.store.ReadBaseURL(ctx, s.defaultBaseURL)
	if err != nil {
		return nil, err
	}

	return &domain.Session{Token: token, User: user, Prefs: prefs, BaseURL: baseURL}, nil
}

// loadUser returns the stored profile, persisting a guest when none exists.
func (s *SessionService) loadUser(ctx context.Context) (*domain.User, error) {
	user, err := s.store.ReadUserProfile(ctx)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, err
	}

	userID, err := newID()
	if err != nil {
		return nil, err
	}
	guest := domain.NewGuestUser(userID)
	if err := s.store.WriteUserProfile(ctx, guest); err != nil {
		return nil, err
	}
	s.logger.Info("created guest profile", "user_id", userID)
	return guest, nil
}

// Login exchanges credentials for a token and stores the token, the profile
// and the profile's preferences. When the server cannot be reached the error
// says whether it is down or only the login failed.
func (s *SessionService) Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	if err := s.validator.Validate(creds); err != nil {
		return nil, err
	}

	result, err := s.remote.Login(ctx, creds)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrNetwork) {
			s.logger.Warn("login rejected", "username", creds.Username, "error", err)
			return nil, err
		}
		message := MessageServerDown
		if s.remote.IsUp(context.WithoutCancel(ctx)) {
			message = MessageLoginFailedServerUp
		}
		s.logger.Warn("login request failed", "username", creds.Username, "error", err)
		return nil, domainerrors.Network(err, message)
	}

	user := result.User
	if user == nil {
		return nil, domainerrors.Remote("login response carried no user")
	}
	prefs := domain.DefaultUserPrefs()
	if user.UserPrefs != nil {
		prefs = *user.UserPrefs
		if prefs.Theme == "" {
			prefs.Theme = domain.ThemeDark
		}
	}

	if err := s.store.WriteSession(ctx, result.Token); err != nil {
		return nil, err
	}
	if err := s.store.WriteUserProfile(ctx, user); err != nil {
		return nil, err
	}
	if err := s.store.WritePreferences(ctx, prefs); err != nil {
		return nil, err
	}

	s.logger.Info("logged in", "user_id", user.UserID, "username", user.Username)
	session, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.events.Emit(sse.NewSessionChangedEvent(session))
	return session, nil
}

// Logout forgets the token. The profile and the list stay on the device.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.store.ClearSession(ctx); err != nil {
		return err
	}
	s.logger.Info("logged out")
	if session, err := s.Load(ctx); err == nil {
		s.events.Emit(sse.NewSessionChangedEvent(session))
	}
	return nil
}

// Preferences returns the stored preferences.
func (s *SessionService) Preferences(ctx context.Context) (domain.UserPrefs, error) {
	return s.store.ReadPreferences(ctx)
}

// UpdatePreferences validates and stores prefs.
func (s *SessionService) UpdatePreferences(ctx context.Context, prefs domain.UserPrefs) (domain.UserPrefs, error) {
	if prefs.Theme == "" {
		prefs.Theme = domain.ThemeDark
	}
	if err := s.validator.Validate(prefs); err != nil {
		return domain.UserPrefs{}, err
	}
	if err := s.store.WritePreferences(ctx, prefs); err != nil {
		return domain.UserPrefs{}, err
	}
	s.events.Emit(sse.NewPreferencesChangedEvent(prefs))
	return prefs, nil
}

type baseURLInput struct {
	BaseURL string `json:"base_url" validate:"required,http_url"`
}

// SetBaseURL changes the remote endpoint used by subsequent requests.
func (s *SessionService) SetBaseURL(ctx context.Context, baseURL string) error {
	if err := s.validator.Validate(baseURLInput{BaseURL: baseURL}); err != nil {
		return err
	}
	return s.store.WriteBaseURL(ctx, baseURL)
}
