package store

import (
	"context"
	"errors"
)

// ReadSession returns the stored bearer token.
// Returns ErrSessionNotFound when the user is not logged in.
func (s *Store) ReadSession(ctx context.Context) (string, error) {
	raw, err := s.getRaw(ctx, keySession)
	if err != nil {
		if errors.Is(err, errKeyNotFound) {
			return "", ErrSessionNotFound
		}
		return "", s.fail("read session", err)
	}
	if len(raw) == 0 {
		return "", ErrSessionNotFound
	}
	return string(raw), nil
}

// WriteSession stores the bearer token.
func (s *Store) WriteSession(ctx context.Context, token string) error {
	if err := s.apply(ctx, putRaw(keySession, []byte(token))); err != nil {
		return s.fail("write session", err)
	}
	return nil
}

// ClearSession removes the bearer token, returning the app to local-only mode.
func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.apply(ctx, remove(keySession)); err != nil {
		return s.fail("clear session", err)
	}
	return nil
}

// ReadBaseURL returns the remote endpoint the user chose.
// When none is stored, fallback is persisted and returned.
func (s *Store) ReadBaseURL(ctx context.Context, fallback string) (string, error) {
	raw, err := s.getRaw(ctx, keyBaseURL)
	if err == nil && len(raw) > 0 {
		return string(raw), nil
	}
	if err != nil && !errors.Is(err, errKeyNotFound) {
		return "", s.fail("read base url", err)
	}

	if err := s.WriteBaseURL(ctx, fallback); err != nil {
		return "", err
	}
	return fallback, nil
}

// WriteBaseURL stores the remote endpoint.
func (s *Store) WriteBaseURL(ctx context.Context, baseURL string) error {
	if err := s.apply(ctx, putRaw(keyBaseURL, []byte(baseURL))); err != nil {
		return s.fail("write base url", err)
	}
	return nil
}
