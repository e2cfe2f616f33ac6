package store

import (
	"context"
	"errors"

	"github.com/grocerylistapp/grocerylist/internal/domain"
)

// ReadUserProfile returns the stored profile or ErrUserNotFound.
func (s *Store) ReadUserProfile(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := s.get(ctx, keyUser, &user); err != nil {
		if errors.Is(err, errKeyNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, s.fail("read user", err)
	}
	return &user, nil
}

// WriteUserProfile replaces the stored profile.
func (s *Store) WriteUserProfile(ctx context.Context, user *domain.User) error {
	if err := s.apply(ctx, put(keyUser, user)); err != nil {
		return s.fail("write user", err)
	}
	return nil
}
