package store

import (
	"context"
	"errors"

	"github.com/grocerylistapp/grocerylist/internal/domain"
)

// ReadPreferences returns the stored preferences. On first read the defaults
// are persisted and returned.
func (s *Store) ReadPreferences(ctx context.Context) (domain.UserPrefs, error) {
	var prefs domain.UserPrefs
	err := s.get(ctx, keyUserPrefs, &prefs)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, errKeyNotFound) {
		return domain.DefaultUserPrefs(), s.fail("read preferences", err)
	}

	prefs = domain.DefaultUserPrefs()
	if err := s.WritePreferences(ctx, prefs); err != nil {
		return prefs, err
	}
	return prefs, nil
}

// WritePreferences replaces the stored preferences.
func (s *Store) WritePreferences(ctx context.Context, prefs domain.UserPrefs) error {
	if err := s.apply(ctx, put(keyUserPrefs, prefs)); err != nil {
		return s.fail("write preferences", err)
	}
	return nil
}
