package remote

import (
	"context"

	domainerrors "github.com/grocerylistapp/grocerylist/internal/errors"
	"github.com/grocerylistapp/grocerylist/internal/store"
)

// StoreSource reads the base URL and session token from the local store.
type StoreSource struct {
	store          *store.Store
	defaultBaseURL string
}

// NewStoreSource returns a Source backed by st. defaultBaseURL is persisted the
// first time no base URL is stored.
func NewStoreSource(st *store.Store, defaultBaseURL string) *StoreSource {
	return &StoreSource{store: st, defaultBaseURL: defaultBaseURL}
}

// BaseURL implements Source.
func (s *StoreSource) BaseURL(ctx context.Context) (string, error) {
	return s.store.ReadBaseURL(ctx, s.defaultBaseURL)
}

// Token implements Source.
func (s *StoreSource) Token(ctx context.Context) (string, error) {
	token, err := s.store.ReadSession(ctx)
	if domainerrors.Is(err, store.ErrSessionNotFound) {
		return "", nil
	}
	return token, err
}
