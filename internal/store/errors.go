package store

import (
	domainerrors "github.com/grocerylistapp/grocerylist/internal/errors"
)

// Sentinel errors for absent keys. All carry CodeNotFound.
var (
	ErrDocumentNotFound = domainerrors.NotFound("grocery list not found")
	ErrSessionNotFound  = domainerrors.NotFound("no session token stored")
	ErrUserNotFound     = domainerrors.NotFound("no user profile stored")
	ErrBaseURLNotFound  = domainerrors.NotFound("no base url stored")
)
