// Package id generates opaque identifiers for categories, items and guest users.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet is the character set identifiers are drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Length is the fixed length of every generated identifier.
// Item keys rely on it to recover the category id from UserId+CategoryId.
const Length = 40

// Generate returns a new random identifier.
//
// No collision detection is performed; uniqueness is probabilistic
// (62^40 possible values).
func Generate() (string, error) {
	v, err := gonanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return v, nil
}

// MustGenerate is like Generate but panics if the system entropy source fails.
func MustGenerate() string {
	v, err := Generate()
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return v
}

// CategoryIDFromKey extracts the category id from an item's UserId+CategoryId key.
// Keys shorter than Length are returned unchanged.
func CategoryIDFromKey(key string) string {
	if len(key) <= Length {
		return key
	}
	return key[len(key)-Length:]
}
