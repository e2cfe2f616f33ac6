package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeText trims surrounding whitespace and upper-cases display text.
// All category and item text is stored and compared in this form.
func NormalizeText(s string) string {
	// Casers are stateful, so one is built per call.
	return cases.Upper(language.Und).String(strings.TrimSpace(s))
}
