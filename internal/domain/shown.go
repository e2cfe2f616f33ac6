package domain

import (
	"fmt"
	"strings"
)

// ItemsShown selects which items a projection displays.
type ItemsShown int

// Display filters, in the order the toggle cycles through them.
const (
	ShowBoth ItemsShown = iota
	ShowChecked
	ShowUnchecked
)

// String returns the wire name of the filter.
func (s ItemsShown) String() string {
	switch s {
	case ShowChecked:
		return "checked"
	case ShowUnchecked:
		return "unchecked"
	default:
		return "both"
	}
}

// Next returns the filter that follows s when the user toggles the display.
func (s ItemsShown) Next() ItemsShown {
	switch s {
	case ShowBoth:
		return ShowChecked
	case ShowChecked:
		return ShowUnchecked
	default:
		return ShowBoth
	}
}

// Matches reports whether item passes the filter.
func (s ItemsShown) Matches(item Item) bool {
	switch s {
	case ShowChecked:
		return item.IsChecked
	case ShowUnchecked:
		return !item.IsChecked
	default:
		return true
	}
}

// Filter returns the items that pass the filter without modifying the input.
func (s ItemsShown) Filter(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if s.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// EmptyPhrase is the placeholder text shown when nothing passes the filter.
func (s ItemsShown) EmptyPhrase() string {
	switch s {
	case ShowChecked:
		return "No CHECKED items to be displayed..."
	case ShowUnchecked:
		return "No UNCHECKED items to be displayed..."
	default:
		return "List is empty..."
	}
}

// ParseItemsShown parses a filter name; the empty string means ShowBoth.
func ParseItemsShown(s string) (ItemsShown, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both":
		return ShowBoth, nil
	case "checked":
		return ShowChecked, nil
	case "unchecked":
		return ShowUnchecked, nil
	default:
		return ShowBoth, fmt.Errorf("unknown items filter %q (must be both, checked, or unchecked)", s)
	}
}
