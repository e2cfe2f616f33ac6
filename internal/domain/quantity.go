package domain

import (
	"strconv"
	"strings"
)

// MinQuantity is the floor every item quantity is held to.
const MinQuantity = 1

// QuantityNotice is shown when a quantity change is corrected to MinQuantity.
const QuantityNotice = "Quantity can't be lower than 1"

// QuantityChange is the outcome of applying user input to an item quantity.
type QuantityChange struct {
	Quantity int    `json:"quantity"`
	Notice   string `json:"notice,omitempty"`
}

// Corrected reports whether the input was rejected and replaced by MinQuantity.
func (q QuantityChange) Corrected() bool {
	return q.Notice != ""
}

// ParseQuantity converts raw user input into a quantity that is never below
// MinQuantity. Non-numeric or too-small input resets to MinQuantity with a notice.
func ParseQuantity(raw string) QuantityChange {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < MinQuantity {
		return QuantityChange{Quantity: MinQuantity, Notice: QuantityNotice}
	}
	return QuantityChange{Quantity: n}
}
