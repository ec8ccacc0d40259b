package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// IDPrefix is the fixed prefix of every trope identifier.
const IDPrefix = "tr"

// idWidth is the zero-padded width of the numeric part of a trope id.
const idWidth = 5

// Trope is a child entity discovered on a parent page. Name is the canonical
// name (prefix-stripped, case preserved) and never changes once ID is assigned.
type Trope struct {
	ID   string `json:"tropeid"`
	Name string `json:"tropename"`
}

// FormatID returns the identifier for the given 1-based sequence number,
// e.g. FormatID(7) == "tr00007".
func FormatID(seq int) string {
	return fmt.Sprintf("%s%0*d", IDPrefix, idWidth, seq)
}

// ParseID returns the sequence number encoded in a trope identifier.
func ParseID(id string) (int, error) {
	digits, ok := strings.CutPrefix(id, IDPrefix)
	if !ok || len(digits) < idWidth {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	seq, err := strconv.Atoi(digits)
	if err != nil || seq < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return seq, nil
}
