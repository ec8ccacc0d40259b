// Package entities holds the domain types of the trope crawler.
package entities

import "errors"

var (
	// ErrMissingColumn is returned when a tabular input lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrDuplicateName is returned when a persisted registry lists a name twice.
	ErrDuplicateName = errors.New("duplicate trope name")
	// ErrDuplicateID is returned when a persisted registry lists an id twice.
	ErrDuplicateID = errors.New("duplicate trope id")
	// ErrInvalidID is returned for identifiers that are not "tr" + digits.
	ErrInvalidID = errors.New("invalid trope id")
	// ErrIDOutOfSequence is returned when persisted ids are not exactly 1..n.
	ErrIDOutOfSequence = errors.New("trope id out of sequence")
)
