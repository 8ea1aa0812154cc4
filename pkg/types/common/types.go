package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ID is an opaque entity identifier.  Host-created entities use UUID v4 via
// NewID; engine-generated entities use deterministic IDs so that repeated
// evaluation of the same case yields identical output.
type ID string

// UserID identifies the firm member who requested or performed an action.
type UserID string

// Metadata is an open-ended key-value bag attached to generated entities so
// that hosts can persist provenance without schema changes.
type Metadata map[string]interface{}

// NewID generates a new UUID v4.
func NewID() ID {
	return ID(uuid.New().String())
}

// Validate checks that the ID is non-empty.
func (id ID) Validate() error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}
	return nil
}

// ValidateUUID checks that the ID is a well-formed UUID, for entities that
// are required to carry host-generated identifiers.
func (id ID) ValidateUUID() error {
	if err := id.Validate(); err != nil {
		return err
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}
	return nil
}

// GenerateID generates a unique ID with an optional prefix.
func GenerateID(prefix string) string {
	if prefix == "" {
		return uuid.New().String()
	}
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String())
}

// DateRange defines a closed time interval.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Validate checks that the range is ordered.
func (dr DateRange) Validate() error {
	if dr.From.After(dr.To) {
		return fmt.Errorf("invalid date range: 'from' must be before or equal to 'to'")
	}
	return nil
}

// Contains reports whether t falls inside the range (inclusive).
func (dr DateRange) Contains(t time.Time) bool {
	return !t.Before(dr.From) && !t.After(dr.To)
}
