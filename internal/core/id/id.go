// Package id provides UUIDv7 generation for all ledger entities.
// UUIDv7 is time-ordered, so history rows and documents sort naturally by creation time.
package id

import (
	"github.com/google/uuid"
)

// ID is a type alias for UUID, used across all entities.
type ID = uuid.UUID

// New generates a new UUIDv7 (time-ordered UUID).
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.New()
	}
	return v
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts string to ID, panics on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns zero-value UUID.
func Nil() ID {
	return uuid.Nil
}

// IsNil checks if ID is zero-value.
func IsNil(v ID) bool {
	return v == uuid.Nil
}

// Ptr returns a pointer to v, or nil when v is the zero UUID.
// Used for optional foreign keys (supplier, customer, worker on history rows).
func Ptr(v ID) *ID {
	if IsNil(v) {
		return nil
	}
	return &v
}

// Deref returns the referenced ID or the zero UUID.
func Deref(p *ID) ID {
	if p == nil {
		return uuid.Nil
	}
	return *p
}
