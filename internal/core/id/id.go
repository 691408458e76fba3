// Package id generates identifiers for directory entities.
// Directories treat identifiers as opaque strings; locally generated ones are
// UUIDv7 so they sort by creation time.
package id

import (
	"github.com/google/uuid"
)

// New generates a new UUIDv7 string.
func New() string {
	v, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.NewString()
	}
	return v.String()
}

// Valid reports whether s is a well-formed UUID.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
