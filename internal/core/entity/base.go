package entity

import (
	"hermes/internal/core/id"
)

// BaseEntity contains the fields every directory entity carries.
type BaseEntity struct {
	// ID is the opaque identifier assigned by the directory
	ID string `db:"id" json:"id"`

	// Version for optimistic locking. Directories without versioning leave it at zero.
	Version int `db:"version" json:"version,omitempty"`

	// Attributes stores custom directory attributes (JSONB in PostgreSQL)
	Attributes Attributes `db:"attributes" json:"attributes,omitempty"`
}

// EnsureID assigns a fresh identifier when the entity has none yet.
func (b *BaseEntity) EnsureID() string {
	if b.ID == "" {
		b.ID = id.New()
	}
	return b.ID
}

// IsNew reports whether the directory has not assigned an identifier yet.
func (b *BaseEntity) IsNew() bool {
	return b.ID == ""
}

// Touch increments version (for optimistic locking).
func (b *BaseEntity) Touch() {
	b.Version++
}
