// Package employee exposes guarded CRUD operations over the employees of an organization.
package employee

import (
	"strings"
	"time"

	"hermes/internal/core/entity"
)

// Employee is a directory user that belongs to exactly one organization.
type Employee struct {
	entity.BaseEntity

	// OrganizationID references the parent organization
	OrganizationID string `db:"organization_id" json:"organizationId"`

	Username  string `db:"username" json:"username"`
	Email     string `db:"email" json:"email,omitempty"`
	FirstName string `db:"first_name" json:"firstName,omitempty"`
	LastName  string `db:"last_name" json:"lastName,omitempty"`
	Enabled   bool   `db:"enabled" json:"enabled"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewEmployee creates an enabled Employee that the directory has not stored yet.
func NewEmployee(username, email, firstName, lastName string) *Employee {
	return &Employee{
		Username:  strings.ToLower(username),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Enabled:   true,
	}
}

// FullName joins first and last name, falling back to the username.
func (e *Employee) FullName() string {
	name := strings.TrimSpace(e.FirstName + " " + e.LastName)
	if name == "" {
		return e.Username
	}
	return name
}
