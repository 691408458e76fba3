// Package organization exposes guarded CRUD operations over directory organizations.
package organization

import (
	"strings"

	"hermes/internal/core/entity"
)

// Organization is a top-level directory group. The directory owns it; this
// package only passes it through.
type Organization struct {
	entity.BaseEntity

	// Name is the display name, unique within the directory
	Name string `db:"name" json:"name"`

	// Path is the hierarchical path of the group ("/" + name for top-level groups)
	Path string `db:"path" json:"path"`
}

// NewOrganization creates an Organization that the directory has not stored yet.
func NewOrganization(name string) *Organization {
	return &Organization{
		Name: name,
		Path: PathOf(name),
	}
}

// PathOf returns the path of a top-level group called name.
func PathOf(name string) string {
	return "/" + strings.TrimPrefix(name, "/")
}

// Rename changes the name and keeps the path in sync.
func (o *Organization) Rename(name string) {
	o.Name = name
	o.Path = PathOf(name)
}
