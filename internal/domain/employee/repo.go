package employee

import (
	"context"

	"hermes/internal/domain/organization"
)

// Repository performs the actual directory calls for employees. Every method
// is scoped by the parent organization, which callers always pass explicitly.
//
// Error conventions are the same as organization.Repository.
type Repository interface {
	FindByID(ctx context.Context, org *organization.Organization, id string) (*Employee, error)
	FindAll(ctx context.Context, org *organization.Organization, offset, limit int) ([]*Employee, error)
	Count(ctx context.Context, org *organization.Organization) (int, error)

	// Save creates emp as a member of org and stores the directory-assigned ID on it.
	Save(ctx context.Context, org *organization.Organization, emp *Employee) error
	Update(ctx context.Context, org *organization.Organization, emp *Employee) error
	Delete(ctx context.Context, org *organization.Organization, emp *Employee) error
}
