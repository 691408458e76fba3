package organization

import (
	"context"
)

// Repository performs the actual directory calls for organizations.
//
// Implementations report absent entities with apperror.NewNotFound and
// state conflicts with apperror.NewConflict (or another conflict code); any
// other error counts as an unexpected failure.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Organization, error)

	// FindAll returns up to limit organizations starting at offset, in directory order.
	FindAll(ctx context.Context, offset, limit int) ([]*Organization, error)

	Count(ctx context.Context) (int, error)

	// Save creates org and stores the directory-assigned ID on it.
	Save(ctx context.Context, org *Organization) error

	Update(ctx context.Context, org *Organization) error

	Delete(ctx context.Context, org *Organization) error
}
