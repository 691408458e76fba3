// Package tx provides transaction management abstractions.
package tx

import (
	"context"
)

// Manager runs fn within a database transaction. If fn returns an error the
// transaction is rolled back, otherwise it is committed. Nested calls reuse
// the transaction stored in ctx.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transactions.
type ReadOnlyManager interface {
	Manager
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
