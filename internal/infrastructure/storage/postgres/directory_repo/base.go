// Package directory_repo stores organizations and employees in PostgreSQL.
// It is the self-hosted alternative to the Keycloak directory and follows the
// same error conventions: NotFound for absent rows, Conflict for clashes.
package directory_repo

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"hermes/internal/core/apperror"
	"hermes/internal/core/tx"
	"hermes/internal/infrastructure/storage/postgres"
)

// store is the part of postgres.TxManager the repositories use.
type store interface {
	tx.ReadOnlyManager
	GetQuerier(ctx context.Context) postgres.Querier
}

// readOnly runs fn in a read-only transaction with that transaction's querier.
func readOnly(ctx context.Context, s store, fn func(ctx context.Context, q postgres.Querier) error) error {
	return s.ReadOnly(ctx, func(ctx context.Context) error {
		return fn(ctx, s.GetQuerier(ctx))
	})
}

// builder returns a squirrel builder with PostgreSQL placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// paginate applies offset and limit. A non-positive limit means no limit.
func paginate(q squirrel.SelectBuilder, offset, limit int) squirrel.SelectBuilder {
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return q
}

// count runs a COUNT(*) query.
func count(ctx context.Context, q postgres.Querier, b squirrel.SelectBuilder, op string) (int, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(op, err)
	}
	return n, nil
}

// versionMismatch resolves an UPDATE ... RETURNING that matched no row: the
// row is either gone or was changed by someone else.
func versionMismatch(ctx context.Context, q postgres.Querier, exists squirrel.SelectBuilder, entity, id string) error {
	sql, args, err := exists.ToSql()
	if err != nil {
		return err
	}
	var one int
	err = q.QueryRow(ctx, sql, args...).Scan(&one)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperror.NewNotFound(entity, id)
	case err != nil:
		return postgres.MapError("check "+entity, err)
	default:
		return apperror.NewConcurrentModification(entity, id)
	}
}
