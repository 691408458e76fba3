package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"hermes/internal/core/apperror"
)

// MapError translates PostgreSQL errors into directory errors: unique
// violations become conflicts carrying the server detail, foreign key
// violations mean the parent organization is gone. Other errors are returned
// wrapped with the operation name.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		msg := pgErr.Detail
		if msg == "" {
			msg = pgErr.Message
		}
		return apperror.NewConflict(msg).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)

	case pgerrcode.ForeignKeyViolation:
		return apperror.NewNotFound("organization", pgErr.Detail).WithCause(err)

	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return apperror.NewConflict("The directory was changed concurrently.").WithCause(err)

	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.CannotConnectNow,
		pgerrcode.SQLClientUnableToEstablishSQLConnection,
		pgerrcode.AdminShutdown,
		pgerrcode.CrashShutdown,
		pgerrcode.TooManyConnections:
		return apperror.NewUnavailable(err).WithDetail("operation", op)

	default:
		return fmt.Errorf("%s: postgres error [%s]: %s: %w", op, pgErr.Code, pgErr.Message, err)
	}
}
