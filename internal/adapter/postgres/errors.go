package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolationCode is the PostgreSQL error code for unique constraint violations.
const uniqueViolationCode = "23505"

// translateUniqueViolation maps a unique-violation on the given constraint to
// a domain sentinel error. Uniqueness races between concurrent inserts are
// resolved by the database constraint, not by a check-then-insert sequence.
func translateUniqueViolation(err error, constraint string, sentinel error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == constraint {
		return sentinel
	}
	return err
}
