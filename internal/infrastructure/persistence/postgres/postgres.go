package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
// Repositories translate it into the matching Conflict sentinel so races on
// constraints (duplicate pending request, duplicate membership, taken
// username) surface as Conflict rather than an opaque driver error.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
