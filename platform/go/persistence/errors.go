package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors surfaced by the stores. Services translate these to their
// own domain errors.
var (
	ErrPersonNotFound     = errors.New("person not found")
	ErrPersonExists       = errors.New("person already exists")
	ErrEventNotFound      = errors.New("event not found")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrDivisionNotFound   = errors.New("division not found")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
