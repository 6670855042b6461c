package core

import (
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// MappingError indicates a parsed row does not fit the target update schema:
// a required column is missing from the header, or a value cannot be
// converted to the column's type.
type MappingError struct {
	Line   int    // 1-based source line, 0 when the header itself is at fault
	Column string // offending column, empty for row-level problems
	Reason string
}

func (e *MappingError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("line %d: column %q: %s", e.Line, e.Column, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("column %q: %s", e.Column, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	default:
		return e.Reason
	}
}

// UpdateError indicates a statement in a bulk update batch failed. The whole
// batch is rolled back when this surfaces.
type UpdateError struct {
	Line int    // source line of the failing parameter set, 0 for batch-level failures
	Key  string // target identifier of the failing row, if known
	Err  error
}

func (e *UpdateError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("update line %d (id %q): %v", e.Line, e.Key, e.Err)
	}
	return fmt.Sprintf("update batch: %v", e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }

// ValidationError indicates a required field is missing or malformed on a
// direct JSON input (client registration).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// PersistenceError indicates a database operation failed outside row-level
// batch processing: a read query, a single-shot insert, or transaction
// begin/commit.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsDuplicateKey reports whether err is a Postgres unique-violation.
func IsDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsConnectionError reports whether err means the database could not be
// reached, as opposed to a statement-level failure.
func IsConnectionError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}
