package crud

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Common persistence error types
var (
	// ErrUniqueViolation is returned when a unique constraint is violated
	ErrUniqueViolation = errors.New("unique constraint violation")

	// ErrForeignKeyViolation is returned when a foreign key constraint is violated
	ErrForeignKeyViolation = errors.New("foreign key constraint violation")

	// ErrCheckViolation is returned when a check constraint is violated
	ErrCheckViolation = errors.New("check constraint violation")

	// ErrNotNullViolation is returned when a NOT NULL constraint is violated
	ErrNotNullViolation = errors.New("not null constraint violation")

	// ErrNullValue is returned when a notnull column holds nil before any SQL runs
	ErrNullValue = errors.New("nil value for notnull column")

	// ErrMissingColumn is returned when a result set lacks a mapped column
	ErrMissingColumn = errors.New("mapped column missing from result")

	// ErrNoID is returned when an operation needs the id of an entity that has none
	ErrNoID = errors.New("entity has no id")
)

// PersistenceError reports a failed statement, binding, materialization or commit
type PersistenceError struct {
	Op    string
	Table string
	Err   error
}

// Error implements the error interface
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying cause
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError returns true if err is or wraps a *PersistenceError
func IsPersistenceError(err error) bool {
	var persistErr *PersistenceError
	return errors.As(err, &persistErr)
}

// ConvertDBError converts driver-specific constraint errors to the sentinels above.
// Unrecognised errors are returned unchanged.
func ConvertDBError(err error) error {
	if err == nil {
		return nil
	}

	// PostgreSQL (pgx)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if sentinel := postgresCode(pgErr.Code); sentinel != nil {
			return convertPostgres(sentinel, err, pgErr.Detail, pgErr.ColumnName)
		}
		return err
	}

	// PostgreSQL (lib/pq)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if sentinel := postgresCode(string(pqErr.Code)); sentinel != nil {
			return convertPostgres(sentinel, err, pqErr.Detail, pqErr.Column)
		}
		return err
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %w", ErrForeignKeyViolation, err)
		case sqlite3.ErrConstraintCheck:
			return fmt.Errorf("%w: %w", ErrCheckViolation, err)
		case sqlite3.ErrConstraintNotNull:
			return fmt.Errorf("%w: %w", ErrNotNullViolation, err)
		}
		return err
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062: // ER_DUP_ENTRY
			return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
		case 1451, 1452: // ER_ROW_IS_REFERENCED_2, ER_NO_REFERENCED_ROW_2
			return fmt.Errorf("%w: %w", ErrForeignKeyViolation, err)
		case 3819: // ER_CHECK_CONSTRAINT_VIOLATED
			return fmt.Errorf("%w: %w", ErrCheckViolation, err)
		case 1048: // ER_BAD_NULL_ERROR
			return fmt.Errorf("%w: %w", ErrNotNullViolation, err)
		}
	}

	return err
}

func postgresCode(code string) error {
	switch code {
	case "23505": // unique_violation
		return ErrUniqueViolation
	case "23503": // foreign_key_violation
		return ErrForeignKeyViolation
	case "23514": // check_violation
		return ErrCheckViolation
	case "23502": // not_null_violation
		return ErrNotNullViolation
	}
	return nil
}

func convertPostgres(sentinel, cause error, detail, column string) error {
	if sentinel == ErrNotNullViolation {
		return fmt.Errorf("%w: column %s: %w", sentinel, column, cause)
	}
	return fmt.Errorf("%w: %s: %w", sentinel, detail, cause)
}

// IsUniqueViolation returns true if the error is ErrUniqueViolation
func IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrUniqueViolation)
}

// IsForeignKeyViolation returns true if the error is ErrForeignKeyViolation
func IsForeignKeyViolation(err error) bool {
	return errors.Is(err, ErrForeignKeyViolation)
}
