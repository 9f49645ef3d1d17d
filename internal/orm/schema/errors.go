package schema

import (
	"errors"
	"fmt"
)

// Schema error causes
var (
	// ErrMissingEntity is returned when a type does not embed the Entity marker
	ErrMissingEntity = errors.New("missing entity declaration")

	// ErrDuplicateID is returned when more than one member is tagged as primary key
	ErrDuplicateID = errors.New("duplicate id")

	// ErrDuplicateColumn is returned when two members map to the same column name
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrMissingID is returned when no member is tagged as primary key
	ErrMissingID = errors.New("missing id")

	// ErrUnsupportedType is returned for non-struct types and unmappable member types
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidProperty is returned when a mapped getter/setter pair is unusable
	ErrInvalidProperty = errors.New("invalid property")
)

// Error reports a malformed entity declaration
type Error struct {
	Type   string
	Member string
	Err    error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("schema error in %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("schema error in %s.%s: %v", e.Type, e.Member, e.Err)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// IsSchemaError returns true if err is or wraps an *Error
func IsSchemaError(err error) bool {
	var schemaErr *Error
	return errors.As(err, &schemaErr)
}
