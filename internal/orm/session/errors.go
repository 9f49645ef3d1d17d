package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNotCreated is returned when an operation runs before a session exists
	ErrNotCreated = errors.New("database connection is not created")

	// ErrClosed is returned when an operation runs on a closed session
	ErrClosed = errors.New("database connection is closed")

	// ErrAlreadyCreated is returned by a second session creation
	ErrAlreadyCreated = errors.New("session already exists")

	// ErrUnknownScheme is returned when no driver is registered for a URL scheme
	ErrUnknownScheme = errors.New("unknown database url scheme")
)

// Error reports that an operation needs an open session
type Error struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// ConnectionError reports a failure to establish a session. The password is never included.
type ConnectionError struct {
	Target string
	User   string
	Err    error
}

// Error implements the error interface
func (e *ConnectionError) Error() string {
	if e.User == "" {
		return fmt.Sprintf("cannot create database connection to %s: %v", e.Target, e.Err)
	}
	return fmt.Sprintf("cannot create database connection to %s with user %s: %v", e.Target, e.User, e.Err)
}

// Unwrap returns the underlying cause
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// CommitError reports a failed commit and the outcome of the rollback that followed it
type CommitError struct {
	Err         error
	RollbackErr error
}

// Error implements the error interface
func (e *CommitError) Error() string {
	if e.RollbackErr != nil {
		return fmt.Sprintf("failed to commit changes: %v; rollback failed: %v", e.Err, e.RollbackErr)
	}
	return fmt.Sprintf("failed to commit changes: %v", e.Err)
}

// Unwrap returns the commit error and, if any, the rollback error
func (e *CommitError) Unwrap() []error {
	if e.RollbackErr != nil {
		return []error{e.Err, e.RollbackErr}
	}
	return []error{e.Err}
}

// IsSessionError returns true if err is or wraps an *Error
func IsSessionError(err error) bool {
	var sessErr *Error
	return errors.As(err, &sessErr)
}

// IsConnectionError returns true if err is or wraps a *ConnectionError
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}
