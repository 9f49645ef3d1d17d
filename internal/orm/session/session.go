// Package session manages the single database connection the persistence engine
// works through. A session pins one connection with auto-commit disabled: a
// transaction is begun before the first statement and ends only on an explicit
// Commit or Rollback.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// txn is the subset of *sql.Tx a session needs
type txn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Commit() error
	Rollback() error
}

// Session is one live, non-autocommit database connection.
// A Session is not safe for concurrent use.
type Session struct {
	db      *sql.DB
	conn    *sql.Conn
	tx      txn
	ownsDB  bool
	closed  bool
	dialect Dialect
	target  string
	logger  *zap.Logger
	begin   func(ctx context.Context) (txn, error)
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger used for session events
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open connects to the database at rawURL. See resolve for the supported schemes.
// Failures are returned as *ConnectionError.
func Open(ctx context.Context, rawURL, user, password string, opts ...Option) (*Session, error) {
	t, err := resolve(rawURL, user, password)
	if err != nil {
		return nil, &ConnectionError{Target: t.redacted, User: user, Err: err}
	}

	db, err := sql.Open(t.driver, t.dsn)
	if err != nil {
		return nil, &ConnectionError{Target: t.redacted, User: user, Err: err}
	}
	// The session never needs more than its pinned connection
	db.SetMaxOpenConns(1)

	s, err := attach(ctx, db, t.dialect, t.redacted, true, opts)
	if err != nil {
		db.Close()
		return nil, &ConnectionError{Target: t.redacted, User: user, Err: err}
	}
	return s, nil
}

// New creates a session on an existing pool. The pool stays owned by the caller:
// Close releases the pinned connection but does not close db.
func New(ctx context.Context, db *sql.DB, dialect Dialect, opts ...Option) (*Session, error) {
	s, err := attach(ctx, db, dialect, dialect.Name(), false, opts)
	if err != nil {
		return nil, &ConnectionError{Target: dialect.Name(), Err: err}
	}
	return s, nil
}

func attach(ctx context.Context, db *sql.DB, dialect Dialect, target string, ownsDB bool, opts []Option) (*Session, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	s := &Session{
		db:      db,
		conn:    conn,
		ownsDB:  ownsDB,
		dialect: dialect,
		target:  target,
		logger:  zap.NewNop(),
	}
	s.begin = func(ctx context.Context) (txn, error) {
		return conn.BeginTx(ctx, nil)
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.Info("session opened", zap.String("target", target), zap.String("dialect", dialect.Name()))
	return s, nil
}

// CheckOpen returns a *Error when s is nil or closed. It is safe to call on a nil Session.
func (s *Session) CheckOpen(op string) error {
	if s == nil {
		return &Error{Op: op, Err: ErrNotCreated}
	}
	if s.closed {
		return &Error{Op: op, Err: ErrClosed}
	}
	return nil
}

// Dialect returns the session's SQL dialect
func (s *Session) Dialect() Dialect {
	return s.dialect
}

// Target returns the redacted connection target
func (s *Session) Target() string {
	return s.target
}

// IsClosed returns true once Close has been called
func (s *Session) IsClosed() bool {
	return s.closed
}

// InTransaction returns true while uncommitted work may be pending
func (s *Session) InTransaction() bool {
	return s.tx != nil
}

// Exec executes a statement that returns no rows
func (s *Session) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	tx, err := s.transaction(ctx, "exec")
	if err != nil {
		return nil, err
	}
	s.logger.Debug("executing statement", zap.String("sql", query), zap.Int("args", len(args)))
	return tx.ExecContext(ctx, query, args...)
}

// Query executes a statement that returns rows. The caller must close the rows.
func (s *Session) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	tx, err := s.transaction(ctx, "query")
	if err != nil {
		return nil, err
	}
	s.logger.Debug("executing query", zap.String("sql", query), zap.Int("args", len(args)))
	return tx.QueryContext(ctx, query, args...)
}

// QueryRow executes a statement expected to return at most one row
func (s *Session) QueryRow(ctx context.Context, query string, args ...any) (*sql.Row, error) {
	tx, err := s.transaction(ctx, "query")
	if err != nil {
		return nil, err
	}
	s.logger.Debug("executing query", zap.String("sql", query), zap.Int("args", len(args)))
	return tx.QueryRowContext(ctx, query, args...), nil
}

// transaction returns the open transaction, beginning one if needed
func (s *Session) transaction(ctx context.Context, op string) (txn, error) {
	if err := s.CheckOpen(op); err != nil {
		return nil, err
	}
	if s.tx == nil {
		tx, err := s.begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		s.tx = tx
	}
	return s.tx, nil
}

// Commit commits pending work. A failed commit is followed by exactly one
// rollback attempt and reported as *CommitError.
func (s *Session) Commit() error {
	if err := s.CheckOpen("commit"); err != nil {
		return err
	}
	if s.tx == nil {
		return nil
	}

	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		rbErr := tx.Rollback()
		// database/sql marks a transaction done once Commit was attempted
		if errors.Is(rbErr, sql.ErrTxDone) {
			rbErr = nil
		}
		s.logger.Warn("commit failed", zap.Error(err), zap.NamedError("rollback_error", rbErr))
		return &CommitError{Err: err, RollbackErr: rbErr}
	}
	return nil
}

// Rollback discards pending work
func (s *Session) Rollback() error {
	if err := s.CheckOpen("rollback"); err != nil {
		return err
	}
	return s.rollback()
}

func (s *Session) rollback() error {
	if s.tx == nil {
		return nil
	}

	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		s.logger.Warn("rollback failed", zap.Error(err))
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	s.logger.Debug("transaction rolled back")
	return nil
}

// Close rolls back pending work and releases the connection
func (s *Session) Close() error {
	if err := s.CheckOpen("close"); err != nil {
		return err
	}
	s.closed = true

	var errs []error
	if err := s.rollback(); err != nil {
		errs = append(errs, err)
	}
	if err := s.conn.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.ownsDB {
		if err := s.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("cannot close connection: %w", err)
	}
	s.logger.Info("session closed", zap.String("target", s.target))
	return nil
}
