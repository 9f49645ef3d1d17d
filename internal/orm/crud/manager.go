// Package crud is the persistence engine. A Manager owns one session and turns
// entity metadata plus instances into INSERT, UPDATE, SELECT and DELETE
// statements, converting member values to and from driver values on the way.
package crud

import (
	"context"
	"reflect"

	"go.uber.org/zap"

	"github.com/darkshade/shade/internal/orm/schema"
	"github.com/darkshade/shade/internal/orm/session"
)

// Manager executes persistence operations through a single session.
// A Manager is not safe for concurrent use; callers serialize access.
type Manager struct {
	session *session.Session
	created bool
	logger  *zap.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger used by the manager and its session
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a Manager without a session
func NewManager(opts ...Option) *Manager {
	m := &Manager{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateSession opens the manager's session. It may succeed only once per Manager.
func (m *Manager) CreateSession(ctx context.Context, url, user, password string) error {
	if m.created {
		return &session.Error{Op: "create session", Err: session.ErrAlreadyCreated}
	}

	s, err := session.Open(ctx, url, user, password, session.WithLogger(m.logger))
	if err != nil {
		return err
	}
	m.session = s
	m.created = true
	return nil
}

// AttachSession installs an existing session, under the same once-only rule as CreateSession
func (m *Manager) AttachSession(s *session.Session) error {
	if m.created {
		return &session.Error{Op: "attach session", Err: session.ErrAlreadyCreated}
	}
	if err := s.CheckOpen("attach session"); err != nil {
		return err
	}
	m.session = s
	m.created = true
	return nil
}

// CloseSession rolls back uncommitted work and closes the session
func (m *Manager) CloseSession() error {
	if err := m.session.CheckOpen("close session"); err != nil {
		return err
	}
	return m.session.Close()
}

// Session returns the manager's session, or nil before one is created
func (m *Manager) Session() *session.Session {
	return m.session
}

// fail rolls back pending work and wraps err as a *PersistenceError
func (m *Manager) fail(op string, meta *schema.Metadata, err error) error {
	if rbErr := m.session.Rollback(); rbErr != nil {
		m.logger.Warn("rollback after failed statement failed",
			zap.String("table", meta.TableName()),
			zap.Error(rbErr),
		)
	}
	return &PersistenceError{Op: op, Table: meta.TableName(), Err: ConvertDBError(err)}
}

// commit commits pending work, wrapping failures as a *PersistenceError
func (m *Manager) commit(op string, meta *schema.Metadata) error {
	if err := m.session.Commit(); err != nil {
		return &PersistenceError{Op: op, Table: meta.TableName(), Err: err}
	}
	return nil
}

// absent reports whether an id value means "not yet persisted":
// nil, a nil pointer, or the zero value of its type.
func absent(id any) bool {
	if id == nil {
		return true
	}
	return reflect.ValueOf(id).IsZero()
}
