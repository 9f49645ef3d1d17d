// Package shade maps tagged Go structs onto single relational tables.
//
// Declare an entity by embedding Entity and tagging its members:
//
//	type User struct {
//		shade.Entity `table:"users"`
//		ID     *int64 `id:"" column:"id"`
//		Name   string `column:"name,notnull"`
//		Active bool   `column:"active"`
//	}
//
// Then open a manager and work through a typed repository:
//
//	m, err := shade.Open(ctx, "sqlite3:app.db", "", "")
//	users, err := shade.NewRepository[User, int64](m)
//	err = users.Save(ctx, &User{Name: "Ada", Active: true})
package shade

import (
	"context"

	"github.com/darkshade/shade/internal/orm/accessor"
	"github.com/darkshade/shade/internal/orm/crud"
	"github.com/darkshade/shade/internal/orm/schema"
	"github.com/darkshade/shade/internal/orm/session"
)

// Entity is the marker embedded in every mapped struct. Its field tags
// `entity:"name"` and `table:"name"` override the defaults.
type Entity = schema.Entity

// Property declares a getter/setter pair as a mapped member
type Property = schema.Property

// PropertyMapper is implemented by entities that map getter/setter pairs
type PropertyMapper = schema.PropertyMapper

// Manager is the persistence engine bound to one session
type Manager = crud.Manager

// Option configures a Manager
type Option = crud.Option

// WithLogger sets the zap logger used by the manager and its session
var WithLogger = crud.WithLogger

// Error types surfaced by the package
type (
	SchemaError      = schema.Error
	AccessError      = accessor.Error
	SessionError     = session.Error
	ConnectionError  = session.ConnectionError
	CommitError      = session.CommitError
	PersistenceError = crud.PersistenceError
)

// Sentinel errors, for use with errors.Is
var (
	ErrNotCreated          = session.ErrNotCreated
	ErrClosed              = session.ErrClosed
	ErrAlreadyCreated      = session.ErrAlreadyCreated
	ErrUniqueViolation     = crud.ErrUniqueViolation
	ErrForeignKeyViolation = crud.ErrForeignKeyViolation
	ErrNullValue           = crud.ErrNullValue
	ErrMissingEntity       = schema.ErrMissingEntity
	ErrMissingID           = schema.ErrMissingID
	ErrDuplicateID         = schema.ErrDuplicateID
	ErrDuplicateColumn     = schema.ErrDuplicateColumn
	ErrUnsupportedType     = schema.ErrUnsupportedType
	ErrInvalidProperty     = schema.ErrInvalidProperty
)

// registry caches metadata for every repository created by this package
var registry = schema.NewRegistry()

// Open creates a Manager and its session in one step
func Open(ctx context.Context, url, user, password string, opts ...Option) (*Manager, error) {
	m := crud.NewManager(opts...)
	if err := m.CreateSession(ctx, url, user, password); err != nil {
		return nil, err
	}
	return m, nil
}

// MetadataFor returns the cached metadata of T, parsing it on first use
func MetadataFor[T any]() (*schema.Metadata, error) {
	return schema.MetadataFor[T](registry)
}
