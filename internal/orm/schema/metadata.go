// Package schema extracts entity metadata from tagged Go structs.
// It defines the immutable descriptor that drives all SQL generation, the parser
// that validates declarative tags and builds it, and a per-type registry.
package schema

import (
	"reflect"

	"github.com/darkshade/shade/internal/orm/accessor"
)

// Entity is the marker embedded in a struct to declare it an entity.
// The marker field carries the entity-level tags:
//
//	type User struct {
//		schema.Entity `entity:"User" table:"users"`
//		ID   *int64 `id:""`
//		Name string `column:"name"`
//	}
type Entity struct{}

// Column describes one mapped non-key column
type Column struct {
	Name     string
	Accessor accessor.Accessor
	Unique   bool
	Nullable bool
}

// Metadata is the immutable mapping descriptor for one entity type
type Metadata struct {
	entityType reflect.Type
	entityName string
	tableName  string
	idColumn   string
	idAccessor accessor.Accessor
	columns    []Column
	index      map[string]int
}

func newMetadata(t reflect.Type, entityName, tableName, idColumn string, id accessor.Accessor, columns []Column) *Metadata {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c.Name] = i
	}
	return &Metadata{
		entityType: t,
		entityName: entityName,
		tableName:  tableName,
		idColumn:   idColumn,
		idAccessor: id,
		columns:    columns,
		index:      index,
	}
}

// Type returns the struct type the metadata was parsed from
func (m *Metadata) Type() reflect.Type {
	return m.entityType
}

// EntityName returns the entity name
func (m *Metadata) EntityName() string {
	return m.entityName
}

// TableName returns the table name
func (m *Metadata) TableName() string {
	return m.tableName
}

// IDColumn returns the primary-key column name
func (m *Metadata) IDColumn() string {
	return m.idColumn
}

// IDAccessor returns the primary-key accessor
func (m *Metadata) IDAccessor() accessor.Accessor {
	return m.idAccessor
}

// Columns returns a copy of the non-key columns in mapping order
func (m *Metadata) Columns() []Column {
	out := make([]Column, len(m.columns))
	copy(out, m.columns)
	return out
}

// ColumnNames returns the non-key column names in mapping order
func (m *Metadata) ColumnNames() []string {
	names := make([]string, len(m.columns))
	for i, c := range m.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a non-key column by name
func (m *Metadata) Column(name string) (Column, bool) {
	i, ok := m.index[name]
	if !ok {
		return Column{}, false
	}
	return m.columns[i], true
}

// New returns a pointer to a new zero instance of the entity type
func (m *Metadata) New() any {
	return reflect.New(m.entityType).Interface()
}
