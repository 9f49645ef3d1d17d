package commands

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/darkshade/shade/internal/orm/schema"
	"github.com/darkshade/shade/pkg/shade"
)

// Note is the entity used by the demo command
type Note struct {
	shade.Entity `table:"notes"`
	ID           *int64    `id:"" column:"id"`
	Title        string    `column:"title,notnull"`
	Body         *string   `column:"body"`
	Pinned       bool      `column:"pinned"`
	Created      time.Time `column:"created_at"`
}

// Tag shows a client generated key and a unique column
type Tag struct {
	shade.Entity `entity:"Label" table:"tags"`
	ID           uuid.UUID `id:"" column:"id"`
	Name         string    `column:"name,notnull,unique"`
	uses         int64
}

func (t *Tag) MappedProperties() []shade.Property {
	return []shade.Property{{Getter: "GetUses", Tag: `column:"uses"`}}
}

func (t *Tag) GetUses() int64  { return t.uses }
func (t *Tag) SetUses(n int64) { t.uses = n }

var entityTypes = []reflect.Type{
	reflect.TypeOf(Note{}),
	reflect.TypeOf(Tag{}),
}

// catalog parses the bundled entities into a fresh registry
func catalog() (*schema.Registry, error) {
	registry := schema.NewRegistry()
	for _, t := range entityTypes {
		if _, err := registry.Metadata(t); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// lookup finds an entity by name, ignoring case
func lookup(registry *schema.Registry, name string) (*schema.Metadata, bool) {
	for _, t := range entityTypes {
		meta, ok := registry.Get(t)
		if ok && strings.EqualFold(meta.EntityName(), name) {
			return meta, true
		}
	}
	return nil, false
}

// notesTable returns the DDL for the notes table in the given dialect
func notesTable(dialect string) (string, error) {
	switch dialect {
	case "sqlite":
		return `CREATE TABLE IF NOT EXISTS notes (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT NOT NULL, body TEXT, pinned BOOLEAN, created_at DATETIME)`, nil
	case "mysql":
		return `CREATE TABLE IF NOT EXISTS notes (id BIGINT AUTO_INCREMENT PRIMARY KEY, title VARCHAR(255) NOT NULL, body TEXT, pinned BOOLEAN, created_at DATETIME(6))`, nil
	case "postgres":
		return `CREATE TABLE IF NOT EXISTS notes (id BIGSERIAL PRIMARY KEY, title TEXT NOT NULL, body TEXT, pinned BOOLEAN, created_at TIMESTAMPTZ)`, nil
	}
	return "", fmt.Errorf("no notes table for dialect %s", dialect)
}
