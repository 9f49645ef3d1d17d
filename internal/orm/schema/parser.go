package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/darkshade/shade/internal/orm/accessor"
)

// Tag keys recognised by the parser
const (
	TagEntity = "entity"
	TagTable  = "table"
	TagID     = "id"
	TagColumn = "column"
)

var entityType = reflect.TypeOf(Entity{})

// Property declares a getter/setter pair as a mapped member. Tag uses the same
// keys as struct fields, e.g. `column:"email_address"` or `id:""`.
type Property struct {
	Getter string
	Tag    reflect.StructTag
}

// PropertyMapper is implemented by entities that map getter/setter pairs.
// It is called once on a zero value while metadata is parsed.
type PropertyMapper interface {
	MappedProperties() []Property
}

// For parses the metadata of T
func For[T any]() (*Metadata, error) {
	return Parse(reflect.TypeFor[T]())
}

// Parse inspects the struct type t and builds its metadata.
// Pointer types are dereferenced.
func Parse(t reflect.Type) (*Metadata, error) {
	if t == nil {
		return nil, &Error{Type: "<nil>", Err: ErrUnsupportedType}
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, &Error{Type: t.String(), Err: ErrUnsupportedType}
	}

	p := &parser{t: t, names: make(map[string]bool)}
	return p.parse()
}

type parser struct {
	t        reflect.Type
	idColumn string
	idMember string
	id       accessor.Accessor
	columns  []Column
	names    map[string]bool
}

func (p *parser) parse() (*Metadata, error) {
	marker, ok := p.marker()
	if !ok {
		return nil, p.fail("", ErrMissingEntity)
	}
	entityName := tagName(marker.Tag, TagEntity, p.t.Name())
	tableName := tagName(marker.Tag, TagTable, p.t.Name())

	// Fields first, so a property never shadows a field on collision
	for i := 0; i < p.t.NumField(); i++ {
		f := p.t.Field(i)
		if f.Type == entityType {
			continue
		}
		if err := p.field(f); err != nil {
			return nil, err
		}
	}

	if err := p.properties(); err != nil {
		return nil, err
	}

	if p.id == nil {
		return nil, p.fail("", ErrMissingID)
	}
	if p.names[p.idColumn] {
		return nil, p.fail(p.idMember, fmt.Errorf("%w %s", ErrDuplicateColumn, p.idColumn))
	}

	return newMetadata(p.t, entityName, tableName, p.idColumn, p.id, p.columns), nil
}

func (p *parser) marker() (reflect.StructField, bool) {
	for i := 0; i < p.t.NumField(); i++ {
		if f := p.t.Field(i); f.Type == entityType {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

func (p *parser) field(f reflect.StructField) error {
	_, isID := f.Tag.Lookup(TagID)
	_, isColumn := f.Tag.Lookup(TagColumn)
	if !isID && !isColumn {
		return nil
	}

	acc, err := accessor.NewField(p.t, f)
	if err != nil {
		return p.fail(f.Name, fmt.Errorf("%w: %v", ErrUnsupportedType, err))
	}
	return p.member(f.Name, f.Name, f.Tag, acc)
}

func (p *parser) properties() error {
	mapper, ok := reflect.New(p.t).Interface().(PropertyMapper)
	if !ok {
		return nil
	}

	for _, prop := range mapper.MappedProperties() {
		_, isID := prop.Tag.Lookup(TagID)
		_, isColumn := prop.Tag.Lookup(TagColumn)
		if !isID && !isColumn {
			continue
		}

		acc, err := accessor.NewProperty(p.t, prop.Getter)
		if err != nil {
			if errors.Is(err, accessor.ErrUnsupported) {
				return p.fail(prop.Getter, fmt.Errorf("%w: %v", ErrUnsupportedType, err))
			}
			return p.fail(prop.Getter, fmt.Errorf("%w: %v", ErrInvalidProperty, err))
		}
		if err := p.member(prop.Getter, lowerFirst(accessor.PropertyBase(prop.Getter)), prop.Tag, acc); err != nil {
			return err
		}
	}
	return nil
}

// member registers one tagged member as either the primary key or a column
func (p *parser) member(member, defaultName string, tag reflect.StructTag, acc accessor.Accessor) error {
	name, opts := parseColumnTag(tag, defaultName)

	if _, isID := tag.Lookup(TagID); isID {
		if p.id != nil {
			return p.fail(member, ErrDuplicateID)
		}
		p.id, p.idColumn, p.idMember = acc, name, member
		return nil
	}

	if p.names[name] {
		return p.fail(member, fmt.Errorf("%w %s", ErrDuplicateColumn, name))
	}
	p.names[name] = true
	p.columns = append(p.columns, Column{
		Name:     name,
		Accessor: acc,
		Unique:   opts.unique,
		Nullable: !opts.notNull,
	})
	return nil
}

func (p *parser) fail(member string, err error) error {
	return &Error{Type: p.t.Name(), Member: member, Err: err}
}

type columnOptions struct {
	unique  bool
	notNull bool
}

// parseColumnTag reads `column:"name,unique,notnull"`
func parseColumnTag(tag reflect.StructTag, defaultName string) (string, columnOptions) {
	var opts columnOptions
	value, ok := tag.Lookup(TagColumn)
	if !ok {
		return defaultName, opts
	}

	parts := strings.Split(value, ",")
	name := strings.TrimSpace(parts[0])
	if name == "" {
		name = defaultName
	}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "unique":
			opts.unique = true
		case "notnull":
			opts.notNull = true
		}
	}
	return name, opts
}

// tagName returns the tag value for key, or def when it is absent or empty
func tagName(tag reflect.StructTag, key, def string) string {
	if v := strings.TrimSpace(tag.Get(key)); v != "" {
		return v
	}
	return def
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
