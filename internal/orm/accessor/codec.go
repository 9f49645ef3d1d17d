package accessor

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// ErrUnsupported is returned by For when a type has no codec
var ErrUnsupported = errors.New("unsupported value type")

// Kind identifies the scalar family a member value belongs to. The set is closed:
// every mapped member resolves to exactly one Kind when metadata is built.
type Kind int

const (
	// KindBool covers bool
	KindBool Kind = iota
	// KindInt covers int, int8, int16, int32 and int64
	KindInt
	// KindUint covers uint, uint8, uint16, uint32 and uint64
	KindUint
	// KindFloat covers float32 and float64
	KindFloat
	// KindString covers string
	KindString
	// KindBytes covers []byte
	KindBytes
	// KindTime covers time.Time
	KindTime
	// KindUUID covers uuid.UUID
	KindUUID
	// KindValuer covers types implementing driver.Valuer with a sql.Scanner pointer
	KindValuer
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindTime:
		return "time"
	case KindUUID:
		return "uuid"
	case KindValuer:
		return "valuer"
	default:
		return "unknown"
	}
}

// Codec converts between a member's Go value and the database driver's representation
type Codec interface {
	// Kind returns the scalar family handled by the codec
	Kind() Kind
	// Nullable reports whether the member can hold NULL (pointer members)
	Nullable() bool
	// Bind converts a value to a driver argument. Nil and nil pointers bind as NULL.
	Bind(value any) (any, error)
	// Holder returns a fresh scan destination suitable for rows.Scan
	Holder() any
	// Decode converts a scanned holder into a value of the member's exact type
	Decode(holder any) (any, error)
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
	valuerType  = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
)

// For selects the codec for a member of type t
func For(t reflect.Type) (Codec, error) {
	c := &scalarCodec{typ: t, elem: t}
	if t.Kind() == reflect.Pointer {
		c.ptr = true
		c.elem = t.Elem()
	}

	kind, ok := kindOf(c.elem)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, t)
	}
	c.kind = kind
	return c, nil
}

func kindOf(t reflect.Type) (Kind, bool) {
	switch {
	case t == uuidType:
		return KindUUID, true
	case t == timeType || (t.Kind() == reflect.Struct && t.ConvertibleTo(timeType)):
		return KindTime, true
	case t.Implements(valuerType) && reflect.PointerTo(t).Implements(scannerType):
		return KindValuer, true
	}

	switch t.Kind() {
	case reflect.Bool:
		return KindBool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint, true
	case reflect.Float32, reflect.Float64:
		return KindFloat, true
	case reflect.String:
		return KindString, true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindBytes, true
		}
	}
	return 0, false
}

type scalarCodec struct {
	kind Kind
	typ  reflect.Type // declared member type
	elem reflect.Type // typ without the pointer
	ptr  bool
}

func (c *scalarCodec) Kind() Kind {
	return c.kind
}

func (c *scalarCodec) Nullable() bool {
	return c.ptr
}

func (c *scalarCodec) Bind(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer && rv.Type() != c.elem {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Type() != c.elem {
		if !compatibleKinds(rv.Type(), c.elem) || !rv.Type().ConvertibleTo(c.elem) {
			return nil, fmt.Errorf("%w: cannot bind %s as %s", ErrIncompatible, rv.Type(), c.elem)
		}
		rv = rv.Convert(c.elem)
	}

	switch c.kind {
	case KindBool:
		return rv.Bool(), nil
	case KindInt:
		return rv.Int(), nil
	case KindUint:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d overflows int64", ErrIncompatible, u)
		}
		return int64(u), nil
	case KindFloat:
		return rv.Float(), nil
	case KindString:
		return rv.String(), nil
	case KindBytes:
		if rv.IsNil() {
			return nil, nil
		}
		return rv.Bytes(), nil
	case KindTime:
		return rv.Convert(timeType).Interface(), nil
	case KindUUID:
		return rv.Interface().(uuid.UUID).String(), nil
	case KindValuer:
		return rv.Interface().(driver.Valuer).Value()
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, c.typ)
}

func (c *scalarCodec) Holder() any {
	switch c.kind {
	case KindBool:
		return new(sql.NullBool)
	case KindInt, KindUint:
		return new(sql.NullInt64)
	case KindFloat:
		return new(sql.NullFloat64)
	case KindString:
		return new(sql.NullString)
	case KindBytes:
		return new([]byte)
	case KindTime:
		return new(sql.NullTime)
	case KindUUID:
		return new(uuid.NullUUID)
	default:
		return &nullScanner{target: reflect.New(c.elem)}
	}
}

func (c *scalarCodec) Decode(holder any) (any, error) {
	var v reflect.Value
	valid := true

	switch h := holder.(type) {
	case *sql.NullBool:
		valid, v = h.Valid, reflect.ValueOf(h.Bool)
	case *sql.NullInt64:
		valid, v = h.Valid, reflect.ValueOf(h.Int64)
		if valid && c.kind == KindUint {
			if h.Int64 < 0 {
				return nil, fmt.Errorf("%w: %d is negative for %s", ErrIncompatible, h.Int64, c.elem)
			}
			v = reflect.ValueOf(uint64(h.Int64))
		}
	case *sql.NullFloat64:
		valid, v = h.Valid, reflect.ValueOf(h.Float64)
	case *sql.NullString:
		valid, v = h.Valid, reflect.ValueOf(h.String)
	case *[]byte:
		valid, v = *h != nil, reflect.ValueOf(*h)
	case *sql.NullTime:
		valid, v = h.Valid, reflect.ValueOf(h.Time)
	case *uuid.NullUUID:
		valid, v = h.Valid, reflect.ValueOf(h.UUID)
	case *nullScanner:
		valid, v = h.valid, h.target.Elem()
	default:
		return nil, fmt.Errorf("%w: unexpected holder %T", ErrIncompatible, holder)
	}

	if !valid {
		return reflect.Zero(c.typ).Interface(), nil
	}

	if v.Type() != c.elem {
		if overflows(c.elem, v) {
			return nil, fmt.Errorf("%w: %v overflows %s", ErrIncompatible, v.Interface(), c.elem)
		}
		v = v.Convert(c.elem)
	}
	if c.ptr {
		p := reflect.New(c.elem)
		p.Elem().Set(v)
		return p.Interface(), nil
	}
	return v.Interface(), nil
}

func overflows(t reflect.Type, v reflect.Value) bool {
	z := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return z.OverflowInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return z.OverflowUint(v.Uint())
	case reflect.Float32, reflect.Float64:
		return z.OverflowFloat(v.Float())
	}
	return false
}

// nullScanner adapts a sql.Scanner value so NULL leaves it untouched
type nullScanner struct {
	target reflect.Value // pointer to the member type
	valid  bool
}

func (n *nullScanner) Scan(src any) error {
	if src == nil {
		n.valid = false
		return nil
	}
	n.valid = true
	return n.target.Interface().(sql.Scanner).Scan(src)
}
