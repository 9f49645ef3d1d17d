// Package accessor provides uniform read/write access to the mapped members of
// an entity, independent of whether a value lives in a struct field or behind a
// getter/setter method pair.
package accessor

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrUnexported is returned when a mapped field cannot be reached through reflection
	ErrUnexported = errors.New("member is not exported")

	// ErrInstance is returned when the instance is nil or not of the mapped type
	ErrInstance = errors.New("invalid instance")

	// ErrIncompatible is returned when a value cannot be stored in the member
	ErrIncompatible = errors.New("incompatible value")

	// ErrPanic is returned when a getter or setter panics
	ErrPanic = errors.New("accessor method panicked")
)

// Accessor reads and writes one mapped member of an entity instance.
// Instances are always pointers to the entity struct.
type Accessor interface {
	// Member returns the Go identifier the accessor is bound to
	Member() string
	// ValueType returns the declared type of the member's value
	ValueType() reflect.Type
	// Codec returns the codec selected for ValueType
	Codec() Codec
	// Get returns the member's current value
	Get(instance any) (any, error)
	// Set stores value into the member; nil stores the zero value
	Set(instance any, value any) error
}

// Error is returned when a mapped member cannot be read or written
type Error struct {
	Member string
	Op     string
	Err    error
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Member, e.Err)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// IsAccessError returns true if err is or wraps an *Error
func IsAccessError(err error) bool {
	var accErr *Error
	return errors.As(err, &accErr)
}

// receiver validates instance against the entity pointer type and returns it
func receiver(ptrType reflect.Type, instance any) (reflect.Value, error) {
	if instance == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil", ErrInstance)
	}
	v := reflect.ValueOf(instance)
	if v.Type() != ptrType {
		return reflect.Value{}, fmt.Errorf("%w: expected %s, got %s", ErrInstance, ptrType, v.Type())
	}
	if v.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: nil %s", ErrInstance, ptrType)
	}
	return v, nil
}

// convert turns value into a reflect.Value of type t. A nil value yields the zero value.
func convert(t reflect.Type, value any) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return v, nil
	}

	// Allow *T into T and T into *T so decoded values and plain literals both work
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Zero(t), nil
		}
		return convert(t, v.Elem().Interface())
	}
	if t.Kind() == reflect.Pointer {
		inner, err := convert(t.Elem(), value)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(inner)
		return p, nil
	}

	if compatibleKinds(v.Type(), t) && v.Type().ConvertibleTo(t) {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", ErrIncompatible, v.Type(), t)
}

// compatibleKinds rejects conversions that reflect allows but that change meaning,
// such as int to string.
func compatibleKinds(from, to reflect.Type) bool {
	switch {
	case isNumeric(from.Kind()) && isNumeric(to.Kind()):
		return true
	case from.Kind() == reflect.String && to.Kind() == reflect.String:
		return true
	case from.Kind() == reflect.Bool && to.Kind() == reflect.Bool:
		return true
	case from.Kind() == to.Kind() && from.Kind() != reflect.String && !isNumeric(from.Kind()):
		return true
	}
	return false
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
