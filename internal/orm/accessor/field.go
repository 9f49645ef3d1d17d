package accessor

import (
	"fmt"
	"reflect"
)

// FieldAccessor reads and writes a struct field directly
type FieldAccessor struct {
	ptrType reflect.Type
	field   reflect.StructField
	codec   Codec
}

// NewField creates an accessor for field of the struct type owner
func NewField(owner reflect.Type, field reflect.StructField) (*FieldAccessor, error) {
	codec, err := For(field.Type)
	if err != nil {
		return nil, err
	}
	return &FieldAccessor{
		ptrType: reflect.PointerTo(owner),
		field:   field,
		codec:   codec,
	}, nil
}

// Member returns the field name
func (a *FieldAccessor) Member() string {
	return a.field.Name
}

// ValueType returns the field type
func (a *FieldAccessor) ValueType() reflect.Type {
	return a.field.Type
}

// Codec returns the field's codec
func (a *FieldAccessor) Codec() Codec {
	return a.codec
}

// Get returns the field value of instance
func (a *FieldAccessor) Get(instance any) (any, error) {
	f, err := a.resolve(instance, "get")
	if err != nil {
		return nil, err
	}
	if !f.CanInterface() {
		return nil, a.fail("get", ErrUnexported)
	}
	return f.Interface(), nil
}

// Set stores value into the field of instance
func (a *FieldAccessor) Set(instance any, value any) error {
	f, err := a.resolve(instance, "set")
	if err != nil {
		return err
	}
	if !f.CanSet() {
		return a.fail("set", ErrUnexported)
	}
	v, err := convert(a.field.Type, value)
	if err != nil {
		return a.fail("set", err)
	}
	f.Set(v)
	return nil
}

func (a *FieldAccessor) resolve(instance any, op string) (reflect.Value, error) {
	v, err := receiver(a.ptrType, instance)
	if err != nil {
		return reflect.Value{}, a.fail(op, err)
	}
	return v.Elem().FieldByIndex(a.field.Index), nil
}

func (a *FieldAccessor) fail(op string, err error) error {
	return &Error{Member: fmt.Sprintf("field %s.%s", a.ptrType.Elem().Name(), a.field.Name), Op: op, Err: err}
}
