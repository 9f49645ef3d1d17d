package accessor

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// ErrMethod is returned when a getter/setter pair is missing or mis-shaped
var ErrMethod = errors.New("invalid accessor method")

// PropertyAccessor reads through a getter method and writes through its setter
type PropertyAccessor struct {
	ptrType   reflect.Type
	name      string
	valueType reflect.Type
	getter    reflect.Method
	setter    reflect.Method
	codec     Codec
}

// NewProperty creates an accessor for the getter named getter on the struct
// type owner. The setter is Set<Base>, see PropertyBase.
func NewProperty(owner reflect.Type, getter string) (*PropertyAccessor, error) {
	ptrType := reflect.PointerTo(owner)

	get, ok := ptrType.MethodByName(getter)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no method %s", ErrMethod, owner.Name(), getter)
	}
	// Method types from a reflect.Type include the receiver
	if get.Type.NumIn() != 1 || get.Type.NumOut() != 1 {
		return nil, fmt.Errorf("%w: %s.%s must take no arguments and return one value", ErrMethod, owner.Name(), getter)
	}
	valueType := get.Type.Out(0)

	setterName := "Set" + PropertyBase(getter)
	set, ok := ptrType.MethodByName(setterName)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no setter %s for %s", ErrMethod, owner.Name(), setterName, getter)
	}
	if set.Type.NumIn() != 2 || set.Type.NumOut() != 0 || set.Type.In(1) != valueType {
		return nil, fmt.Errorf("%w: %s.%s must take one %s and return nothing", ErrMethod, owner.Name(), setterName, valueType)
	}

	codec, err := For(valueType)
	if err != nil {
		return nil, err
	}

	return &PropertyAccessor{
		ptrType:   ptrType,
		name:      getter,
		valueType: valueType,
		getter:    get,
		setter:    set,
		codec:     codec,
	}, nil
}

// PropertyBase strips a Get or Is prefix from a getter name.
// "GetEmail" and "Email" both yield "Email", "IsActive" yields "Active".
func PropertyBase(getter string) string {
	for _, prefix := range []string{"Get", "Is"} {
		rest := strings.TrimPrefix(getter, prefix)
		if rest != getter && rest != "" && unicode.IsUpper(rune(rest[0])) {
			return rest
		}
	}
	return getter
}

// Member returns the getter name
func (a *PropertyAccessor) Member() string {
	return a.name
}

// ValueType returns the getter's return type
func (a *PropertyAccessor) ValueType() reflect.Type {
	return a.valueType
}

// Codec returns the property's codec
func (a *PropertyAccessor) Codec() Codec {
	return a.codec
}

// Get calls the getter on instance
func (a *PropertyAccessor) Get(instance any) (value any, err error) {
	v, err := receiver(a.ptrType, instance)
	if err != nil {
		return nil, a.fail("get", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = a.fail("get", fmt.Errorf("%w: %v", ErrPanic, p))
		}
	}()

	out := a.getter.Func.Call([]reflect.Value{v})
	return out[0].Interface(), nil
}

// Set calls the setter on instance with value
func (a *PropertyAccessor) Set(instance any, value any) (err error) {
	v, err := receiver(a.ptrType, instance)
	if err != nil {
		return a.fail("set", err)
	}
	arg, err := convert(a.valueType, value)
	if err != nil {
		return a.fail("set", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = a.fail("set", fmt.Errorf("%w: %v", ErrPanic, p))
		}
	}()

	a.setter.Func.Call([]reflect.Value{v, arg})
	return nil
}

func (a *PropertyAccessor) fail(op string, err error) error {
	return &Error{Member: fmt.Sprintf("property %s.%s", a.ptrType.Elem().Name(), a.name), Op: op, Err: err}
}
