package accessor

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type status string

// money is stored as integer cents
type money struct{ cents int64 }

func (m money) Value() (driver.Value, error) { return m.cents, nil }

func (m *money) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		m.cents = v
		return nil
	}
	return fmt.Errorf("cannot scan %T into money", src)
}

func codecFor(t *testing.T, v any) Codec {
	t.Helper()
	c, err := For(reflect.TypeOf(v))
	require.NoError(t, err)
	return c
}

func TestFor_Kinds(t *testing.T) {
	tests := []struct {
		value any
		kind  Kind
	}{
		{true, KindBool},
		{int(1), KindInt},
		{int8(1), KindInt},
		{int64(1), KindInt},
		{uint32(1), KindUint},
		{float32(1), KindFloat},
		{"x", KindString},
		{status("x"), KindString},
		{[]byte("x"), KindBytes},
		{time.Time{}, KindTime},
		{uuid.UUID{}, KindUUID},
		{money{}, KindValuer},
		{new(int64), KindInt},
		{new(uuid.UUID), KindUUID},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%T", tt.value), func(t *testing.T) {
			c := codecFor(t, tt.value)
			assert.Equal(t, tt.kind, c.Kind())
		})
	}
}

func TestFor_Unsupported(t *testing.T) {
	for _, v := range []any{struct{}{}, []string{}, map[string]int{}, make(chan int)} {
		_, err := For(reflect.TypeOf(v))
		assert.ErrorIs(t, err, ErrUnsupported, "%T", v)
	}
}

func TestCodec_Bind(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := int32(9)

	tests := []struct {
		name   string
		member any
		value  any
		want   any
	}{
		{"bool", false, true, true},
		{"int widened", int(0), int16(5), int64(5)},
		{"uint", uint(0), uint(3), int64(3)},
		{"float", float32(0), float32(1.5), float64(1.5)},
		{"named string", status(""), status("on"), "on"},
		{"bytes", []byte{}, []byte("ab"), []byte("ab")},
		{"time", time.Time{}, when, when},
		{"uuid as string", uuid.UUID{}, id, id.String()},
		{"valuer", money{}, money{cents: 250}, int64(250)},
		{"pointer deref", new(int32), &n, int64(9)},
		{"nil pointer", new(int32), (*int32)(nil), nil},
		{"nil", "", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codecFor(t, tt.member).Bind(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodec_BindErrors(t *testing.T) {
	_, err := codecFor(t, "").Bind(42)
	assert.ErrorIs(t, err, ErrIncompatible)

	_, err = codecFor(t, uint64(0)).Bind(uint64(math.MaxUint64))
	assert.ErrorIs(t, err, ErrIncompatible)
}

func TestCodec_Decode(t *testing.T) {
	c := codecFor(t, int16(0))
	h := c.Holder().(*sql.NullInt64)
	require.NoError(t, h.Scan(int64(12)))
	v, err := c.Decode(h)
	require.NoError(t, err)
	assert.Equal(t, int16(12), v)

	// Overflow of the narrower member type
	require.NoError(t, h.Scan(int64(1<<20)))
	_, err = c.Decode(h)
	assert.ErrorIs(t, err, ErrIncompatible)
}

func TestCodec_DecodeNull(t *testing.T) {
	ptr := codecFor(t, new(string))
	h := ptr.Holder()
	require.NoError(t, h.(sql.Scanner).Scan(nil))
	v, err := ptr.Decode(h)
	require.NoError(t, err)
	assert.Nil(t, v.(*string))

	plain := codecFor(t, "")
	v, err = plain.Decode(plain.Holder())
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestCodec_DecodePointer(t *testing.T) {
	c := codecFor(t, new(bool))
	h := c.Holder().(*sql.NullBool)
	require.NoError(t, h.Scan(true))
	v, err := c.Decode(h)
	require.NoError(t, err)
	require.IsType(t, (*bool)(nil), v)
	assert.True(t, *v.(*bool))
}

func TestCodec_DecodeUUIDAndValuer(t *testing.T) {
	id := uuid.New()
	uc := codecFor(t, uuid.UUID{})
	uh := uc.Holder().(*uuid.NullUUID)
	require.NoError(t, uh.Scan(id.String()))
	v, err := uc.Decode(uh)
	require.NoError(t, err)
	assert.Equal(t, id, v)

	mc := codecFor(t, money{})
	mh := mc.Holder().(sql.Scanner)
	require.NoError(t, mh.Scan(int64(99)))
	v, err = mc.Decode(mh)
	require.NoError(t, err)
	assert.Equal(t, money{cents: 99}, v)
}

func TestCodec_DecodeUintNegative(t *testing.T) {
	c := codecFor(t, uint(0))
	h := c.Holder().(*sql.NullInt64)
	require.NoError(t, h.Scan(int64(-1)))
	_, err := c.Decode(h)
	assert.ErrorIs(t, err, ErrIncompatible)
}
