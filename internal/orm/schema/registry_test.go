package schema

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("parses once and caches", func(t *testing.T) {
		registry := NewRegistry()

		first, err := registry.Metadata(reflect.TypeOf(User{}))
		require.NoError(t, err)
		second, err := registry.Metadata(reflect.TypeOf(&User{}))
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, registry.Count())
	})

	t.Run("get without parsing", func(t *testing.T) {
		registry := NewRegistry()

		_, exists := registry.Get(reflect.TypeOf(User{}))
		assert.False(t, exists)

		_, err := MetadataFor[User](registry)
		require.NoError(t, err)

		meta, exists := registry.Get(reflect.TypeOf(User{}))
		assert.True(t, exists)
		assert.Equal(t, "users", meta.TableName())
	})

	t.Run("failures are not cached", func(t *testing.T) {
		registry := NewRegistry()

		_, err := MetadataFor[NoID](registry)
		assert.ErrorIs(t, err, ErrMissingID)
		assert.Equal(t, 0, registry.Count())
	})

	t.Run("list and clear", func(t *testing.T) {
		registry := NewRegistry()

		_, err := MetadataFor[User](registry)
		require.NoError(t, err)
		_, err = MetadataFor[Document](registry)
		require.NoError(t, err)

		assert.Equal(t, []string{"Doc", "User"}, registry.List())

		registry.Clear()
		assert.Equal(t, 0, registry.Count())
	})
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	results := make([]*Metadata, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			meta, err := MetadataFor[User](registry)
			assert.NoError(t, err)
			results[i] = meta
		}(i)
	}
	wg.Wait()

	for _, meta := range results {
		assert.Same(t, results[0], meta)
	}
}
