package schema

import (
	"reflect"
	"sort"
	"sync"
)

// Registry caches one Metadata per entity type so each type is parsed once
type Registry struct {
	metadata map[reflect.Type]*Metadata
	mu       sync.RWMutex
}

// NewRegistry creates a new metadata registry
func NewRegistry() *Registry {
	return &Registry{
		metadata: make(map[reflect.Type]*Metadata),
	}
}

// Metadata returns the cached metadata for t, parsing it on first use.
// Parse failures are not cached.
func (r *Registry) Metadata(t reflect.Type) (*Metadata, error) {
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r.mu.RLock()
	meta, exists := r.metadata[t]
	r.mu.RUnlock()
	if exists {
		return meta, nil
	}

	meta, err := Parse(t)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have won the race; keep the first instance
	if existing, ok := r.metadata[t]; ok {
		return existing, nil
	}
	r.metadata[t] = meta
	return meta, nil
}

// Get retrieves already parsed metadata without parsing
func (r *Registry) Get(t reflect.Type) (*Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, exists := r.metadata[t]
	return meta, exists
}

// List returns the entity names of all cached metadata, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.metadata))
	for _, meta := range r.metadata {
		names = append(names, meta.EntityName())
	}
	sort.Strings(names)
	return names
}

// Count returns the number of cached entity types
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.metadata)
}

// Clear removes all cached metadata (useful for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.metadata = make(map[reflect.Type]*Metadata)
}

// MetadataFor returns the cached metadata for T from r
func MetadataFor[T any](r *Registry) (*Metadata, error) {
	return r.Metadata(reflect.TypeFor[T]())
}
