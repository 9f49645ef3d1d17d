package shade

import (
	"context"

	"github.com/darkshade/shade/internal/orm/schema"
)

// Repository provides typed persistence operations for entity type T with
// primary-key type ID. Every call delegates to the Manager with T's cached metadata.
type Repository[T any, ID any] struct {
	manager *Manager
	meta    *schema.Metadata
}

// NewRepository creates a repository for T. Metadata is parsed once per type
// and schema errors are reported here, before any SQL is generated.
func NewRepository[T any, ID any](m *Manager) (*Repository[T, ID], error) {
	meta, err := MetadataFor[T]()
	if err != nil {
		return nil, err
	}
	return &Repository[T, ID]{manager: m, meta: meta}, nil
}

// Metadata returns the entity metadata backing the repository
func (r *Repository[T, ID]) Metadata() *schema.Metadata {
	return r.meta
}

// Save inserts entity when its id is absent and updates it otherwise.
// A generated id is written back into entity.
func (r *Repository[T, ID]) Save(ctx context.Context, entity *T) error {
	return r.manager.Persist(ctx, r.meta, entity)
}

// SaveAll saves entities in order and stops at the first failure
func (r *Repository[T, ID]) SaveAll(ctx context.Context, entities ...*T) error {
	for _, entity := range entities {
		if err := r.Save(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// FindOne returns the entity with the given id. ok is false when no row matches.
func (r *Repository[T, ID]) FindOne(ctx context.Context, id ID) (entity *T, ok bool, err error) {
	instance, found, err := r.manager.Find(ctx, r.meta, id)
	if err != nil || !found {
		return nil, false, err
	}
	return instance.(*T), true, nil
}

// Exists reports whether an entity with the given id is stored
func (r *Repository[T, ID]) Exists(ctx context.Context, id ID) (bool, error) {
	return r.manager.Contains(ctx, r.meta, id)
}

// FindAll returns every stored entity
func (r *Repository[T, ID]) FindAll(ctx context.Context) ([]*T, error) {
	instances, err := r.manager.FindAll(ctx, r.meta)
	if err != nil {
		return nil, err
	}

	entities := make([]*T, len(instances))
	for i, instance := range instances {
		entities[i] = instance.(*T)
	}
	return entities, nil
}

// FindAllByID returns the entities matching ids, in the order of ids.
// Ids without a stored entity are skipped.
func (r *Repository[T, ID]) FindAllByID(ctx context.Context, ids ...ID) ([]*T, error) {
	entities := make([]*T, 0, len(ids))
	for _, id := range ids {
		entity, ok, err := r.FindOne(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			entities = append(entities, entity)
		}
	}
	return entities, nil
}

// Delete removes the entity with the given id
func (r *Repository[T, ID]) Delete(ctx context.Context, id ID) error {
	return r.manager.Remove(ctx, r.meta, id)
}

// DeleteEntity removes a persisted entity using its id
func (r *Repository[T, ID]) DeleteEntity(ctx context.Context, entity *T) error {
	return r.manager.RemoveEntity(ctx, r.meta, entity)
}

// DeleteAll removes every stored entity
func (r *Repository[T, ID]) DeleteAll(ctx context.Context) error {
	return r.manager.RemoveAll(ctx, r.meta)
}
