package crud

import (
	"context"

	"go.uber.org/zap"

	"github.com/darkshade/shade/internal/orm/schema"
)

// Remove deletes the row with the given id and commits
func (m *Manager) Remove(ctx context.Context, meta *schema.Metadata, id any) error {
	const op = "delete from"
	if err := m.session.CheckOpen("remove"); err != nil {
		return err
	}

	arg, err := meta.IDAccessor().Codec().Bind(id)
	if err != nil {
		return &PersistenceError{Op: op, Table: meta.TableName(), Err: err}
	}

	query := deleteSQL(m.session.Dialect(), meta.TableName(), meta.IDColumn())
	return m.delete(ctx, op, meta, query, arg)
}

// RemoveEntity deletes the row of a persisted instance
func (m *Manager) RemoveEntity(ctx context.Context, meta *schema.Metadata, instance any) error {
	if err := m.session.CheckOpen("remove"); err != nil {
		return err
	}

	id, err := meta.IDAccessor().Get(instance)
	if err != nil {
		return &PersistenceError{Op: "delete from", Table: meta.TableName(), Err: err}
	}
	if absent(id) {
		return &PersistenceError{Op: "delete from", Table: meta.TableName(), Err: ErrNoID}
	}
	return m.Remove(ctx, meta, id)
}

// RemoveAll deletes every row of the entity's table and commits
func (m *Manager) RemoveAll(ctx context.Context, meta *schema.Metadata) error {
	if err := m.session.CheckOpen("remove all"); err != nil {
		return err
	}

	query := deleteSQL(m.session.Dialect(), meta.TableName(), "")
	return m.delete(ctx, "delete all from", meta, query)
}

func (m *Manager) delete(ctx context.Context, op string, meta *schema.Metadata, query string, args ...any) error {
	m.logger.Debug("deleting entities",
		zap.String("table", meta.TableName()),
		zap.String("sql", query),
		zap.Int("args", len(args)),
	)

	result, err := m.session.Exec(ctx, query, args...)
	if err != nil {
		return m.fail(op, meta, err)
	}
	if err := m.commit(op, meta); err != nil {
		return err
	}

	if n, err := result.RowsAffected(); err == nil {
		m.logger.Debug("entities deleted", zap.String("table", meta.TableName()), zap.Int64("rows", n))
	}
	return nil
}
