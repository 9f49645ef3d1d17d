package crud

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/darkshade/shade/internal/orm/schema"
)

// Find retrieves the entity with the given id. A missing row is reported by
// found == false, not by an error.
func (m *Manager) Find(ctx context.Context, meta *schema.Metadata, id any) (instance any, found bool, err error) {
	const op = "find in"
	if err := m.session.CheckOpen("find"); err != nil {
		return nil, false, err
	}

	arg, err := meta.IDAccessor().Codec().Bind(id)
	if err != nil {
		return nil, false, &PersistenceError{Op: op, Table: meta.TableName(), Err: err}
	}

	query := selectSQL(m.session.Dialect(), meta.TableName(), meta.IDColumn())
	err = m.query(ctx, meta, query, []any{arg}, func(s *rowScanner, rows *sql.Rows) (bool, error) {
		instance, err = s.next(rows)
		found = err == nil
		return false, err
	})
	if err != nil {
		return nil, false, m.fail(op, meta, err)
	}
	return instance, found, nil
}

// FindAll retrieves every row of the entity's table as new instances
func (m *Manager) FindAll(ctx context.Context, meta *schema.Metadata) ([]any, error) {
	const op = "find all in"
	if err := m.session.CheckOpen("find all"); err != nil {
		return nil, err
	}

	results := make([]any, 0)
	query := selectSQL(m.session.Dialect(), meta.TableName(), "")
	err := m.query(ctx, meta, query, nil, func(s *rowScanner, rows *sql.Rows) (bool, error) {
		instance, err := s.next(rows)
		if err != nil {
			return false, err
		}
		results = append(results, instance)
		return true, nil
	})
	if err != nil {
		return nil, m.fail(op, meta, err)
	}
	return results, nil
}

// Contains reports whether a row with the given id exists. No instance is materialized.
func (m *Manager) Contains(ctx context.Context, meta *schema.Metadata, id any) (bool, error) {
	const op = "query"
	if err := m.session.CheckOpen("contains"); err != nil {
		return false, err
	}

	arg, err := meta.IDAccessor().Codec().Bind(id)
	if err != nil {
		return false, &PersistenceError{Op: op, Table: meta.TableName(), Err: err}
	}

	query := selectSQL(m.session.Dialect(), meta.TableName(), meta.IDColumn())
	m.logger.Debug("checking entity", zap.String("table", meta.TableName()), zap.String("sql", query))

	rows, err := m.session.Query(ctx, query, arg)
	if err != nil {
		return false, m.fail(op, meta, err)
	}
	exists := rows.Next()
	if err := closeRows(rows); err != nil {
		return false, m.fail(op, meta, err)
	}
	return exists, nil
}

// ContainsEntity reports whether instance has been persisted. An instance
// with an absent id is never contained.
func (m *Manager) ContainsEntity(ctx context.Context, meta *schema.Metadata, instance any) (bool, error) {
	if err := m.session.CheckOpen("contains"); err != nil {
		return false, err
	}

	id, err := meta.IDAccessor().Get(instance)
	if err != nil {
		return false, &PersistenceError{Op: "query", Table: meta.TableName(), Err: err}
	}
	if absent(id) {
		return false, nil
	}
	return m.Contains(ctx, meta, id)
}

// query runs a SELECT and passes each row to fn until fn returns false.
// The rows are closed before query returns.
func (m *Manager) query(
	ctx context.Context,
	meta *schema.Metadata,
	query string,
	args []any,
	fn func(s *rowScanner, rows *sql.Rows) (bool, error),
) error {
	m.logger.Debug("querying entities",
		zap.String("table", meta.TableName()),
		zap.String("sql", query),
		zap.Int("args", len(args)),
	)

	rows, err := m.session.Query(ctx, query, args...)
	if err != nil {
		return err
	}

	s, err := newRowScanner(meta, rows)
	if err != nil {
		rows.Close()
		return err
	}
	for rows.Next() {
		more, err := fn(s, rows)
		if err != nil {
			rows.Close()
			return err
		}
		if !more {
			break
		}
	}
	return closeRows(rows)
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}
