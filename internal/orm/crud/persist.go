package crud

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/darkshade/shade/internal/orm/accessor"
	"github.com/darkshade/shade/internal/orm/schema"
)

// Persist inserts instance when its id is absent and updates its row otherwise.
// After an insert the generated id is written back into instance.
func (m *Manager) Persist(ctx context.Context, meta *schema.Metadata, instance any) error {
	if err := m.session.CheckOpen("persist"); err != nil {
		return err
	}

	id, err := meta.IDAccessor().Get(instance)
	if err != nil {
		return &PersistenceError{Op: "persist", Table: meta.TableName(), Err: err}
	}
	if absent(id) {
		return m.insert(ctx, meta, instance)
	}
	return m.update(ctx, meta, instance, id)
}

func (m *Manager) insert(ctx context.Context, meta *schema.Metadata, instance any) error {
	const op = "insert into"
	idAcc := meta.IDAccessor()

	columns, args, err := bindColumns(meta, instance)
	if err != nil {
		return &PersistenceError{Op: op, Table: meta.TableName(), Err: err}
	}

	dialect := m.session.Dialect()
	var generated any
	returning := ""
	if idAcc.Codec().Kind() == accessor.KindUUID {
		// UUID keys are generated here rather than by the database
		key := uuid.New()
		generated = key
		columns = append([]string{meta.IDColumn()}, columns...)
		args = append([]any{key.String()}, args...)
	} else {
		returning = dialect.Returning(meta.IDColumn())
	}

	query := insertSQL(dialect, meta.TableName(), columns, returning)
	m.logger.Debug("inserting entity",
		zap.String("table", meta.TableName()),
		zap.String("sql", query),
		zap.Int("args", len(args)),
	)

	switch {
	case generated != nil:
		if _, err := m.session.Exec(ctx, query, args...); err != nil {
			return m.fail(op, meta, err)
		}
	case returning != "":
		row, err := m.session.QueryRow(ctx, query, args...)
		if err != nil {
			return m.fail(op, meta, err)
		}
		holder := idAcc.Codec().Holder()
		if err := row.Scan(holder); err != nil {
			return m.fail(op, meta, err)
		}
		if generated, err = idAcc.Codec().Decode(holder); err != nil {
			return m.fail(op, meta, err)
		}
	default:
		result, err := m.session.Exec(ctx, query, args...)
		if err != nil {
			return m.fail(op, meta, err)
		}
		if generated, err = lastInsertID(result, idAcc); err != nil {
			return m.fail(op, meta, err)
		}
	}

	if err := m.commit(op, meta); err != nil {
		return err
	}

	if generated == nil {
		return nil
	}
	if err := idAcc.Set(instance, generated); err != nil {
		return &PersistenceError{Op: op, Table: meta.TableName(), Err: err}
	}
	m.logger.Debug("entity inserted", zap.String("table", meta.TableName()), zap.Any("id", generated))
	return nil
}

func (m *Manager) update(ctx context.Context, meta *schema.Metadata, instance any, id any) error {
	const op = "update"

	columns, args, err := bindColumns(meta, instance)
	if err != nil {
		return &PersistenceError{Op: op, Table: meta.TableName(), Err: err}
	}
	if len(columns) == 0 {
		return nil
	}

	idArg, err := meta.IDAccessor().Codec().Bind(id)
	if err != nil {
		return &PersistenceError{Op: op, Table: meta.TableName(), Err: err}
	}

	query := updateSQL(m.session.Dialect(), meta.TableName(), columns, meta.IDColumn())
	m.logger.Debug("updating entity",
		zap.String("table", meta.TableName()),
		zap.String("sql", query),
		zap.Int("args", len(args)+1),
	)

	result, err := m.session.Exec(ctx, query, append(args, idArg)...)
	if err != nil {
		return m.fail(op, meta, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		m.logger.Debug("update matched no rows", zap.String("table", meta.TableName()), zap.Any("id", id))
	}

	return m.commit(op, meta)
}

// bindColumns reads every non-key column in mapping order and converts it to a driver value
func bindColumns(meta *schema.Metadata, instance any) ([]string, []any, error) {
	cols := meta.Columns()
	names := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))

	for _, col := range cols {
		value, err := col.Accessor.Get(instance)
		if err != nil {
			return nil, nil, err
		}
		arg, err := col.Accessor.Codec().Bind(value)
		if err != nil {
			return nil, nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		if arg == nil && !col.Nullable {
			return nil, nil, fmt.Errorf("%w %s", ErrNullValue, col.Name)
		}
		names = append(names, col.Name)
		args = append(args, arg)
	}
	return names, args, nil
}

// lastInsertID reads the generated key for integer ids. Other id kinds have
// no key the driver can report, so nil is returned.
func lastInsertID(result sql.Result, idAcc accessor.Accessor) (any, error) {
	switch idAcc.Codec().Kind() {
	case accessor.KindInt, accessor.KindUint:
	default:
		return nil, nil
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read generated key: %w", err)
	}
	return id, nil
}
