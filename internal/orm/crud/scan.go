package crud

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/darkshade/shade/internal/orm/accessor"
	"github.com/darkshade/shade/internal/orm/schema"
)

// target is one mapped member and the result position it is read from
type target struct {
	column   string
	position int
	accessor accessor.Accessor
}

// rowScanner materializes rows of one result set. The column plan is
// resolved once; holders are allocated per row.
type rowScanner struct {
	meta    *schema.Metadata
	width   int
	targets []target
}

// newRowScanner matches result columns to the id column and the mapped columns.
// Names are compared case-insensitively; unmapped result columns are discarded.
func newRowScanner(meta *schema.Metadata, rows *sql.Rows) (*rowScanner, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	positions := make(map[string]int, len(names))
	for i, name := range names {
		key := strings.ToLower(name)
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	s := &rowScanner{meta: meta, width: len(names)}
	add := func(column string, acc accessor.Accessor) error {
		pos, ok := positions[strings.ToLower(column)]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, column)
		}
		s.targets = append(s.targets, target{column: column, position: pos, accessor: acc})
		return nil
	}

	if err := add(meta.IDColumn(), meta.IDAccessor()); err != nil {
		return nil, err
	}
	for _, col := range meta.Columns() {
		if err := add(col.Name, col.Accessor); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// next scans the current row into a new instance
func (s *rowScanner) next(rows *sql.Rows) (any, error) {
	dest := make([]any, s.width)
	for i := range dest {
		dest[i] = new(any)
	}
	holders := make([]any, len(s.targets))
	for i, t := range s.targets {
		holders[i] = t.accessor.Codec().Holder()
		dest[t.position] = holders[i]
	}

	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	instance := s.meta.New()
	for i, t := range s.targets {
		value, err := t.accessor.Codec().Decode(holders[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", t.column, err)
		}
		if err := t.accessor.Set(instance, value); err != nil {
			return nil, err
		}
	}
	return instance, nil
}
