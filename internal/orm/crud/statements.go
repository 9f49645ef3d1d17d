package crud

import (
	"fmt"
	"strings"

	"github.com/darkshade/shade/internal/orm/session"
)

// insertSQL builds INSERT INTO t (c1, c2) VALUES (?, ?) with an optional RETURNING clause
func insertSQL(d session.Dialect, table string, columns []string, returning string) string {
	if len(columns) == 0 {
		return fmt.Sprintf("INSERT INTO %s %s%s", table, d.EmptyInsert(), returning)
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)%s",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		returning,
	)
}

// updateSQL builds UPDATE t SET c1=?, c2=? WHERE id=?
func updateSQL(d session.Dialect, table string, columns []string, idColumn string) string {
	sets := make([]string, len(columns))
	for i, col := range columns {
		sets[i] = col + "=" + d.Placeholder(i+1)
	}
	return fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s=%s",
		table,
		strings.Join(sets, ", "),
		idColumn,
		d.Placeholder(len(columns)+1),
	)
}

// selectSQL builds SELECT * FROM t, filtered by id when idColumn is set
func selectSQL(d session.Dialect, table, idColumn string) string {
	if idColumn == "" {
		return "SELECT * FROM " + table
	}
	return fmt.Sprintf("SELECT * FROM %s WHERE %s=%s", table, idColumn, d.Placeholder(1))
}

// deleteSQL builds DELETE FROM t, filtered by id when idColumn is set
func deleteSQL(d session.Dialect, table, idColumn string) string {
	if idColumn == "" {
		return "DELETE FROM " + table
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s=%s", table, idColumn, d.Placeholder(1))
}
