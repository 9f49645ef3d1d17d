package session

import "fmt"

// Dialect captures the few SQL differences the engine cares about
type Dialect interface {
	// Name returns the dialect name
	Name() string
	// Placeholder returns the bind parameter marker for the n-th (1-based) argument
	Placeholder(n int) string
	// Returning returns a clause appended to INSERT to read the generated key back,
	// or "" when the driver reports it through sql.Result.LastInsertId
	Returning(idColumn string) string
	// EmptyInsert returns the INSERT tail used when a row has no explicit columns
	EmptyInsert() string
}

var (
	// SQLite uses ? placeholders and LastInsertId
	SQLite Dialect = questionDialect{name: "sqlite"}
	// MySQL uses ? placeholders and LastInsertId
	MySQL Dialect = questionDialect{name: "mysql"}
	// Postgres uses $n placeholders and RETURNING
	Postgres Dialect = postgresDialect{}
)

type questionDialect struct {
	name string
}

func (d questionDialect) Name() string            { return d.name }
func (d questionDialect) Placeholder(int) string  { return "?" }
func (d questionDialect) Returning(string) string { return "" }

func (d questionDialect) EmptyInsert() string {
	if d.name == "mysql" {
		return "() VALUES ()"
	}
	return "DEFAULT VALUES"
}

type postgresDialect struct{}

func (postgresDialect) Name() string               { return "postgres" }
func (postgresDialect) Placeholder(n int) string   { return fmt.Sprintf("$%d", n) }
func (postgresDialect) Returning(id string) string { return " RETURNING " + id }
func (postgresDialect) EmptyInsert() string        { return "DEFAULT VALUES" }
