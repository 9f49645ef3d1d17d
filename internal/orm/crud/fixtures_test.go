package crud

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/darkshade/shade/internal/orm/schema"
	"github.com/darkshade/shade/internal/orm/session"
)

type User struct {
	schema.Entity `table:"users"`
	ID            *int64 `id:"" column:"id"`
	Name          string `column:"name,notnull"`
	Active        bool   `column:"active"`
}

type Profile struct {
	schema.Entity `table:"profiles"`
	ID            uuid.UUID `id:"" column:"id"`
	Handle        *string   `column:"handle,notnull,unique"`
	Bio           *string   `column:"bio"`
	Score         uint16    `column:"score"`
	Joined        time.Time `column:"joined_at"`
}

type Counter struct {
	schema.Entity `table:"counters"`
	ID            int64 `id:""`
}

// Account maps its balance through a getter/setter pair
type Account struct {
	schema.Entity `table:"accounts"`
	ID            int64  `id:"" column:"id"`
	Owner         string `column:"owner"`
	cents         int64
}

func (a *Account) MappedProperties() []schema.Property {
	return []schema.Property{{Getter: "GetBalance", Tag: `column:"balance"`}}
}

func (a *Account) GetBalance() int64  { return a.cents }
func (a *Account) SetBalance(v int64) { a.cents = v }

func metadataFor[T any](t *testing.T) *schema.Metadata {
	t.Helper()
	meta, err := schema.For[T]()
	require.NoError(t, err)
	return meta
}

func strPtr(s string) *string {
	return &s
}

// newMockManager returns a manager whose session runs on go-sqlmock with exact SQL matching
func newMockManager(t *testing.T, dialect session.Dialect, opts ...Option) (*Manager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := session.New(context.Background(), db, dialect)
	require.NoError(t, err)

	m := NewManager(opts...)
	require.NoError(t, m.AttachSession(s))
	return m, mock
}

// newSQLiteManager returns a manager on a fresh in-memory database with the test tables
func newSQLiteManager(t *testing.T, url string) *Manager {
	t.Helper()
	ctx := context.Background()

	m := NewManager()
	require.NoError(t, m.CreateSession(ctx, url, "", ""))
	t.Cleanup(func() {
		if !m.Session().IsClosed() {
			m.CloseSession()
		}
	})

	for _, ddl := range []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL, active BOOLEAN)`,
		`CREATE TABLE profiles (id TEXT PRIMARY KEY, handle TEXT NOT NULL UNIQUE, bio TEXT, score INTEGER, joined_at DATETIME)`,
		`CREATE TABLE counters (ID INTEGER PRIMARY KEY AUTOINCREMENT)`,
		`CREATE TABLE accounts (id INTEGER PRIMARY KEY AUTOINCREMENT, owner TEXT, balance INTEGER)`,
	} {
		_, err := m.Session().Exec(ctx, ddl)
		require.NoError(t, err)
	}
	require.NoError(t, m.Session().Commit())
	return m
}
