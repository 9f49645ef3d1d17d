package session

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver "pgx"
	_ "github.com/lib/pq"              // PostgreSQL driver "postgres"
	_ "github.com/mattn/go-sqlite3"    // SQLite driver "sqlite3" (cgo)
	_ "modernc.org/sqlite"             // SQLite driver "sqlite" (pure Go)
)

// target is a resolved connection request
type target struct {
	driver   string
	dsn      string
	dialect  Dialect
	redacted string
}

// resolve maps a database URL to a registered driver and its DSN.
//
//	postgres://host/db, postgresql://host/db  -> pgx
//	pq://host/db                              -> lib/pq
//	sqlite3:file.db, sqlite3::memory:         -> mattn/go-sqlite3
//	sqlite:file.db                            -> modernc.org/sqlite
//	mysql://host:3306/db                      -> go-sql-driver/mysql
func resolve(rawURL, user, password string) (target, error) {
	idx := strings.Index(rawURL, ":")
	if idx <= 0 {
		return target{redacted: rawURL}, fmt.Errorf("%w: %q", ErrUnknownScheme, rawURL)
	}
	scheme := strings.ToLower(rawURL[:idx])
	rest := strings.TrimPrefix(rawURL[idx+1:], "//")

	switch scheme {
	case "postgres", "postgresql":
		return resolvePostgres("pgx", rawURL, user, password)
	case "pq":
		return resolvePostgres("postgres", "postgres"+rawURL[idx:], user, password)
	case "sqlite3":
		return target{driver: "sqlite3", dsn: rest, dialect: SQLite, redacted: rawURL}, nil
	case "sqlite":
		return target{driver: "sqlite", dsn: rest, dialect: SQLite, redacted: rawURL}, nil
	case "mysql":
		return resolveMySQL(rawURL, user, password)
	}
	return target{redacted: redact(rawURL)}, fmt.Errorf("%w: %s", ErrUnknownScheme, scheme)
}

func resolvePostgres(driver, rawURL, user, password string) (target, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return target{redacted: redact(rawURL)}, fmt.Errorf("invalid postgres url: %w", err)
	}
	if user != "" {
		if password != "" {
			u.User = url.UserPassword(user, password)
		} else {
			u.User = url.User(user)
		}
	}
	return target{driver: driver, dsn: u.String(), dialect: Postgres, redacted: u.Redacted()}, nil
}

func resolveMySQL(rawURL, user, password string) (target, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return target{redacted: redact(rawURL)}, fmt.Errorf("invalid mysql url: %w", err)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	if user != "" {
		cfg.User = user
		cfg.Passwd = password
	}
	if q := u.Query(); len(q) > 0 {
		cfg.Params = make(map[string]string, len(q))
		for k := range q {
			cfg.Params[k] = q.Get(k)
		}
	}

	return target{driver: "mysql", dsn: cfg.FormatDSN(), dialect: MySQL, redacted: redact(rawURL)}, nil
}

// redact hides any password embedded in a URL
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.User == nil {
		return rawURL
	}
	return u.Redacted()
}
