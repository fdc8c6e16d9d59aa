package db

import (
	stdsql "database/sql"
	"fmt"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the database named by databaseURL. postgres:// and postgresql://
// URLs use lib/pq; file:, sqlite:// and sqlite: URLs use the pure-Go SQLite driver.
func Open(databaseURL string) (*entsql.Driver, error) {
	driverName, dialectName, dsn, err := parseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	conn, err := stdsql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if dialectName == dialect.SQLite {
		// a single connection keeps in-memory databases alive and serializes writers
		conn.SetMaxOpenConns(1)
	}

	return entsql.OpenDB(dialectName, conn), nil
}

func parseDatabaseURL(raw string) (driverName, dialectName, dsn string, err error) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return "postgres", dialect.Postgres, raw, nil
	case strings.HasPrefix(raw, "sqlite://"):
		return "sqlite", dialect.SQLite, withForeignKeys("file:" + strings.TrimPrefix(raw, "sqlite://")), nil
	case strings.HasPrefix(raw, "sqlite:"):
		return "sqlite", dialect.SQLite, withForeignKeys("file:" + strings.TrimPrefix(raw, "sqlite:")), nil
	case strings.HasPrefix(raw, "file:"):
		return "sqlite", dialect.SQLite, withForeignKeys(raw), nil
	default:
		return "", "", "", fmt.Errorf("unsupported database url %q", raw)
	}
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}
