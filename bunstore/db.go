package bunstore

import (
	"database/sql"

	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// OpenSQLite opens a SQLite database wrapped in bun. Use
// "file::memory:?cache=shared" for an in-memory database shared across
// connections.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// OpenPostgres opens a Postgres database wrapped in bun.
func OpenPostgres(dsn string) (*bun.DB, error) {
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sql.OpenDB(connector), pgdialect.New()), nil
}
