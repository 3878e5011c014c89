package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:tosforge.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/tosforge?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS competencies (
  code TEXT PRIMARY KEY,
  subject TEXT NOT NULL,
  grade INTEGER NOT NULL,
  quarter INTEGER NOT NULL,
  description TEXT NOT NULL,
  sessions INTEGER NOT NULL,
  custom INTEGER NOT NULL DEFAULT 0,
  seq INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_competencies_slot
  ON competencies (subject, grade, quarter);

CREATE TABLE IF NOT EXISTS export_history (
  id TEXT PRIMARY KEY,
  school TEXT NOT NULL,
  teacher TEXT NOT NULL,
  subject TEXT NOT NULL,
  grade INTEGER NOT NULL,
  quarter INTEGER NOT NULL,
  total_items INTEGER NOT NULL,
  provider TEXT NOT NULL DEFAULT '',
  filename TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS competencies (
  code TEXT PRIMARY KEY,
  subject TEXT NOT NULL,
  grade INTEGER NOT NULL,
  quarter INTEGER NOT NULL,
  description TEXT NOT NULL,
  sessions INTEGER NOT NULL,
  custom INTEGER NOT NULL DEFAULT 0,
  seq INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_competencies_slot
  ON competencies (subject, grade, quarter);

CREATE TABLE IF NOT EXISTS export_history (
  id TEXT PRIMARY KEY,
  school TEXT NOT NULL,
  teacher TEXT NOT NULL,
  subject TEXT NOT NULL,
  grade INTEGER NOT NULL,
  quarter INTEGER NOT NULL,
  total_items INTEGER NOT NULL,
  provider TEXT NOT NULL DEFAULT '',
  filename TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
