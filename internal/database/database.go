package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Connect opens the configured database. driver is "sqlite" or "postgres".
func Connect(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	if driver == "sqlite" {
		// A single writer keeps SQLite from returning SQLITE_BUSY under concurrent checkouts.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
