// Package store persists the POS collections with sqlx. Each collection lives in its
// own table and collections reference each other by opaque ids only, so no write here
// spans more than one collection.
package store

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("record not found")

func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// inQuery expands the IN (?) bind of query and rebinds it for db's driver.
func inQuery(db *sqlx.DB, query string, args ...any) (string, []any, error) {
	q, a, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return db.Rebind(q), a, nil
}
