// Package storetest opens migrated SQLite databases and inserts fixtures for tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"retailpos/m/domain"
	"retailpos/m/internal/database"
	"retailpos/m/internal/migrations"
	"retailpos/m/internal/store"
)

// Open returns a migrated database backed by a file in t.TempDir().
func Open(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "pos.db") + "?_pragma=busy_timeout(5000)"
	db, err := database.Connect("sqlite", dsn)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Run(db), "failed to migrate test database")
	return db
}

// CreateBranch inserts a branch and returns its id.
func CreateBranch(t *testing.T, db *sqlx.DB, name string) string {
	t.Helper()

	b := &domain.Branch{ID: uuid.New().String(), Name: name, Address: "Main St 1", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.NewDirectoryRepo(db).CreateBranch(context.Background(), b), "failed to create branch")
	return b.ID
}

// CreateCustomer inserts a customer and returns its id.
func CreateCustomer(t *testing.T, db *sqlx.DB, name string) string {
	t.Helper()

	c := &domain.Customer{ID: uuid.New().String(), Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.NewDirectoryRepo(db).CreateCustomer(context.Background(), c), "failed to create customer")
	return c.ID
}

// CreateProduct inserts a catalog entry priced at price1.
func CreateProduct(t *testing.T, db *sqlx.DB, code, description, brand string, price1 int64) *domain.Product {
	t.Helper()

	p := &domain.Product{
		Code:        code,
		Description: description,
		Brand:       brand,
		Family:      "general",
		Price1:      decimal.NewFromInt(price1),
		Price2:      decimal.NewFromInt(price1),
		Price3:      decimal.NewFromInt(price1),
	}
	require.NoError(t, store.NewCatalogRepo(db).Upsert(context.Background(), p), "failed to create product")
	return p
}

// SetStock creates or overwrites the inventory record of code at branchID.
func SetStock(t *testing.T, db *sqlx.DB, code, branchID string, qty int64) {
	t.Helper()

	rec := &domain.InventoryRecord{
		ProductCode: code,
		BranchID:    branchID,
		BranchName:  "branch " + branchID,
		Quantity:    qty,
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, store.NewInventoryRepo(db).Upsert(context.Background(), rec), "failed to set stock")
}

// Stock returns the current quantity of code at branchID.
func Stock(t *testing.T, db *sqlx.DB, code, branchID string) int64 {
	t.Helper()

	rec, err := store.NewInventoryRepo(db).Get(context.Background(), code, branchID)
	require.NoError(t, err, "failed to read stock")
	return rec.Quantity
}

// Count returns the number of rows in table matching the optional where clause.
func Count(t *testing.T, db *sqlx.DB, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	require.NoError(t, db.Get(&n, db.Rebind(query), args...), "failed to count %s", table)
	return n
}
