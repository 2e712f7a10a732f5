package migrations

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Run creates the collections used by the POS backend. Collections are linked by
// opaque ids only; the store enforces no foreign keys between them.
func Run(db *sqlx.DB) error {
	money := "TEXT"
	if db.DriverName() == "postgres" {
		money = "NUMERIC(14,4)"
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            username TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL,
            created_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS branches (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            address TEXT NOT NULL DEFAULT '',
            location TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS customers (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS products (
            code TEXT PRIMARY KEY,
            description TEXT NOT NULL,
            brand TEXT NOT NULL DEFAULT '',
            family TEXT NOT NULL DEFAULT '',
            price1 {{money}} NOT NULL DEFAULT '0',
            price2 {{money}} NOT NULL DEFAULT '0',
            price3 {{money}} NOT NULL DEFAULT '0',
            weight {{money}} NOT NULL DEFAULT '0',
            volume {{money}} NOT NULL DEFAULT '0',
            custom_prices TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS inventory (
            product_code TEXT NOT NULL,
            branch_id TEXT NOT NULL,
            branch_name TEXT NOT NULL DEFAULT '',
            quantity BIGINT NOT NULL DEFAULT 0,
            sale_price {{money}},
            custom_prices TEXT,
            updated_at TIMESTAMP NOT NULL,
            PRIMARY KEY (product_code, branch_id)
        );`,
		`CREATE TABLE IF NOT EXISTS sales (
            id TEXT PRIMARY KEY,
            branch_id TEXT NOT NULL,
            customer_id TEXT,
            total_amount {{money}} NOT NULL,
            amount_received {{money}} NOT NULL,
            change_given {{money}} NOT NULL,
            created_by TEXT NOT NULL,
            kind TEXT NOT NULL,
            payment_status TEXT NOT NULL,
            parent_sale_id TEXT,
            created_at TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS sale_items (
            id TEXT PRIMARY KEY,
            sale_id TEXT NOT NULL,
            product_code TEXT NOT NULL,
            quantity BIGINT NOT NULL,
            unit_price {{money}} NOT NULL,
            subtotal {{money}} NOT NULL,
            position INTEGER NOT NULL,
            created_at TIMESTAMP NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items (sale_id, position);`,
		`CREATE TABLE IF NOT EXISTS payments (
            id TEXT PRIMARY KEY,
            sale_id TEXT NOT NULL,
            amount {{money}} NOT NULL,
            method TEXT NOT NULL,
            notes TEXT,
            created_by TEXT NOT NULL,
            paid_at TIMESTAMP NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_payments_sale ON payments (sale_id);`,
	}

	for _, stmt := range schema {
		stmt = strings.ReplaceAll(stmt, "{{money}}", money)
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
