package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"retailpos/m/domain"
)

// DirectoryRepo serves branch and customer lookups by reference id.
type DirectoryRepo struct {
	db *sqlx.DB
}

func NewDirectoryRepo(db *sqlx.DB) *DirectoryRepo {
	return &DirectoryRepo{db: db}
}

func (r *DirectoryRepo) Branch(ctx context.Context, id string) (*domain.Branch, error) {
	var b domain.Branch
	err := r.db.GetContext(ctx, &b, r.db.Rebind(`SELECT id, name, address, location, created_at FROM branches WHERE id = ?`), id)
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get branch %s: %w", id, err)
	}
	return &b, nil
}

func (r *DirectoryRepo) Customer(ctx context.Context, id string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.GetContext(ctx, &c, r.db.Rebind(`SELECT id, name, phone, email, created_at FROM customers WHERE id = ?`), id)
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer %s: %w", id, err)
	}
	return &c, nil
}

func (r *DirectoryRepo) CreateBranch(ctx context.Context, b *domain.Branch) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO branches (id, name, address, location, created_at)
		VALUES (:id, :name, :address, :location, :created_at)`, b)
	if err != nil {
		return fmt.Errorf("insert branch %s: %w", b.ID, err)
	}
	return nil
}

func (r *DirectoryRepo) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO customers (id, name, phone, email, created_at)
		VALUES (:id, :name, :phone, :email, :created_at)`, c)
	if err != nil {
		return fmt.Errorf("insert customer %s: %w", c.ID, err)
	}
	return nil
}
