package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"retailpos/m/domain"
)

type PaymentRepo struct {
	db *sqlx.DB
}

func NewPaymentRepo(db *sqlx.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO payments (id, sale_id, amount, method, notes, created_by, paid_at)
		VALUES (:id, :sale_id, :amount, :method, :notes, :created_by, :paid_at)`, p)
	if err != nil {
		return fmt.Errorf("insert payment for sale %s: %w", p.SaleID, err)
	}
	return nil
}

func (r *PaymentRepo) DeleteBySale(ctx context.Context, saleID string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM payments WHERE sale_id = ?`), saleID); err != nil {
		return fmt.Errorf("delete payments of sale %s: %w", saleID, err)
	}
	return nil
}

func (r *PaymentRepo) BySale(ctx context.Context, saleID string) ([]domain.Payment, error) {
	payments := []domain.Payment{}
	err := r.db.SelectContext(ctx, &payments, r.db.Rebind(`SELECT id, sale_id, amount, method, notes, created_by, paid_at
		FROM payments WHERE sale_id = ? ORDER BY paid_at`), saleID)
	if err != nil {
		return nil, fmt.Errorf("list payments of sale %s: %w", saleID, err)
	}
	return payments, nil
}
