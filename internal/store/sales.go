package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"retailpos/m/domain"
)

type SaleRepo struct {
	db *sqlx.DB
}

func NewSaleRepo(db *sqlx.DB) *SaleRepo {
	return &SaleRepo{db: db}
}

func (r *SaleRepo) CreateSale(ctx context.Context, sale *domain.Sale) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO sales
		(id, branch_id, customer_id, total_amount, amount_received, change_given, created_by, kind, payment_status, parent_sale_id, created_at)
		VALUES (:id, :branch_id, :customer_id, :total_amount, :amount_received, :change_given, :created_by, :kind, :payment_status, :parent_sale_id, :created_at)`, sale)
	if err != nil {
		return fmt.Errorf("insert sale %s: %w", sale.ID, err)
	}
	return nil
}

// DeleteSale removes a sale header. Deleting an absent header is not an error.
func (r *SaleRepo) DeleteSale(ctx context.Context, saleID string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sales WHERE id = ?`), saleID); err != nil {
		return fmt.Errorf("delete sale %s: %w", saleID, err)
	}
	return nil
}

// CreateItems writes all line items of a sale in a single multi-row insert.
func (r *SaleRepo) CreateItems(ctx context.Context, items []domain.SaleLineItem) error {
	if len(items) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO sale_items
		(id, sale_id, product_code, quantity, unit_price, subtotal, position, created_at)
		VALUES (:id, :sale_id, :product_code, :quantity, :unit_price, :subtotal, :position, :created_at)`, items)
	if err != nil {
		return fmt.Errorf("insert %d sale items: %w", len(items), err)
	}
	return nil
}

func (r *SaleRepo) DeleteItemsBySale(ctx context.Context, saleID string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sale_items WHERE sale_id = ?`), saleID); err != nil {
		return fmt.Errorf("delete items of sale %s: %w", saleID, err)
	}
	return nil
}

func (r *SaleRepo) GetSale(ctx context.Context, saleID string) (*domain.Sale, error) {
	var sale domain.Sale
	err := r.db.GetContext(ctx, &sale, r.db.Rebind(`SELECT id, branch_id, customer_id, total_amount, amount_received, change_given,
		created_by, kind, payment_status, parent_sale_id, created_at FROM sales WHERE id = ?`), saleID)
	if notFound(err) {
		return nil, domain.ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get sale %s: %w", saleID, err)
	}
	return &sale, nil
}

// ItemsBySale returns the line items of a sale in the order they were submitted.
func (r *SaleRepo) ItemsBySale(ctx context.Context, saleID string) ([]domain.SaleLineItem, error) {
	items := []domain.SaleLineItem{}
	err := r.db.SelectContext(ctx, &items, r.db.Rebind(`SELECT id, sale_id, product_code, quantity, unit_price, subtotal, position, created_at
		FROM sale_items WHERE sale_id = ? ORDER BY position ASC`), saleID)
	if err != nil {
		return nil, fmt.Errorf("list items of sale %s: %w", saleID, err)
	}
	return items, nil
}

func (r *SaleRepo) CountItemsBySale(ctx context.Context, saleID string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM sale_items WHERE sale_id = ?`), saleID); err != nil {
		return 0, fmt.Errorf("count items of sale %s: %w", saleID, err)
	}
	return n, nil
}
