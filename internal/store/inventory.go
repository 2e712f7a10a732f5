package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"retailpos/m/domain"
)

type InventoryRepo struct {
	db *sqlx.DB
}

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

// Decrement subtracts qty in one UPDATE ... RETURNING statement. With floor set, the
// update only matches while quantity >= qty, so concurrent decrements can never take
// the same units twice.
func (r *InventoryRepo) Decrement(ctx context.Context, code, branchID string, qty int64, floor bool, at time.Time) (int64, error) {
	query := `UPDATE inventory SET quantity = quantity - ?, updated_at = ?
		WHERE product_code = ? AND branch_id = ?`
	args := []any{qty, at, code, branchID}
	if floor {
		query += ` AND quantity >= ?`
		args = append(args, qty)
	}
	query += ` RETURNING quantity`

	var quantity int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&quantity)
	if notFound(err) {
		return 0, r.classifyMiss(ctx, code, branchID)
	}
	if err != nil {
		return 0, fmt.Errorf("decrement %s@%s: %w", code, branchID, err)
	}
	return quantity, nil
}

func (r *InventoryRepo) Increment(ctx context.Context, code, branchID string, qty int64, at time.Time) (int64, error) {
	var quantity int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`UPDATE inventory SET quantity = quantity + ?, updated_at = ?
		WHERE product_code = ? AND branch_id = ? RETURNING quantity`), qty, at, code, branchID).Scan(&quantity)
	if notFound(err) {
		return 0, domain.ErrInventoryNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment %s@%s: %w", code, branchID, err)
	}
	return quantity, nil
}

// classifyMiss tells a missing record apart from a failed floor guard. It only reads.
func (r *InventoryRepo) classifyMiss(ctx context.Context, code, branchID string) error {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM inventory WHERE product_code = ? AND branch_id = ?`), code, branchID)
	if err != nil {
		return fmt.Errorf("lookup %s@%s: %w", code, branchID, err)
	}
	if n == 0 {
		return domain.ErrInventoryNotFound
	}
	return domain.ErrInsufficientInventory
}

func (r *InventoryRepo) Get(ctx context.Context, code, branchID string) (*domain.InventoryRecord, error) {
	var rec domain.InventoryRecord
	err := r.db.GetContext(ctx, &rec, r.db.Rebind(`SELECT product_code, branch_id, branch_name, quantity, sale_price, custom_prices, updated_at
		FROM inventory WHERE product_code = ? AND branch_id = ?`), code, branchID)
	if notFound(err) {
		return nil, domain.ErrInventoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory %s@%s: %w", code, branchID, err)
	}
	return &rec, nil
}

// ListByBranch returns the branch's inventory records, restricted to codes when given.
func (r *InventoryRepo) ListByBranch(ctx context.Context, branchID string, codes []string) ([]domain.InventoryRecord, error) {
	query := `SELECT product_code, branch_id, branch_name, quantity, sale_price, custom_prices, updated_at
		FROM inventory WHERE branch_id = ?`
	args := []any{branchID}
	if len(codes) > 0 {
		query += ` AND product_code IN (?)`
		args = append(args, codes)
	}
	query += ` ORDER BY product_code`

	q, a, err := inQuery(r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("prepare inventory query: %w", err)
	}
	records := []domain.InventoryRecord{}
	if err := r.db.SelectContext(ctx, &records, q, a...); err != nil {
		return nil, fmt.Errorf("list inventory of branch %s: %w", branchID, err)
	}
	return records, nil
}

// Upsert creates or replaces a record. It is used for stock intake and seeding,
// never for sale-time quantity changes.
func (r *InventoryRepo) Upsert(ctx context.Context, rec *domain.InventoryRecord) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO inventory
		(product_code, branch_id, branch_name, quantity, sale_price, custom_prices, updated_at)
		VALUES (:product_code, :branch_id, :branch_name, :quantity, :sale_price, :custom_prices, :updated_at)
		ON CONFLICT (product_code, branch_id) DO UPDATE SET
			branch_name = excluded.branch_name,
			quantity = excluded.quantity,
			sale_price = excluded.sale_price,
			custom_prices = excluded.custom_prices,
			updated_at = excluded.updated_at`, rec)
	if err != nil {
		return fmt.Errorf("upsert inventory %s@%s: %w", rec.ProductCode, rec.BranchID, err)
	}
	return nil
}
