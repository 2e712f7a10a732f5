package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"retailpos/m/domain"
)

// CatalogRepo reads canonical product records.
type CatalogRepo struct {
	db *sqlx.DB
}

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// ByCodes returns the catalog entries for codes keyed by product code. Unknown codes
// are simply absent from the map.
func (r *CatalogRepo) ByCodes(ctx context.Context, codes []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(codes))
	if len(codes) == 0 {
		return result, nil
	}
	q, args, err := inQuery(r.db, `SELECT code, description, brand, family, price1, price2, price3, weight, volume, custom_prices
		FROM products WHERE code IN (?)`, codes)
	if err != nil {
		return nil, fmt.Errorf("prepare catalog query: %w", err)
	}
	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, q, args...); err != nil {
		return nil, fmt.Errorf("load catalog entries: %w", err)
	}
	for _, p := range products {
		result[p.Code] = p
	}
	return result, nil
}

const insertProduct = `INSERT INTO products
	(code, description, brand, family, price1, price2, price3, weight, volume, custom_prices)
	VALUES (:code, :description, :brand, :family, :price1, :price2, :price3, :weight, :volume, :custom_prices)`

func (r *CatalogRepo) Upsert(ctx context.Context, p *domain.Product) error {
	_, err := r.db.NamedExecContext(ctx, insertProduct+`
		ON CONFLICT (code) DO UPDATE SET
			description = excluded.description,
			brand = excluded.brand,
			family = excluded.family,
			price1 = excluded.price1,
			price2 = excluded.price2,
			price3 = excluded.price3,
			weight = excluded.weight,
			volume = excluded.volume,
			custom_prices = excluded.custom_prices`, p)
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", p.Code, err)
	}
	return nil
}

// InsertMissing inserts products whose code is not in the catalog yet and reports
// how many rows were added.
func (r *CatalogRepo) InsertMissing(ctx context.Context, products []domain.Product) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin catalog seed: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, insertProduct+` ON CONFLICT (code) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("prepare catalog insert: %w", err)
	}
	defer stmt.Close()

	var added int64
	for i := range products {
		res, err := stmt.ExecContext(ctx, &products[i])
		if err != nil {
			return 0, fmt.Errorf("insert product %s: %w", products[i].Code, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		added += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit catalog seed: %w", err)
	}
	return added, nil
}
