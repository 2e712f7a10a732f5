// Package catalog joins the canonical product catalog with branch inventory.
package catalog

import (
	"context"
	"fmt"

	"retailpos/m/domain"
)

type InventorySource interface {
	ListByBranch(ctx context.Context, branchID string, codes []string) ([]domain.InventoryRecord, error)
}

type ProductSource interface {
	ByCodes(ctx context.Context, codes []string) (map[string]domain.Product, error)
}

// Merge builds sellable products. Nothing it returns is cached or stored.
type Merge struct {
	inventory InventorySource
	products  ProductSource
}

func NewMerge(inventory InventorySource, products ProductSource) *Merge {
	return &Merge{inventory: inventory, products: products}
}

// MergeForBranch returns one sellable product per inventory record of branchID
// that has a catalog entry, ordered by product code. With codes given, only
// those products are considered.
func (m *Merge) MergeForBranch(ctx context.Context, branchID string, codes ...string) ([]domain.SellableProduct, error) {
	if branchID == "" {
		return nil, domain.ErrBranchRequired
	}

	records, err := m.inventory.ListByBranch(ctx, branchID, codes)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	if len(records) == 0 {
		return []domain.SellableProduct{}, nil
	}

	stocked := make([]string, len(records))
	for i, rec := range records {
		stocked[i] = rec.ProductCode
	}
	products, err := m.products.ByCodes(ctx, stocked)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	merged := make([]domain.SellableProduct, 0, len(records))
	for _, rec := range records {
		p, ok := products[rec.ProductCode]
		if !ok {
			continue
		}
		merged = append(merged, Sellable(p, rec))
	}
	return merged, nil
}

// Sellable overlays an inventory record on its catalog entry. The branch's sale
// price replaces the base price tier; custom prices come from the branch when set,
// otherwise from the catalog.
func Sellable(p domain.Product, rec domain.InventoryRecord) domain.SellableProduct {
	sp := domain.SellableProduct{
		Code:         p.Code,
		Description:  p.Description,
		Brand:        p.Brand,
		Family:       p.Family,
		Price1:       p.Price1,
		Price2:       p.Price2,
		Price3:       p.Price3,
		Weight:       p.Weight,
		Volume:       p.Volume,
		CustomPrices: p.CustomPrices,
		BranchID:     rec.BranchID,
		BranchName:   rec.BranchName,
		Quantity:     rec.Quantity,
	}
	if rec.SalePrice.Valid {
		sp.Price1 = rec.SalePrice.Decimal
	}
	if rec.CustomPrices != nil {
		sp.CustomPrices = rec.CustomPrices
	}
	return sp
}
