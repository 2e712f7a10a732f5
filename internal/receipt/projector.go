// Package receipt builds the denormalized read view of a sale.
package receipt

import (
	"context"
	"errors"
	"fmt"

	"retailpos/m/domain"
	"retailpos/m/internal/store"
)

type Sales interface {
	GetSale(ctx context.Context, saleID string) (*domain.Sale, error)
	ItemsBySale(ctx context.Context, saleID string) ([]domain.SaleLineItem, error)
}

type Directory interface {
	Branch(ctx context.Context, id string) (*domain.Branch, error)
	Customer(ctx context.Context, id string) (*domain.Customer, error)
}

type Products interface {
	ByCodes(ctx context.Context, codes []string) (map[string]domain.Product, error)
}

type Projector struct {
	sales     Sales
	directory Directory
	products  Products
}

func NewProjector(sales Sales, directory Directory, products Products) *Projector {
	return &Projector{sales: sales, directory: directory, products: products}
}

// Project joins a sale with its branch, customer, line items and product
// metadata. Lines keep the order they were sold in. A branch, customer or
// product that cannot be found leaves its field nil.
func (p *Projector) Project(ctx context.Context, saleID string) (*domain.Receipt, error) {
	sale, err := p.sales.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	r := &domain.Receipt{Sale: *sale}

	branch, err := p.directory.Branch(ctx, sale.BranchID)
	switch {
	case err == nil:
		r.BranchName = &branch.Name
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("load branch: %w", err)
	}

	if sale.CustomerID != nil {
		customer, err := p.directory.Customer(ctx, *sale.CustomerID)
		switch {
		case err == nil:
			r.CustomerName = &customer.Name
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("load customer: %w", err)
		}
	}

	items, err := p.sales.ItemsBySale(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	codes := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductCode]; ok {
			continue
		}
		seen[item.ProductCode] = struct{}{}
		codes = append(codes, item.ProductCode)
	}
	products, err := p.products.ByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	r.Lines = make([]domain.ReceiptLine, len(items))
	for i, item := range items {
		line := domain.ReceiptLine{
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		}
		if product, ok := products[item.ProductCode]; ok {
			line.ProductName = &product.Description
			line.Brand = &product.Brand
		}
		r.Lines[i] = line
	}
	return r, nil
}
