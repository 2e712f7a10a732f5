package saga

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"retailpos/m/domain"
)

// ConvertRequest turns an existing quote into a real sale.
type ConvertRequest struct {
	QuoteID        string          `json:"-"`
	Kind           domain.SaleKind `json:"kind"`
	CustomerID     *string         `json:"customer_id,omitempty"`
	AmountReceived decimal.Decimal `json:"amount_received"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentNotes   string          `json:"payment_notes"`
	CreatedBy      string          `json:"-"`
}

// ConvertQuote records a new sale with the quote's branch, customer and lines,
// linked back through ParentSaleID. The quote itself is left untouched.
func (s *Saga) ConvertQuote(ctx context.Context, req *ConvertRequest) (*domain.Receipt, error) {
	if req.Kind == domain.SaleKindQuote || !req.Kind.Valid() {
		return nil, &ValidationError{Field: "kind", Err: domain.ErrInvalidSaleKind}
	}

	quote, err := s.sales.GetSale(ctx, req.QuoteID)
	if err != nil {
		return nil, err
	}
	if quote.Kind != domain.SaleKindQuote {
		return nil, domain.ErrNotAQuote
	}

	items, err := s.sales.ItemsBySale(ctx, quote.ID)
	if err != nil {
		return nil, fmt.Errorf("load quote items: %w", err)
	}
	cart := make([]domain.CartLine, len(items))
	for i, item := range items {
		cart[i] = domain.CartLine{
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	customerID := quote.CustomerID
	if req.CustomerID != nil {
		customerID = req.CustomerID
	}
	parentID := quote.ID
	return s.Execute(ctx, &domain.SaleRequest{
		BranchID:       quote.BranchID,
		CustomerID:     customerID,
		Kind:           req.Kind,
		Cart:           cart,
		AmountReceived: req.AmountReceived,
		PaymentMethod:  req.PaymentMethod,
		PaymentNotes:   req.PaymentNotes,
		CreatedBy:      req.CreatedBy,
		ParentSaleID:   &parentID,
	})
}
