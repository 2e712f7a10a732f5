package saga

import (
	"fmt"
	"strings"

	"retailpos/m/domain"
)

// Validate checks a request without touching the store.
func Validate(req *domain.SaleRequest) error {
	if req == nil || len(req.Cart) == 0 {
		return &ValidationError{Field: "cart", Err: domain.ErrEmptyCart}
	}
	if !req.Kind.Valid() {
		return &ValidationError{Field: "kind", Err: domain.ErrInvalidSaleKind}
	}
	if strings.TrimSpace(req.BranchID) == "" {
		return &ValidationError{Field: "branch_id", Err: domain.ErrBranchRequired}
	}
	if req.Kind == domain.SaleKindCredit && (req.CustomerID == nil || strings.TrimSpace(*req.CustomerID) == "") {
		return &ValidationError{Field: "customer_id", Err: domain.ErrCustomerRequired}
	}
	if req.AmountReceived.IsNegative() {
		return &ValidationError{Field: "amount_received", Err: domain.ErrInvalidAmount}
	}
	for i, line := range req.Cart {
		field := fmt.Sprintf("cart[%d]", i)
		switch {
		case strings.TrimSpace(line.ProductCode) == "":
			return &ValidationError{Field: field, Err: domain.ErrProductRequired}
		case line.Quantity <= 0:
			return &ValidationError{Field: field, Err: domain.ErrInvalidQuantity}
		case line.UnitPrice.IsNegative():
			return &ValidationError{Field: field, Err: domain.ErrInvalidPrice}
		}
	}
	return nil
}
