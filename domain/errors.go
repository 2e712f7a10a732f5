package domain

import "errors"

var (
	ErrEmptyCart        = errors.New("cart must contain at least one line")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrInvalidPrice     = errors.New("unit price cannot be negative")
	ErrInvalidAmount    = errors.New("amount received cannot be negative")
	ErrInvalidSaleKind  = errors.New("sale kind must be invoice, credit or quote")
	ErrBranchRequired   = errors.New("branch is required")
	ErrCustomerRequired = errors.New("customer is required for credit sales")
	ErrProductRequired  = errors.New("product code is required")

	ErrInventoryNotFound     = errors.New("inventory record not found")
	ErrInsufficientInventory = errors.New("insufficient inventory")

	ErrSameBranch = errors.New("source and destination branch must differ")

	ErrSaleNotFound = errors.New("sale not found")
	ErrNotAQuote    = errors.New("sale is not a quote")
)
