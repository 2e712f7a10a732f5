package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleKind string

const (
	SaleKindInvoice SaleKind = "invoice"
	SaleKindCredit  SaleKind = "credit"
	SaleKindQuote   SaleKind = "quote"
)

func (k SaleKind) Valid() bool {
	switch k {
	case SaleKindInvoice, SaleKindCredit, SaleKindQuote:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentPaid      PaymentStatus = "paid"
)

type Sale struct {
	ID             string          `db:"id" json:"id"`
	BranchID       string          `db:"branch_id" json:"branch_id"`
	CustomerID     *string         `db:"customer_id" json:"customer_id,omitempty"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"total_amount"`
	AmountReceived decimal.Decimal `db:"amount_received" json:"amount_received"`
	ChangeGiven    decimal.Decimal `db:"change_given" json:"change_given"`
	CreatedBy      string          `db:"created_by" json:"created_by"`
	Kind           SaleKind        `db:"kind" json:"kind"`
	PaymentStatus  PaymentStatus   `db:"payment_status" json:"payment_status"`
	ParentSaleID   *string         `db:"parent_sale_id" json:"parent_sale_id,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

type SaleLineItem struct {
	ID          string          `db:"id" json:"id"`
	SaleID      string          `db:"sale_id" json:"sale_id"`
	ProductCode string          `db:"product_code" json:"product_code"`
	Quantity    int64           `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	Subtotal    decimal.Decimal `db:"subtotal" json:"subtotal"`
	Position    int             `db:"position" json:"position"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// CartLine is one line of a POS cart as submitted by the caller.
type CartLine struct {
	ProductCode string          `json:"product_code"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

type SaleRequest struct {
	BranchID       string          `json:"branch_id"`
	CustomerID     *string         `json:"customer_id,omitempty"`
	Kind           SaleKind        `json:"kind"`
	Cart           []CartLine      `json:"cart"`
	AmountReceived decimal.Decimal `json:"amount_received"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentNotes   string          `json:"payment_notes"`
	CreatedBy      string          `json:"-"`
	ParentSaleID   *string         `json:"parent_sale_id,omitempty"`
}

// Total is the sum of the cart line subtotals.
func (r *SaleRequest) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range r.Cart {
		total = total.Add(line.Subtotal())
	}
	return total
}

// InitialPaymentStatus is the payment status a sale of this request is created with.
// Later transitions belong to the payment subsystem.
func (r *SaleRequest) InitialPaymentStatus() PaymentStatus {
	switch r.Kind {
	case SaleKindInvoice:
		return PaymentPaid
	case SaleKindCredit:
		if r.AmountReceived.IsPositive() {
			return PaymentConfirmed
		}
	}
	return PaymentPending
}

// Change is what the cashier hands back; never negative.
func (r *SaleRequest) Change() decimal.Decimal {
	change := r.AmountReceived.Sub(r.Total())
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

type Payment struct {
	ID        string          `db:"id" json:"id"`
	SaleID    string          `db:"sale_id" json:"sale_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Method    string          `db:"method" json:"method"`
	Notes     *string         `db:"notes" json:"notes,omitempty"`
	CreatedBy string          `db:"created_by" json:"created_by"`
	PaidAt    time.Time       `db:"paid_at" json:"paid_at"`
}

// Receipt is the denormalized read view of a completed sale.
type Receipt struct {
	Sale
	BranchName   *string       `json:"branch_name"`
	CustomerName *string       `json:"customer_name"`
	Lines        []ReceiptLine `json:"lines"`
}

type ReceiptLine struct {
	ProductCode string          `json:"product_code"`
	ProductName *string         `json:"product_name"`
	Brand       *string         `json:"brand"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}
