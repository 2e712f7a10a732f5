package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord is the on-hand quantity of one product at one branch.
// Quantity is only ever changed through the inventory ledger.
type InventoryRecord struct {
	ProductCode  string              `db:"product_code" json:"product_code"`
	BranchID     string              `db:"branch_id" json:"branch_id"`
	BranchName   string              `db:"branch_name" json:"branch_name"`
	Quantity     int64               `db:"quantity" json:"quantity"`
	SalePrice    decimal.NullDecimal `db:"sale_price" json:"sale_price"`
	CustomPrices CustomPrices        `db:"custom_prices" json:"custom_prices"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updated_at"`
}
