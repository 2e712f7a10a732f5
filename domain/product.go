package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CustomPrice is a named price list entry, e.g. a negotiated price for a client group.
type CustomPrice struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CustomPrices is stored as a JSON document. A nil slice means "not set" and is
// persisted as NULL; an empty slice is a real, empty list.
type CustomPrices []CustomPrice

func (c CustomPrices) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	b, err := json.Marshal([]CustomPrice(c))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *CustomPrices) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("custom prices: unsupported source type %T", src)
	}
	list := CustomPrices{}
	if err := json.Unmarshal(raw, &list); err != nil {
		return fmt.Errorf("custom prices: %w", err)
	}
	*c = list
	return nil
}

// Product is a canonical catalog entry. The catalog is read-only to the sale core.
type Product struct {
	Code         string          `db:"code" json:"code"`
	Description  string          `db:"description" json:"description"`
	Brand        string          `db:"brand" json:"brand"`
	Family       string          `db:"family" json:"family"`
	Price1       decimal.Decimal `db:"price1" json:"price1"`
	Price2       decimal.Decimal `db:"price2" json:"price2"`
	Price3       decimal.Decimal `db:"price3" json:"price3"`
	Weight       decimal.Decimal `db:"weight" json:"weight"`
	Volume       decimal.Decimal `db:"volume" json:"volume"`
	CustomPrices CustomPrices    `db:"custom_prices" json:"custom_prices"`
}

// SellableProduct is the per-branch merge of a catalog entry and its inventory record.
// It is never persisted.
type SellableProduct struct {
	Code         string          `json:"code"`
	Description  string          `json:"description"`
	Brand        string          `json:"brand"`
	Family       string          `json:"family"`
	Price1       decimal.Decimal `json:"price1"`
	Price2       decimal.Decimal `json:"price2"`
	Price3       decimal.Decimal `json:"price3"`
	Weight       decimal.Decimal `json:"weight"`
	Volume       decimal.Decimal `json:"volume"`
	CustomPrices CustomPrices    `json:"custom_prices"`
	BranchID     string          `json:"branch_id"`
	BranchName   string          `json:"branch_name"`
	Quantity     int64           `json:"quantity"`
}
