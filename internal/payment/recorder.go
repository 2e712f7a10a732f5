// Package payment records money received against a sale.
package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailpos/m/domain"
	"retailpos/m/internal/pkg/clock"
)

type Store interface {
	Create(ctx context.Context, p *domain.Payment) error
	DeleteBySale(ctx context.Context, saleID string) error
}

type Recorder struct {
	store Store
	clock clock.Clock
}

func NewRecorder(store Store, clk clock.Clock) *Recorder {
	return &Recorder{store: store, clock: clk}
}

// Create records a payment of amount against saleID and returns its id.
func (r *Recorder) Create(ctx context.Context, saleID string, amount decimal.Decimal, method, notes, creatorID string) (string, error) {
	if !amount.IsPositive() {
		return "", domain.ErrInvalidAmount
	}
	if method == "" {
		method = "cash"
	}
	p := &domain.Payment{
		ID:        uuid.New().String(),
		SaleID:    saleID,
		Amount:    amount,
		Method:    method,
		CreatedBy: creatorID,
		PaidAt:    r.clock.Now(),
	}
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		p.Notes = &trimmed
	}
	if err := r.store.Create(ctx, p); err != nil {
		return "", fmt.Errorf("record payment: %w", err)
	}
	return p.ID, nil
}

// DeleteBySale removes every payment of saleID. Deleting none is not an error.
func (r *Recorder) DeleteBySale(ctx context.Context, saleID string) error {
	return r.store.DeleteBySale(ctx, saleID)
}
