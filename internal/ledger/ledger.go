// Package ledger applies quantity changes to branch inventory records. Every change
// is a single conditional UPDATE in the store; the ledger never reads a quantity
// and writes it back.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"retailpos/m/domain"
	"retailpos/m/internal/pkg/clock"
)

// Store is the persistence the ledger needs; store.InventoryRepo satisfies it.
type Store interface {
	Decrement(ctx context.Context, code, branchID string, qty int64, floor bool, at time.Time) (int64, error)
	Increment(ctx context.Context, code, branchID string, qty int64, at time.Time) (int64, error)
}

type Ledger struct {
	store         Store
	clock         clock.Clock
	logger        *zap.Logger
	tracer        trace.Tracer
	allowOversell bool
}

type Option func(*Ledger)

// WithOversell lets decrements take a quantity below zero.
func WithOversell(allow bool) Option {
	return func(l *Ledger) { l.allowOversell = allow }
}

func New(store Store, clk clock.Clock, logger *zap.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		clock:  clk,
		logger: logger,
		tracer: otel.Tracer("retailpos/ledger"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Decrement removes qty units of code from branchID and returns the new quantity.
// Unless oversell is allowed, a decrement that would go below zero fails with
// domain.ErrInsufficientInventory and changes nothing.
func (l *Ledger) Decrement(ctx context.Context, code, branchID string, qty int64) (int64, error) {
	ctx, span := l.startSpan(ctx, "inventory_decrement", code, branchID, qty)
	defer span.End()

	if qty <= 0 {
		return 0, fail(span, domain.ErrInvalidQuantity)
	}
	quantity, err := l.store.Decrement(ctx, code, branchID, qty, !l.allowOversell, l.clock.Now())
	if err != nil {
		return 0, fail(span, err)
	}
	span.SetAttributes(attribute.Int64("inventory.quantity", quantity))
	span.SetStatus(codes.Ok, "")
	return quantity, nil
}

// Increment adds qty units of code to branchID and returns the new quantity.
func (l *Ledger) Increment(ctx context.Context, code, branchID string, qty int64) (int64, error) {
	ctx, span := l.startSpan(ctx, "inventory_increment", code, branchID, qty)
	defer span.End()

	if qty <= 0 {
		return 0, fail(span, domain.ErrInvalidQuantity)
	}
	quantity, err := l.store.Increment(ctx, code, branchID, qty, l.clock.Now())
	if errors.Is(err, domain.ErrInventoryNotFound) {
		// Increments restore or receive stock for a record that must already exist.
		l.logger.Error("increment of missing inventory record",
			zap.String("product_code", code),
			zap.String("branch_id", branchID),
			zap.Int64("quantity", qty),
		)
	}
	if err != nil {
		return 0, fail(span, err)
	}
	span.SetAttributes(attribute.Int64("inventory.quantity", quantity))
	span.SetStatus(codes.Ok, "")
	return quantity, nil
}

// Adjust applies a signed manual correction, such as a stock count or shrinkage.
func (l *Ledger) Adjust(ctx context.Context, code, branchID string, delta int64) (int64, error) {
	switch {
	case delta > 0:
		return l.Increment(ctx, code, branchID, delta)
	case delta < 0:
		return l.Decrement(ctx, code, branchID, -delta)
	}
	return 0, domain.ErrInvalidQuantity
}

// Transfer moves qty units of code between two branches. When the destination
// cannot be credited the source decrement is reversed.
func (l *Ledger) Transfer(ctx context.Context, code, fromBranch, toBranch string, qty int64) error {
	if fromBranch == toBranch {
		return domain.ErrSameBranch
	}
	if _, err := l.Decrement(ctx, code, fromBranch, qty); err != nil {
		return fmt.Errorf("take from %s: %w", fromBranch, err)
	}

	_, err := l.Increment(ctx, code, toBranch, qty)
	if err == nil {
		return nil
	}
	err = fmt.Errorf("give to %s: %w", toBranch, err)

	if _, undoErr := l.Increment(ctx, code, fromBranch, qty); undoErr != nil {
		l.logger.Error("transfer rollback failed",
			zap.String("product_code", code),
			zap.String("from_branch", fromBranch),
			zap.String("to_branch", toBranch),
			zap.Int64("quantity", qty),
			zap.Error(undoErr),
		)
		return errors.Join(err, fmt.Errorf("restore %s: %w", fromBranch, undoErr))
	}
	l.logger.Warn("transfer rolled back",
		zap.String("product_code", code),
		zap.String("from_branch", fromBranch),
		zap.String("to_branch", toBranch),
		zap.Error(err),
	)
	return err
}

func (l *Ledger) startSpan(ctx context.Context, name, code, branchID string, qty int64) (context.Context, trace.Span) {
	return l.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("product.code", code),
		attribute.String("branch.id", branchID),
		attribute.Int64("inventory.delta", qty),
	))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
