// Package saga records a POS sale across the sale, item, inventory and payment
// collections. The store has no multi-collection transaction, so each step that
// committed is undone in reverse order when a later step fails.
package saga

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"retailpos/m/domain"
	"retailpos/m/internal/events"
	"retailpos/m/internal/pkg/clock"
)

const publishTimeout = 5 * time.Second

type SaleStore interface {
	CreateSale(ctx context.Context, sale *domain.Sale) error
	DeleteSale(ctx context.Context, saleID string) error
	CreateItems(ctx context.Context, items []domain.SaleLineItem) error
	DeleteItemsBySale(ctx context.Context, saleID string) error
	GetSale(ctx context.Context, saleID string) (*domain.Sale, error)
	ItemsBySale(ctx context.Context, saleID string) ([]domain.SaleLineItem, error)
}

type Ledger interface {
	Decrement(ctx context.Context, code, branchID string, qty int64) (int64, error)
	Increment(ctx context.Context, code, branchID string, qty int64) (int64, error)
}

type PaymentRecorder interface {
	Create(ctx context.Context, saleID string, amount decimal.Decimal, method, notes, creatorID string) (string, error)
	DeleteBySale(ctx context.Context, saleID string) error
}

type Projector interface {
	Project(ctx context.Context, saleID string) (*domain.Receipt, error)
}

type Saga struct {
	sales     SaleStore
	ledger    Ledger
	payments  PaymentRecorder
	projector Projector
	publisher events.Publisher
	clock     clock.Clock
	logger    *zap.Logger
	tracer    trace.Tracer
}

type Option func(*Saga)

// WithPublisher sends sale events to p. Without it events are dropped.
func WithPublisher(p events.Publisher) Option {
	return func(s *Saga) { s.publisher = p }
}

func New(sales SaleStore, ledger Ledger, payments PaymentRecorder, projector Projector, clk clock.Clock, logger *zap.Logger, opts ...Option) *Saga {
	s := &Saga{
		sales:     sales,
		ledger:    ledger,
		payments:  payments,
		projector: projector,
		publisher: events.Nop(),
		clock:     clk,
		logger:    logger,
		tracer:    otel.Tracer("retailpos/saga"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// progress tracks what one run has committed so far.
type progress struct {
	sale           *domain.Sale
	saleWritten    bool
	itemsWritten   bool
	decremented    []domain.CartLine
	paymentWritten bool
}

// Execute records the sale described by req and returns its receipt.
//
// Errors are a *ValidationError (nothing written), a *StepError (everything
// undone, or for StageReceipt everything committed) or a *CompensationError
// (rollback incomplete).
func (s *Saga) Execute(ctx context.Context, req *domain.SaleRequest) (*domain.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "sale_saga")
	defer span.End()

	if err := Validate(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := s.clock.Now()
	sale := &domain.Sale{
		ID:             uuid.New().String(),
		BranchID:       req.BranchID,
		CustomerID:     req.CustomerID,
		TotalAmount:    req.Total(),
		AmountReceived: req.AmountReceived,
		ChangeGiven:    req.Change(),
		CreatedBy:      req.CreatedBy,
		Kind:           req.Kind,
		PaymentStatus:  req.InitialPaymentStatus(),
		ParentSaleID:   req.ParentSaleID,
		CreatedAt:      now,
	}
	span.SetAttributes(
		attribute.String("sale.id", sale.ID),
		attribute.String("sale.kind", string(sale.Kind)),
		attribute.String("branch.id", sale.BranchID),
		attribute.Int("sale.lines", len(req.Cart)),
	)
	p := &progress{sale: sale}

	if err := s.sales.CreateSale(ctx, sale); err != nil {
		return nil, s.abort(ctx, span, p, StageSale, err)
	}
	p.saleWritten = true

	// Flagged before the call: a failed batch may have landed in part, and
	// deleting by sale is idempotent.
	p.itemsWritten = true
	if err := s.sales.CreateItems(ctx, lineItems(sale.ID, req.Cart, now)); err != nil {
		return nil, s.abort(ctx, span, p, StageItems, err)
	}

	if req.Kind != domain.SaleKindQuote {
		for i, line := range req.Cart {
			if _, err := s.ledger.Decrement(ctx, line.ProductCode, req.BranchID, line.Quantity); err != nil {
				return nil, s.abort(ctx, span, p, StageInventory, fmt.Errorf("line %d (%s): %w", i, line.ProductCode, err))
			}
			p.decremented = append(p.decremented, line)
		}
	}

	if req.Kind == domain.SaleKindCredit && req.AmountReceived.IsPositive() {
		p.paymentWritten = true
		if _, err := s.payments.Create(ctx, sale.ID, req.AmountReceived, req.PaymentMethod, req.PaymentNotes, req.CreatedBy); err != nil {
			return nil, s.abort(ctx, span, p, StagePayment, err)
		}
	}

	receipt, err := s.projector.Project(ctx, sale.ID)
	if err != nil {
		stepErr := &StepError{Stage: StageReceipt, SaleID: sale.ID, Err: err}
		span.RecordError(stepErr)
		span.SetStatus(codes.Error, stepErr.Error())
		s.logger.Warn("sale committed but receipt unavailable",
			zap.String("sale_id", sale.ID),
			zap.Error(err),
		)
		return nil, stepErr
	}

	s.publish(ctx, events.TopicSaleCompleted, sale.ID, events.SaleCompleted{
		SaleID:       sale.ID,
		BranchID:     sale.BranchID,
		Kind:         string(sale.Kind),
		TotalAmount:  sale.TotalAmount,
		ParentSaleID: sale.ParentSaleID,
		CreatedAt:    sale.CreatedAt,
	})
	span.SetStatus(codes.Ok, "")
	return receipt, nil
}

func lineItems(saleID string, cart []domain.CartLine, at time.Time) []domain.SaleLineItem {
	items := make([]domain.SaleLineItem, len(cart))
	for i, line := range cart {
		items[i] = domain.SaleLineItem{
			ID:          uuid.New().String(),
			SaleID:      saleID,
			ProductCode: line.ProductCode,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal(),
			Position:    i,
			CreatedAt:   at,
		}
	}
	return items
}

// abort undoes p and builds the error returned to the caller.
func (s *Saga) abort(ctx context.Context, span trace.Span, p *progress, stage Stage, cause error) error {
	stepErr := &StepError{Stage: stage, SaleID: p.sale.ID, Err: cause}
	span.RecordError(stepErr)
	span.SetStatus(codes.Error, stepErr.Error())

	// Rollback runs to the end even when the caller has gone away.
	failures := s.compensate(context.WithoutCancel(ctx), p)
	if len(failures) == 0 {
		s.logger.Warn("sale rolled back",
			zap.String("sale_id", p.sale.ID),
			zap.String("stage", string(stage)),
			zap.Error(cause),
		)
		return stepErr
	}

	compErr := &CompensationError{Cause: stepErr, Failures: failures}
	s.logger.Error("sale rollback incomplete",
		zap.String("sale_id", p.sale.ID),
		zap.String("branch_id", p.sale.BranchID),
		zap.String("stage", string(stage)),
		zap.Error(cause),
		zap.Errors("rollback_failures", failures),
	)
	msgs := make([]string, len(failures))
	for i, f := range failures {
		msgs[i] = f.Error()
	}
	s.publish(ctx, events.TopicSaleInconsistent, p.sale.ID, events.SaleInconsistent{
		SaleID:     p.sale.ID,
		BranchID:   p.sale.BranchID,
		Stage:      string(stage),
		Cause:      cause.Error(),
		Failures:   msgs,
		DetectedAt: s.clock.Now(),
	})
	return compErr
}

// compensate reverses completed steps, newest first. Every step is attempted
// regardless of earlier failures.
func (s *Saga) compensate(ctx context.Context, p *progress) []error {
	ctx, span := s.tracer.Start(ctx, "sale_saga_compensate", trace.WithAttributes(
		attribute.String("sale.id", p.sale.ID),
	))
	defer span.End()

	var failures []error
	if p.paymentWritten {
		if err := s.payments.DeleteBySale(ctx, p.sale.ID); err != nil {
			failures = append(failures, fmt.Errorf("delete payments: %w", err))
		}
	}
	for i := len(p.decremented) - 1; i >= 0; i-- {
		line := p.decremented[i]
		if _, err := s.ledger.Increment(ctx, line.ProductCode, p.sale.BranchID, line.Quantity); err != nil {
			failures = append(failures, fmt.Errorf("restore %d of %s: %w", line.Quantity, line.ProductCode, err))
		}
	}
	if p.itemsWritten {
		if err := s.sales.DeleteItemsBySale(ctx, p.sale.ID); err != nil {
			failures = append(failures, fmt.Errorf("delete items: %w", err))
		}
	}
	if p.saleWritten {
		if err := s.sales.DeleteSale(ctx, p.sale.ID); err != nil {
			failures = append(failures, fmt.Errorf("delete sale: %w", err))
		}
	}

	if len(failures) > 0 {
		span.SetStatus(codes.Error, "rollback incomplete")
	}
	return failures
}

// publish is best effort; a broker outage never fails a sale.
func (s *Saga) publish(ctx context.Context, topic, key string, event any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.PublishEvent(ctx, topic, key, event); err != nil {
		s.logger.Warn("failed to publish sale event",
			zap.String("topic", topic),
			zap.String("sale_id", key),
			zap.Error(err),
		)
	}
}
