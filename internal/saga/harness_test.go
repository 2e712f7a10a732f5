package saga_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"retailpos/m/domain"
	"retailpos/m/internal/ledger"
	"retailpos/m/internal/payment"
	"retailpos/m/internal/pkg/clock"
	"retailpos/m/internal/receipt"
	"retailpos/m/internal/saga"
	"retailpos/m/internal/store"
	"retailpos/m/internal/storetest"
)

var errInjected = errors.New("injected failure")

type faultySales struct {
	*store.SaleRepo
	failCreateSale  error
	failCreateItems error
	failDeleteSale  error
	failDeleteItems error
}

func (f *faultySales) CreateSale(ctx context.Context, sale *domain.Sale) error {
	if f.failCreateSale != nil {
		return f.failCreateSale
	}
	return f.SaleRepo.CreateSale(ctx, sale)
}

func (f *faultySales) CreateItems(ctx context.Context, items []domain.SaleLineItem) error {
	if f.failCreateItems != nil {
		return f.failCreateItems
	}
	return f.SaleRepo.CreateItems(ctx, items)
}

func (f *faultySales) DeleteSale(ctx context.Context, saleID string) error {
	if f.failDeleteSale != nil {
		return f.failDeleteSale
	}
	return f.SaleRepo.DeleteSale(ctx, saleID)
}

func (f *faultySales) DeleteItemsBySale(ctx context.Context, saleID string) error {
	if f.failDeleteItems != nil {
		return f.failDeleteItems
	}
	return f.SaleRepo.DeleteItemsBySale(ctx, saleID)
}

// faultyLedger fails the failDecrementAt-th decrement (1-based) of a run.
type faultyLedger struct {
	*ledger.Ledger
	decrements      int
	failDecrementAt int
	failIncrement   error
	onFailure       func()
}

func (f *faultyLedger) Decrement(ctx context.Context, code, branchID string, qty int64) (int64, error) {
	f.decrements++
	if f.decrements == f.failDecrementAt {
		if f.onFailure != nil {
			f.onFailure()
		}
		return 0, errInjected
	}
	return f.Ledger.Decrement(ctx, code, branchID, qty)
}

func (f *faultyLedger) Increment(ctx context.Context, code, branchID string, qty int64) (int64, error) {
	if f.failIncrement != nil {
		return 0, f.failIncrement
	}
	return f.Ledger.Increment(ctx, code, branchID, qty)
}

type faultyPayments struct {
	*payment.Recorder
	failCreate error
}

func (f *faultyPayments) Create(ctx context.Context, saleID string, amount decimal.Decimal, method, notes, creatorID string) (string, error) {
	if f.failCreate != nil {
		return "", f.failCreate
	}
	return f.Recorder.Create(ctx, saleID, amount, method, notes, creatorID)
}

type faultyProjector struct {
	*receipt.Projector
	fail error
}

func (f *faultyProjector) Project(ctx context.Context, saleID string) (*domain.Receipt, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return f.Projector.Project(ctx, saleID)
}

type published struct {
	topic string
	key   string
	event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{topic: topic, key: key, event: event})
	return nil
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	topics := make([]string, len(p.events))
	for i, e := range p.events {
		topics[i] = e.topic
	}
	return topics
}

type harness struct {
	t          *testing.T
	db         *sqlx.DB
	saga       *saga.Saga
	sales      *faultySales
	ledger     *faultyLedger
	payments   *faultyPayments
	projector  *faultyProjector
	publisher  *recordingPublisher
	logs       *observer.ObservedLogs
	branchID   string
	customerID string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := storetest.Open(t)
	clk := clock.NewMock(time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC))
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	saleRepo := store.NewSaleRepo(db)
	h := &harness{
		t:         t,
		db:        db,
		sales:     &faultySales{SaleRepo: saleRepo},
		ledger:    &faultyLedger{Ledger: ledger.New(store.NewInventoryRepo(db), clk, logger)},
		payments:  &faultyPayments{Recorder: payment.NewRecorder(store.NewPaymentRepo(db), clk)},
		projector: &faultyProjector{Projector: receipt.NewProjector(saleRepo, store.NewDirectoryRepo(db), store.NewCatalogRepo(db))},
		publisher: &recordingPublisher{},
		logs:      logs,
	}
	h.saga = saga.New(h.sales, h.ledger, h.payments, h.projector, clk, logger, saga.WithPublisher(h.publisher))

	h.branchID = storetest.CreateBranch(t, db, "Central")
	h.customerID = storetest.CreateCustomer(t, db, "Grace")
	storetest.CreateProduct(t, db, "P1", "Coffee", "Acme", 4)
	storetest.CreateProduct(t, db, "P2", "Tea", "Acme", 3)
	storetest.SetStock(t, db, "P1", h.branchID, 10)
	storetest.SetStock(t, db, "P2", h.branchID, 5)
	return h
}

func (h *harness) stock(code string) int64 {
	return storetest.Stock(h.t, h.db, code, h.branchID)
}

func (h *harness) ledgerStock(t *testing.T, code string, qty int64) {
	storetest.SetStock(t, h.db, code, h.branchID, qty)
}

func (h *harness) count(table string) int {
	return storetest.Count(h.t, h.db, table, "")
}

func (h *harness) request(kind domain.SaleKind, cart ...domain.CartLine) *domain.SaleRequest {
	req := &domain.SaleRequest{
		BranchID:  h.branchID,
		Kind:      kind,
		Cart:      cart,
		CreatedBy: "cashier-1",
	}
	if kind == domain.SaleKindCredit {
		req.CustomerID = &h.customerID
	}
	return req
}

func line(code string, qty int64, price string) domain.CartLine {
	return domain.CartLine{ProductCode: code, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}
