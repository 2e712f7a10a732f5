package receipt_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpos/m/domain"
	"retailpos/m/internal/receipt"
	"retailpos/m/internal/store"
	"retailpos/m/internal/storetest"
)

func writeSale(t *testing.T, sales *store.SaleRepo, branchID string, customerID *string, codes ...string) string {
	t.Helper()
	now := time.Now().UTC()
	sale := &domain.Sale{
		ID:            uuid.New().String(),
		BranchID:      branchID,
		CustomerID:    customerID,
		CreatedBy:     "u1",
		Kind:          domain.SaleKindInvoice,
		PaymentStatus: domain.PaymentPaid,
		CreatedAt:     now,
	}
	require.NoError(t, sales.CreateSale(context.Background(), sale))

	items := make([]domain.SaleLineItem, len(codes))
	for i, code := range codes {
		items[i] = domain.SaleLineItem{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			ProductCode: code,
			Quantity:    int64(i + 1),
			UnitPrice:   decimal.NewFromInt(2),
			Subtotal:    decimal.NewFromInt(int64(2 * (i + 1))),
			Position:    i,
			CreatedAt:   now,
		}
	}
	require.NoError(t, sales.CreateItems(context.Background(), items))
	return sale.ID
}

func TestProject(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)
	sales := store.NewSaleRepo(db)
	projector := receipt.NewProjector(sales, store.NewDirectoryRepo(db), store.NewCatalogRepo(db))

	branchID := storetest.CreateBranch(t, db, "Downtown")
	customerID := storetest.CreateCustomer(t, db, "Ada")
	storetest.CreateProduct(t, db, "X", "Widget", "Acme", 2)
	storetest.CreateProduct(t, db, "Y", "Gadget", "Globex", 2)

	t.Run("lines keep cart order including repeats", func(t *testing.T) {
		saleID := writeSale(t, sales, branchID, &customerID, "X", "Y", "X")

		r, err := projector.Project(ctx, saleID)
		require.NoError(t, err)
		require.Len(t, r.Lines, 3)
		assert.Equal(t, "X", r.Lines[0].ProductCode)
		assert.Equal(t, "Y", r.Lines[1].ProductCode)
		assert.Equal(t, "X", r.Lines[2].ProductCode)
		assert.Equal(t, int64(3), r.Lines[2].Quantity)
		require.NotNil(t, r.Lines[1].ProductName)
		assert.Equal(t, "Gadget", *r.Lines[1].ProductName)
		assert.Equal(t, "Globex", *r.Lines[1].Brand)

		require.NotNil(t, r.BranchName)
		assert.Equal(t, "Downtown", *r.BranchName)
		require.NotNil(t, r.CustomerName)
		assert.Equal(t, "Ada", *r.CustomerName)
		assert.Equal(t, saleID, r.ID)
	})

	t.Run("missing references stay nil", func(t *testing.T) {
		ghost := "no-such-customer"
		saleID := writeSale(t, sales, "no-such-branch", &ghost, "UNKNOWN")

		r, err := projector.Project(ctx, saleID)
		require.NoError(t, err)
		assert.Nil(t, r.BranchName)
		assert.Nil(t, r.CustomerName)
		require.Len(t, r.Lines, 1)
		assert.Nil(t, r.Lines[0].ProductName)
		assert.Nil(t, r.Lines[0].Brand)
	})

	t.Run("walk-in sale has no customer", func(t *testing.T) {
		saleID := writeSale(t, sales, branchID, nil, "X")

		r, err := projector.Project(ctx, saleID)
		require.NoError(t, err)
		assert.Nil(t, r.CustomerName)
	})

	t.Run("missing sale", func(t *testing.T) {
		_, err := projector.Project(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrSaleNotFound)
	})
}
