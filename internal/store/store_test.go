package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpos/m/domain"
	"retailpos/m/internal/store"
	"retailpos/m/internal/storetest"
)

func TestInventoryRepo_Decrement(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)
	repo := store.NewInventoryRepo(db)
	now := time.Now().UTC()

	storetest.SetStock(t, db, "P1", "B1", 5)

	t.Run("returns post-update quantity", func(t *testing.T) {
		qty, err := repo.Decrement(ctx, "P1", "B1", 2, true, now)
		require.NoError(t, err)
		assert.Equal(t, int64(3), qty)
	})

	t.Run("floor guard rejects overdraw without touching the row", func(t *testing.T) {
		_, err := repo.Decrement(ctx, "P1", "B1", 4, true, now)
		assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
		assert.Equal(t, int64(3), storetest.Stock(t, db, "P1", "B1"))
	})

	t.Run("without floor quantity may go negative", func(t *testing.T) {
		qty, err := repo.Decrement(ctx, "P1", "B1", 4, false, now)
		require.NoError(t, err)
		assert.Equal(t, int64(-1), qty)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := repo.Decrement(ctx, "P1", "B2", 1, true, now)
		assert.ErrorIs(t, err, domain.ErrInventoryNotFound)
		_, err = repo.Decrement(ctx, "NOPE", "B1", 1, false, now)
		assert.ErrorIs(t, err, domain.ErrInventoryNotFound)
	})
}

func TestInventoryRepo_Increment(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)
	repo := store.NewInventoryRepo(db)

	storetest.SetStock(t, db, "P1", "B1", 0)

	qty, err := repo.Increment(ctx, "P1", "B1", 7, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(7), qty)

	_, err = repo.Increment(ctx, "P1", "B9", 1, time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrInventoryNotFound)
}

func TestInventoryRepo_ListByBranch(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)
	repo := store.NewInventoryRepo(db)

	storetest.SetStock(t, db, "B", "B1", 1)
	storetest.SetStock(t, db, "A", "B1", 2)
	storetest.SetStock(t, db, "C", "B1", 3)
	storetest.SetStock(t, db, "A", "B2", 9)

	all, err := repo.ListByBranch(ctx, "B1", nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].ProductCode)
	assert.Equal(t, "C", all[2].ProductCode)

	some, err := repo.ListByBranch(ctx, "B1", []string{"C", "A"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, int64(2), some[0].Quantity)
}

func TestInventoryRepo_CustomPricesNullability(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)
	repo := store.NewInventoryRepo(db)

	require.NoError(t, repo.Upsert(ctx, &domain.InventoryRecord{
		ProductCode: "P1", BranchID: "B1", Quantity: 1, UpdatedAt: time.Now().UTC(),
	}))
	require.NoError(t, repo.Upsert(ctx, &domain.InventoryRecord{
		ProductCode: "P2", BranchID: "B1", Quantity: 1, UpdatedAt: time.Now().UTC(),
		SalePrice:    decimal.NewNullDecimal(decimal.RequireFromString("12.50")),
		CustomPrices: domain.CustomPrices{{Name: "b", Price: decimal.NewFromInt(20)}},
	}))

	rec, err := repo.Get(ctx, "P1", "B1")
	require.NoError(t, err)
	assert.Nil(t, rec.CustomPrices)
	assert.False(t, rec.SalePrice.Valid)

	rec, err = repo.Get(ctx, "P2", "B1")
	require.NoError(t, err)
	require.Len(t, rec.CustomPrices, 1)
	assert.Equal(t, "b", rec.CustomPrices[0].Name)
	assert.True(t, rec.CustomPrices[0].Price.Equal(decimal.NewFromInt(20)))
	assert.True(t, rec.SalePrice.Decimal.Equal(decimal.RequireFromString("12.5")))
}

func TestSaleRepo(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)
	repo := store.NewSaleRepo(db)
	now := time.Now().UTC()

	sale := &domain.Sale{
		ID:             uuid.New().String(),
		BranchID:       "B1",
		TotalAmount:    decimal.RequireFromString("30.00"),
		AmountReceived: decimal.RequireFromString("50"),
		ChangeGiven:    decimal.RequireFromString("20"),
		CreatedBy:      "u1",
		Kind:           domain.SaleKindInvoice,
		PaymentStatus:  domain.PaymentPaid,
		CreatedAt:      now,
	}
	require.NoError(t, repo.CreateSale(ctx, sale))

	items := []domain.SaleLineItem{
		{ID: uuid.New().String(), SaleID: sale.ID, ProductCode: "X", Quantity: 2, UnitPrice: decimal.NewFromInt(5), Subtotal: decimal.NewFromInt(10), Position: 0, CreatedAt: now},
		{ID: uuid.New().String(), SaleID: sale.ID, ProductCode: "Y", Quantity: 1, UnitPrice: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(10), Position: 1, CreatedAt: now},
		{ID: uuid.New().String(), SaleID: sale.ID, ProductCode: "X", Quantity: 2, UnitPrice: decimal.NewFromInt(5), Subtotal: decimal.NewFromInt(10), Position: 2, CreatedAt: now},
	}
	require.NoError(t, repo.CreateItems(ctx, items))

	t.Run("get sale", func(t *testing.T) {
		got, err := repo.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SaleKindInvoice, got.Kind)
		assert.Nil(t, got.CustomerID)
		assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(30)))
	})

	t.Run("items keep submission order", func(t *testing.T) {
		got, err := repo.ItemsBySale(ctx, sale.ID)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"X", "Y", "X"}, []string{got[0].ProductCode, got[1].ProductCode, got[2].ProductCode})
	})

	t.Run("deletes are idempotent", func(t *testing.T) {
		require.NoError(t, repo.DeleteItemsBySale(ctx, sale.ID))
		require.NoError(t, repo.DeleteItemsBySale(ctx, sale.ID))
		require.NoError(t, repo.DeleteSale(ctx, sale.ID))
		require.NoError(t, repo.DeleteSale(ctx, sale.ID))

		_, err := repo.GetSale(ctx, sale.ID)
		assert.ErrorIs(t, err, domain.ErrSaleNotFound)
		n, err := repo.CountItemsBySale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestCatalogRepo(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)
	repo := store.NewCatalogRepo(db)

	storetest.CreateProduct(t, db, "P1", "Coffee 500g", "Acme", 10)

	added, err := repo.InsertMissing(ctx, []domain.Product{
		{Code: "P1", Description: "ignored"},
		{Code: "P2", Description: "Tea", CustomPrices: domain.CustomPrices{{Name: "a", Price: decimal.NewFromInt(10)}}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), added)

	got, err := repo.ByCodes(ctx, []string{"P1", "P2", "P3"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Coffee 500g", got["P1"].Description)
	assert.Nil(t, got["P1"].CustomPrices)
	assert.Len(t, got["P2"].CustomPrices, 1)
}

func TestDirectoryRepo_NotFound(t *testing.T) {
	db := storetest.Open(t)
	repo := store.NewDirectoryRepo(db)

	_, err := repo.Branch(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.Customer(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
