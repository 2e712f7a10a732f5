package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"retailpos/m/internal/seed"
	"retailpos/m/internal/store"
	"retailpos/m/internal/storetest"
)

const catalogCSV = `code,description,brand,family,price1,price2,price3,weight,volume
P1,Coffee 500g,Acme,beverages,12.50,12.00,11.00,0.5,
P2,Green tea,Acme,beverages,4,4,4,,0.25
P3,,NoName,misc,1,1,1,,
P4,Broken price,Acme,misc,abc,1,1,,
short,row
`

func TestLoadCatalog(t *testing.T) {
	ctx := context.Background()
	db := storetest.Open(t)
	repo := store.NewCatalogRepo(db)
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(catalogCSV), 0o600))

	added, err := seed.LoadCatalog(ctx, repo, path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, int64(2), added)

	products, err := repo.ByCodes(ctx, []string{"P1", "P2", "P3", "P4"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.True(t, products["P1"].Price1.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, products["P2"].Volume.Equal(decimal.RequireFromString("0.25")))

	added, err = seed.LoadCatalog(ctx, repo, path, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	db := storetest.Open(t)
	added, err := seed.LoadCatalog(context.Background(), store.NewCatalogRepo(db), filepath.Join(t.TempDir(), "absent.csv"), zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, added)
}
