package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/model"
)

func strPtr(s string) *string { return &s }

func makeProduct(id, tenantID, name string, barcode *string, stock int) model.Product {
	return model.Product{
		ID:            id,
		TenantID:      tenantID,
		Name:          name,
		Barcode:       barcode,
		Price:         decimal.NewFromFloat(5.00),
		CostPrice:     decimal.NewFromFloat(3.50),
		StockQuantity: stock,
		Active:        true,
		UpdatedAt:     time.Now(),
	}
}

func TestCatalogStoreReplaceProductsOverwritesSnapshot(t *testing.T) {
	catalog := NewCatalogStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, catalog.ReplaceProducts(ctx, "t1", []model.Product{
		makeProduct("p-1", "t1", "Old A", nil, 10),
		makeProduct("p-2", "t1", "Old B", nil, 5),
	}))
	require.NoError(t, catalog.ReplaceProducts(ctx, "t2", []model.Product{
		makeProduct("p-9", "t2", "Other tenant", nil, 1),
	}))

	// A fresh pull replaces t1's snapshot wholesale; t2 is untouched.
	require.NoError(t, catalog.ReplaceProducts(ctx, "t1", []model.Product{
		makeProduct("p-3", "t1", "New C", nil, 7),
	}))

	got, err := catalog.GetProducts(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p-3", got[0].ID)

	other, err := catalog.GetProducts(ctx, "t2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "p-9", other[0].ID)
}

func TestCatalogStoreReplaceWithEmptySetClears(t *testing.T) {
	catalog := NewCatalogStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, catalog.ReplaceCustomers(ctx, "t1", []model.Customer{
		{ID: "c-1", TenantID: "t1", Name: "Ama", UpdatedAt: time.Now()},
	}))
	require.NoError(t, catalog.ReplaceCustomers(ctx, "t1", nil))

	got, err := catalog.GetCustomers(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCatalogStoreFindByBarcode(t *testing.T) {
	catalog := NewCatalogStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, catalog.ReplaceProducts(ctx, "t1", []model.Product{
		makeProduct("p-1", "t1", "Water", strPtr("6151100000011"), 10),
		makeProduct("p-2", "t1", "No barcode", nil, 10),
	}))

	p, err := catalog.FindProductByBarcode(ctx, "t1", "6151100000011")
	require.NoError(t, err)
	assert.Equal(t, "p-1", p.ID)

	_, err = catalog.FindProductByBarcode(ctx, "t1", "0000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = catalog.FindProductByBarcode(ctx, "t2", "6151100000011")
	assert.ErrorIs(t, err, ErrNotFound, "barcode lookups are tenant-scoped")
}

func TestCatalogStoreFindCustomerByPhone(t *testing.T) {
	catalog := NewCatalogStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, catalog.ReplaceCustomers(ctx, "t1", []model.Customer{
		{ID: "c-1", TenantID: "t1", Name: "Ama", Phone: strPtr("0244000001"), UpdatedAt: time.Now()},
	}))

	c, err := catalog.FindCustomerByPhone(ctx, "t1", "0244000001")
	require.NoError(t, err)
	assert.Equal(t, "Ama", c.Name)

	_, err = catalog.FindCustomerByPhone(ctx, "t1", "0000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogStoreAdjustStock(t *testing.T) {
	catalog := NewCatalogStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, catalog.ReplaceProducts(ctx, "t1", []model.Product{
		makeProduct("p-1", "t1", "Water", nil, 10),
	}))

	require.NoError(t, catalog.AdjustStock(ctx, "p-1", -3))
	require.NoError(t, catalog.AdjustStock(ctx, "p-1", -4))

	p, err := catalog.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.StockQuantity)

	assert.ErrorIs(t, catalog.AdjustStock(ctx, "missing", -1), ErrNotFound)
}
