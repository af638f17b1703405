package service

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/dto"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/model"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/store"
)

type countingTrigger struct{ n atomic.Int64 }

func (c *countingTrigger) Trigger() { c.n.Add(1) }

type saleFixture struct {
	svc      SaleService
	trigger  *countingTrigger
	sales    store.SaleStore
	catalog  store.CatalogStore
	settings store.SettingsStore
	db       *gorm.DB
}

func newSaleFixture(t *testing.T, tenantID string) *saleFixture {
	t.Helper()
	dir := t.TempDir()
	db, err := store.Open(filepath.Join(dir, "service_test.db"))
	require.NoError(t, err)

	f := &saleFixture{
		trigger:  &countingTrigger{},
		sales:    store.NewSaleStore(db),
		catalog:  store.NewCatalogStore(db),
		settings: store.NewSettingsStore(db),
		db:       db,
	}
	f.svc = NewSaleService(f.sales, f.catalog, f.settings, f.trigger,
		"store-1", "Swiftgo Test Store", filepath.Join(dir, "receipts"))

	ctx := context.Background()
	if tenantID != "" {
		require.NoError(t, f.settings.Set(ctx, model.SettingTenantID, tenantID))
	}
	require.NoError(t, f.catalog.ReplaceProducts(ctx, tenantID, []model.Product{
		{ID: "p-water", TenantID: tenantID, Name: "Sachet Water", Price: decimal.NewFromFloat(0.50),
			CostPrice: decimal.NewFromFloat(0.30), StockQuantity: 100, Active: true, UpdatedAt: time.Now()},
		{ID: "p-paste", TenantID: tenantID, Name: "Tomato Paste", Price: decimal.NewFromFloat(8.00),
			CostPrice: decimal.NewFromFloat(6.20), StockQuantity: 20, Active: true, UpdatedAt: time.Now()},
		{ID: "p-dead", TenantID: tenantID, Name: "Discontinued", Price: decimal.NewFromFloat(1.00),
			StockQuantity: 5, Active: false, UpdatedAt: time.Now()},
	}))
	return f
}

func cashSale(items ...dto.SaleItemRequest) dto.RecordSaleRequest {
	return dto.RecordSaleRequest{
		CashierID:     "cashier-1",
		Items:         items,
		PaymentMethod: model.PayCash,
	}
}

func TestRecordRequiresTenant(t *testing.T) {
	f := newSaleFixture(t, "")
	_, err := f.svc.Record(context.Background(), cashSale(dto.SaleItemRequest{ProductID: "p-water", Quantity: 1}))
	assert.ErrorIs(t, err, ErrTenantNotSet)
}

func TestRecordResolvesPricesAndTotals(t *testing.T) {
	f := newSaleFixture(t, "t1")
	ctx := context.Background()

	resp, err := f.svc.Record(ctx, cashSale(
		dto.SaleItemRequest{ProductID: "p-water", Quantity: 10},
		dto.SaleItemRequest{ProductID: "p-paste", Quantity: 2, Discount: decimal.NewFromFloat(1.00)},
	))
	require.NoError(t, err)

	// 10 × 0.50 + (2 × 8.00 − 1.00) = 20.00
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(20.00)), "got total %s", resp.Total)
	assert.NotEmpty(t, resp.OfflineID)
	assert.False(t, resp.Synced)
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.NewFromFloat(0.50)), "price from catalog, not client")

	// Durable immediately, flagged for sync.
	stored, err := f.sales.GetByOfflineID(ctx, resp.OfflineID)
	require.NoError(t, err)
	assert.False(t, stored.Synced)
	require.Len(t, stored.Items, 2)

	assert.EqualValues(t, 1, f.trigger.n.Load(), "recording requested a sync")
}

func TestRecordAdjustsLocalStock(t *testing.T) {
	f := newSaleFixture(t, "t1")
	ctx := context.Background()

	_, err := f.svc.Record(ctx, cashSale(dto.SaleItemRequest{ProductID: "p-water", Quantity: 30}))
	require.NoError(t, err)

	p, err := f.catalog.GetProduct(ctx, "p-water")
	require.NoError(t, err)
	assert.Equal(t, 70, p.StockQuantity)
}

func TestRecordRejectsBadItems(t *testing.T) {
	f := newSaleFixture(t, "t1")
	ctx := context.Background()

	_, err := f.svc.Record(ctx, cashSale(dto.SaleItemRequest{ProductID: "p-missing", Quantity: 1}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in local catalog")

	_, err = f.svc.Record(ctx, cashSale(dto.SaleItemRequest{ProductID: "p-dead", Quantity: 1}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inactive")

	_, err = f.svc.Record(ctx, cashSale(
		dto.SaleItemRequest{ProductID: "p-water", Quantity: 1, Discount: decimal.NewFromFloat(2.00)},
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds the line amount")

	assert.Zero(t, f.trigger.n.Load(), "rejected sales never trigger a sync")
}

func TestRecordPaymentRules(t *testing.T) {
	f := newSaleFixture(t, "t1")
	ctx := context.Background()
	item := dto.SaleItemRequest{ProductID: "p-water", Quantity: 1}
	ref := "MM-1"
	phone := "0244000001"
	due := time.Now().Add(14 * 24 * time.Hour)

	cases := []struct {
		name    string
		req     dto.RecordSaleRequest
		wantErr string
	}{
		{
			name: "momo without phone",
			req: dto.RecordSaleRequest{CashierID: "c1", Items: []dto.SaleItemRequest{item},
				PaymentMethod: model.PayMomoMTN, PaymentReference: &ref},
			wantErr: "wallet phone",
		},
		{
			name: "momo without reference",
			req: dto.RecordSaleRequest{CashierID: "c1", Items: []dto.SaleItemRequest{item},
				PaymentMethod: model.PayMomoMTN, PaymentPhone: &phone},
			wantErr: "transaction reference",
		},
		{
			name: "card without reference",
			req: dto.RecordSaleRequest{CashierID: "c1", Items: []dto.SaleItemRequest{item},
				PaymentMethod: model.PayCard},
			wantErr: "transaction reference",
		},
		{
			name: "credit without due date",
			req: dto.RecordSaleRequest{CashierID: "c1", Items: []dto.SaleItemRequest{item},
				PaymentMethod: model.PayCredit},
			wantErr: "due date",
		},
		{
			name: "unknown method",
			req: dto.RecordSaleRequest{CashierID: "c1", Items: []dto.SaleItemRequest{item},
				PaymentMethod: "barter"},
			wantErr: "unknown payment method",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Record(ctx, tc.req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	// Complete momo and credit sales go through.
	_, err := f.svc.Record(ctx, dto.RecordSaleRequest{CashierID: "c1", Items: []dto.SaleItemRequest{item},
		PaymentMethod: model.PayMomoMTN, PaymentReference: &ref, PaymentPhone: &phone})
	assert.NoError(t, err)
	_, err = f.svc.Record(ctx, dto.RecordSaleRequest{CashierID: "c1", Items: []dto.SaleItemRequest{item},
		PaymentMethod: model.PayCredit, DebtDueDate: &due})
	assert.NoError(t, err)
}

func TestListByDate(t *testing.T) {
	f := newSaleFixture(t, "t1")
	ctx := context.Background()

	_, err := f.svc.Record(ctx, cashSale(dto.SaleItemRequest{ProductID: "p-water", Quantity: 1}))
	require.NoError(t, err)

	today, err := f.svc.ListByDate(ctx, time.Now())
	require.NoError(t, err)
	assert.Len(t, today, 1)

	yesterday, err := f.svc.ListByDate(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, yesterday)
}

func TestReceiptWritesPDF(t *testing.T) {
	f := newSaleFixture(t, "t1")
	ctx := context.Background()

	resp, err := f.svc.Record(ctx, cashSale(dto.SaleItemRequest{ProductID: "p-paste", Quantity: 1}))
	require.NoError(t, err)

	path, err := f.svc.Receipt(ctx, resp.OfflineID)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	_, err = f.svc.Receipt(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
