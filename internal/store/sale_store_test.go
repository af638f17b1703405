package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/model"
)

func makeSale(tenantID string, createdAt time.Time) *model.Sale {
	return &model.Sale{
		OfflineID:     uuid.NewString(),
		TenantID:      tenantID,
		StoreID:       "store-1",
		CashierID:     "cashier-1",
		PaymentMethod: model.PayCash,
		Status:        model.SaleCompleted,
		Total:         decimal.NewFromFloat(12.50),
		CostTotal:     decimal.NewFromFloat(9.00),
		CreatedAt:     createdAt,
		Items: []model.SaleItem{
			{Position: 0, ProductID: "p-1", ProductName: "Sachet Water", Quantity: 5,
				UnitPrice: decimal.NewFromFloat(0.50), LineTotal: decimal.NewFromFloat(2.50)},
			{Position: 1, ProductID: "p-2", ProductName: "Tomato Paste", Quantity: 1,
				UnitPrice: decimal.NewFromFloat(10.00), LineTotal: decimal.NewFromFloat(10.00)},
		},
	}
}

func TestSaleStorePutAndGet(t *testing.T) {
	sales := NewSaleStore(openTestDB(t))
	ctx := context.Background()

	s := makeSale("t1", time.Now())
	require.NoError(t, sales.Put(ctx, s))

	got, err := sales.GetByOfflineID(ctx, s.OfflineID)
	require.NoError(t, err)
	assert.Equal(t, s.OfflineID, got.OfflineID)
	assert.False(t, got.Synced)
	assert.Nil(t, got.ServerID)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Sachet Water", got.Items[0].ProductName)
	assert.True(t, got.Total.Equal(decimal.NewFromFloat(12.50)))

	_, err = sales.GetByOfflineID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaleStoreGetUnsyncedOrdersByCreation(t *testing.T) {
	sales := NewSaleStore(openTestDB(t))
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	third := makeSale("t1", base.Add(2*time.Minute))
	first := makeSale("t1", base)
	second := makeSale("t1", base.Add(time.Minute))
	otherTenant := makeSale("t2", base)
	for _, s := range []*model.Sale{third, first, second, otherTenant} {
		require.NoError(t, sales.Put(ctx, s))
	}

	unsynced, err := sales.GetUnsynced(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, unsynced, 3)
	assert.Equal(t, first.OfflineID, unsynced[0].OfflineID)
	assert.Equal(t, second.OfflineID, unsynced[1].OfflineID)
	assert.Equal(t, third.OfflineID, unsynced[2].OfflineID)
	require.Len(t, unsynced[0].Items, 2, "items preloaded for the push phase")
}

func TestSaleStoreMarkSynced(t *testing.T) {
	sales := NewSaleStore(openTestDB(t))
	ctx := context.Background()

	s := makeSale("t1", time.Now())
	require.NoError(t, sales.Put(ctx, s))
	require.NoError(t, sales.RecordSyncError(ctx, s.OfflineID, "server unreachable"))

	require.NoError(t, sales.MarkSynced(ctx, s.OfflineID, "srv-42"))

	got, err := sales.GetByOfflineID(ctx, s.OfflineID)
	require.NoError(t, err)
	assert.True(t, got.Synced)
	require.NotNil(t, got.ServerID)
	assert.Equal(t, "srv-42", *got.ServerID)
	assert.NotNil(t, got.SyncedAt)
	assert.Nil(t, got.SyncError, "stale delivery error cleared on promotion")

	unsynced, err := sales.GetUnsynced(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, unsynced, "synced sales are excluded from future pushes")
}

func TestSaleStoreMarkSyncedIsOneWay(t *testing.T) {
	sales := NewSaleStore(openTestDB(t))
	ctx := context.Background()

	s := makeSale("t1", time.Now())
	require.NoError(t, sales.Put(ctx, s))
	require.NoError(t, sales.MarkSynced(ctx, s.OfflineID, "srv-1"))

	// A duplicate acknowledgement must not overwrite the recorded server id.
	require.NoError(t, sales.MarkSynced(ctx, s.OfflineID, "srv-other"))

	got, err := sales.GetByOfflineID(ctx, s.OfflineID)
	require.NoError(t, err)
	assert.Equal(t, "srv-1", *got.ServerID)

	// And a late error report on a synced sale is a no-op too.
	require.NoError(t, sales.RecordSyncError(ctx, s.OfflineID, "late failure"))
	got, err = sales.GetByOfflineID(ctx, s.OfflineID)
	require.NoError(t, err)
	assert.Nil(t, got.SyncError)
}

func TestSaleStoreGetByDate(t *testing.T) {
	sales := NewSaleStore(openTestDB(t))
	ctx := context.Background()

	today := time.Date(2026, 8, 30, 14, 30, 0, 0, time.Local)
	yesterday := today.Add(-24 * time.Hour)
	inRange := makeSale("t1", today)
	outOfRange := makeSale("t1", yesterday)
	require.NoError(t, sales.Put(ctx, inRange))
	require.NoError(t, sales.Put(ctx, outOfRange))

	got, err := sales.GetByDate(ctx, "t1", today)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inRange.OfflineID, got[0].OfflineID)
}

func TestSaleStoreCountUnsynced(t *testing.T) {
	sales := NewSaleStore(openTestDB(t))
	ctx := context.Background()

	a := makeSale("t1", time.Now())
	b := makeSale("t1", time.Now())
	require.NoError(t, sales.Put(ctx, a))
	require.NoError(t, sales.Put(ctx, b))

	n, err := sales.CountUnsynced(ctx, "t1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, sales.MarkSynced(ctx, a.OfflineID, "srv-1"))
	n, err = sales.CountUnsynced(ctx, "t1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
