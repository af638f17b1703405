package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/model"
)

// SaleStore persists sale records. Sync bookkeeping fields (Synced, SyncedAt,
// SyncError) are mutated only through MarkSynced and RecordSyncError.
type SaleStore interface {
	Put(ctx context.Context, s *model.Sale) error
	GetByOfflineID(ctx context.Context, offlineID string) (*model.Sale, error)
	GetUnsynced(ctx context.Context, tenantID string) ([]model.Sale, error)
	MarkSynced(ctx context.Context, offlineID, serverID string) error
	RecordSyncError(ctx context.Context, offlineID, msg string) error
	GetByDate(ctx context.Context, tenantID string, day time.Time) ([]model.Sale, error)
	CountUnsynced(ctx context.Context, tenantID string) (int64, error)
}

type saleStore struct{ db *gorm.DB }

func NewSaleStore(db *gorm.DB) SaleStore { return &saleStore{db: db} }

func (r *saleStore) Put(ctx context.Context, s *model.Sale) error {
	return wrap("put sale", r.db.WithContext(ctx).Create(s).Error)
}

func (r *saleStore) GetByOfflineID(ctx context.Context, offlineID string) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").First(&s, "offline_id = ?", offlineID).Error
	if err != nil {
		return nil, wrap("get sale", err)
	}
	return &s, nil
}

func (r *saleStore) GetUnsynced(ctx context.Context, tenantID string) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND synced = ?", tenantID, false).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, wrap("get unsynced sales", err)
}

// MarkSynced promotes a sale to synced with the server-assigned id and clears
// any stale delivery error. Already-synced sales are left untouched — there
// is no transition back to unsynced.
func (r *saleStore) MarkSynced(ctx context.Context, offlineID, serverID string) error {
	now := time.Now()
	return wrap("mark sale synced", r.db.WithContext(ctx).
		Model(&model.Sale{}).
		Where("offline_id = ? AND synced = ?", offlineID, false).
		Updates(map[string]interface{}{
			"server_id":  serverID,
			"synced":     true,
			"synced_at":  now,
			"sync_error": nil,
		}).Error)
}

func (r *saleStore) RecordSyncError(ctx context.Context, offlineID, msg string) error {
	return wrap("record sale sync error", r.db.WithContext(ctx).
		Model(&model.Sale{}).
		Where("offline_id = ? AND synced = ?", offlineID, false).
		Update("sync_error", msg).Error)
}

// GetByDate returns the tenant's sales recorded on the given local day.
// This is a range scan, acceptable for the reporting path it serves.
func (r *saleStore) GetByDate(ctx context.Context, tenantID string, day time.Time) ([]model.Sale, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, start, end).
		Order("created_at DESC").
		Find(&sales).Error
	return sales, wrap("get sales by date", err)
}

func (r *saleStore) CountUnsynced(ctx context.Context, tenantID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Sale{}).
		Where("tenant_id = ? AND synced = ?", tenantID, false).
		Count(&n).Error
	return n, wrap("count unsynced sales", err)
}
