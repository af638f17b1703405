package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/model"
)

// QueueStore is the FIFO log of pending non-sale writes. Entries leave the
// queue only on confirmed server acceptance (Remove) — failures increment
// the attempt counter and, at the cap, park the entry as failed until an
// operator requeues it.
type QueueStore interface {
	Enqueue(ctx context.Context, e *model.MutationEntry) error
	List(ctx context.Context) ([]model.MutationEntry, error)
	Get(ctx context.Context, id string) (*model.MutationEntry, error)
	Remove(ctx context.Context, id string) error
	RecordFailure(ctx context.Context, id, msg string) error
	Requeue(ctx context.Context, id string) error
	CountPending(ctx context.Context) (int64, error)
	CountFailed(ctx context.Context) (int64, error)
}

type queueStore struct{ db *gorm.DB }

func NewQueueStore(db *gorm.DB) QueueStore { return &queueStore{db: db} }

func (r *queueStore) Enqueue(ctx context.Context, e *model.MutationEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.Status == "" {
		e.Status = model.MutationPending
	}
	return wrap("enqueue mutation", r.db.WithContext(ctx).Create(e).Error)
}

// List returns every entry in CreatedAt order, including failed ones; the
// caller decides what is eligible for delivery.
func (r *queueStore) List(ctx context.Context) ([]model.MutationEntry, error) {
	var entries []model.MutationEntry
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&entries).Error
	return entries, wrap("list mutation queue", err)
}

func (r *queueStore) Get(ctx context.Context, id string) (*model.MutationEntry, error) {
	var e model.MutationEntry
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, wrap("get mutation", err)
	}
	return &e, nil
}

func (r *queueStore) Remove(ctx context.Context, id string) error {
	return wrap("remove mutation", r.db.WithContext(ctx).Delete(&model.MutationEntry{}, "id = ?", id).Error)
}

// RecordFailure increments the attempt counter and stores the delivery error.
// When the counter reaches the cap the entry flips to failed and stops being
// offered for delivery.
func (r *queueStore) RecordFailure(ctx context.Context, id, msg string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e model.MutationEntry
		if err := tx.First(&e, "id = ?", id).Error; err != nil {
			return err
		}
		e.Attempts++
		e.LastError = &msg
		if e.Attempts >= model.MaxMutationAttempts {
			e.Status = model.MutationFailed
		}
		return tx.Save(&e).Error
	})
	return wrap("record mutation failure", err)
}

// Requeue resets a failed entry so the next run retries it from scratch.
func (r *queueStore) Requeue(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&model.MutationEntry{}).
		Where("id = ? AND status = ?", id, model.MutationFailed).
		Updates(map[string]interface{}{
			"attempts":   0,
			"last_error": nil,
			"status":     model.MutationPending,
		})
	if res.Error != nil {
		return wrap("requeue mutation", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *queueStore) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.MutationEntry{}).
		Where("status = ?", model.MutationPending).
		Count(&n).Error
	return n, wrap("count pending mutations", err)
}

func (r *queueStore) CountFailed(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.MutationEntry{}).
		Where("status = ?", model.MutationFailed).
		Count(&n).Error
	return n, wrap("count failed mutations", err)
}
