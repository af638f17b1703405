package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/model"
)

// SettingsStore holds scalar configuration, notably the active tenant id and
// the last-sync timestamp. ClearAll wipes every local collection in one
// transaction — the full local reset used when a terminal is re-provisioned.
type SettingsStore interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	ClearAll(ctx context.Context) error
}

type settingsStore struct{ db *gorm.DB }

func NewSettingsStore(db *gorm.DB) SettingsStore { return &settingsStore{db: db} }

func (r *settingsStore) Set(ctx context.Context, key, value string) error {
	s := model.Setting{Key: key, Value: value}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&s).Error
	return wrap("set setting", err)
}

// Get returns ErrNotFound when the key has never been set.
func (r *settingsStore) Get(ctx context.Context, key string) (string, error) {
	var s model.Setting
	if err := r.db.WithContext(ctx).First(&s, "key = ?", key).Error; err != nil {
		return "", wrap("get setting", err)
	}
	return s.Value, nil
}

func (r *settingsStore) ClearAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&model.SaleItem{},
			&model.Sale{},
			&model.Product{},
			&model.Customer{},
			&model.MutationEntry{},
			&model.Setting{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return wrap("clear all", err)
}
