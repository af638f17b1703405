// Package store is the terminal's durable local store: a single-file SQLite
// database holding sales, catalog snapshots, the mutation queue, and scalar
// settings. Every write that returns nil is durable across process restart.
package store

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// StorageError wraps any local database failure so callers can tell a
// storage fault (quota, corruption, locked file) apart from domain errors.
// The store never silently drops a write.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// wrap converts a gorm error into the store's error taxonomy.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return &StorageError{Op: op, Err: err}
}

// Open opens (creating if needed) the local database at path and migrates
// the schema. WAL keeps readers from blocking the sync task's writes; the
// busy timeout covers interleaved calls from the UI handlers and the sync
// goroutine.
func Open(path string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	// SQLite allows one writer at a time; funneling gorm through a single
	// connection avoids SQLITE_BUSY under concurrent handler + sync writes.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.Sale{},
		&model.SaleItem{},
		&model.Product{},
		&model.Customer{},
		&model.MutationEntry{},
		&model.Setting{},
	); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return db, nil
}
