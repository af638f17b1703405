package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openTestDB opens a fresh on-disk database in a per-test temp dir. On-disk
// rather than :memory: because durability across connections is part of what
// the store promises.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func TestOpenMigratesSchema(t *testing.T) {
	db := openTestDB(t)
	for _, table := range []string{"sales", "sale_items", "products", "customers", "mutation_entries", "settings"} {
		require.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestOpenReopensExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO settings (key, value, updated_at) VALUES ('k', 'v', CURRENT_TIMESTAMP)`).Error)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	db2, err := Open(path)
	require.NoError(t, err)
	var value string
	require.NoError(t, db2.Raw(`SELECT value FROM settings WHERE key = 'k'`).Scan(&value).Error)
	require.Equal(t, "v", value)
}
