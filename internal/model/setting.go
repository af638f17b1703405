package model

import "time"

// Well-known setting keys.
const (
	SettingTenantID   = "tenant_id"
	SettingLastSyncAt = "last_sync_at"
)

// Setting is a scalar key/value configuration row. The active tenant id is
// written here by the authentication collaborator before any sync can act.
type Setting struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}
