package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a locally cached mirror of a server-owned catalog row, keyed by
// the server-assigned id. The pull phase overwrites these wholesale; the only
// local mutation is the stock-quantity adjustment applied when a sale is
// recorded, to keep on-device stock figures honest between pulls.
type Product struct {
	ID       string  `gorm:"primaryKey"`
	TenantID string  `gorm:"index;not null"`
	Name     string  `gorm:"not null"`
	Barcode  *string `gorm:"index"`
	Category string

	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostPrice decimal.Decimal `gorm:"type:decimal(12,2)"`

	StockQuantity int    `gorm:"not null;default:0"`
	Unit          string `gorm:"not null;default:'unit'"`
	Active        bool   `gorm:"not null;default:true"`

	// Server-side watermark, carried as-is from the pull.
	UpdatedAt time.Time
}

// Customer mirrors a server-owned customer record; read-only on the device.
type Customer struct {
	ID       string  `gorm:"primaryKey"`
	TenantID string  `gorm:"index;not null"`
	Name     string  `gorm:"not null"`
	Phone    *string `gorm:"index"`
	Email    *string

	// Balance is the outstanding credit balance as of the last pull.
	Balance decimal.Decimal `gorm:"type:decimal(12,2)"`

	UpdatedAt time.Time
}
