package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods accepted at the terminal.
const (
	PayCash         = "cash"
	PayMomoMTN      = "momo_mtn"
	PayMomoVodafone = "momo_vodafone"
	PayMomoAirtel   = "momo_airteltigo"
	PayBank         = "bank"
	PayCard         = "card"
	PayQR           = "qr"
	PayCredit       = "credit"
)

// ValidPaymentMethod reports whether m belongs to the closed payment set.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PayCash, PayMomoMTN, PayMomoVodafone, PayMomoAirtel, PayBank, PayCard, PayQR, PayCredit:
		return true
	}
	return false
}

// Sale statuses.
const (
	SalePending   = "pending"
	SaleCompleted = "completed"
)

// Sale is one completed point-of-sale transaction. OfflineID is assigned at
// the terminal and is the primary key while local; ServerID is set once the
// server of record acknowledges the sale. Totals are fixed at creation and
// never recomputed. A sale is never deleted locally — it is only promoted
// from unsynced to synced, and Synced=true implies ServerID is set.
type Sale struct {
	OfflineID  string  `gorm:"primaryKey"`
	ServerID   *string `gorm:"index"`
	TenantID   string  `gorm:"index:idx_sales_tenant_synced;not null"`
	StoreID    string  `gorm:"not null"`
	CustomerID *string
	CashierID  string `gorm:"not null"`

	Items []SaleItem `gorm:"foreignKey:SaleID;references:OfflineID;constraint:OnDelete:CASCADE"`

	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	PaymentMethod    string `gorm:"type:varchar(20);not null"`
	PaymentReference *string
	PaymentPhone     *string

	IsCredit    bool `gorm:"not null;default:false"`
	DebtDueDate *time.Time

	Status string `gorm:"type:varchar(20);not null;default:'completed'"`

	// Sync bookkeeping — mutated only by the sync manager.
	Synced    bool `gorm:"index:idx_sales_tenant_synced;not null;default:false"`
	SyncedAt  *time.Time
	SyncError *string

	// Terminal clock timestamp; authoritative for local ordering.
	CreatedAt time.Time `gorm:"index"`
}

// SaleItem is one line of a sale. Position preserves the order the cashier
// rang the items in.
type SaleItem struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	SaleID      string `gorm:"index;not null"`
	Position    int    `gorm:"not null"`
	ProductID   string `gorm:"not null"`
	ProductName string `gorm:"not null"`
	Quantity    int    `gorm:"not null"`

	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostPrice decimal.Decimal `gorm:"type:decimal(12,2)"`
	Discount  decimal.Decimal `gorm:"type:decimal(12,2)"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
