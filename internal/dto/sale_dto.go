package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordSaleRequest is the body of POST /v1/sales. Unit and cost prices are
// resolved from the local catalog snapshot, not trusted from the client.
type RecordSaleRequest struct {
	CashierID  string  `json:"cashier_id"  validate:"required"`
	CustomerID *string `json:"customer_id" validate:"omitempty"`

	Items []SaleItemRequest `json:"items" validate:"required,min=1,dive"`

	PaymentMethod    string  `json:"payment_method" validate:"required,oneof=cash momo_mtn momo_vodafone momo_airteltigo bank card qr credit"`
	PaymentReference *string `json:"payment_reference"`
	PaymentPhone     *string `json:"payment_phone"`

	IsCredit    bool       `json:"is_credit"`
	DebtDueDate *time.Time `json:"debt_due_date"`
}

type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity"   validate:"required,gt=0"`
	Discount  decimal.Decimal `json:"discount"   validate:"omitempty,min=0"`
}

type SaleItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type SaleResponse struct {
	OfflineID     string             `json:"offline_id"`
	ServerID      *string            `json:"server_id,omitempty"`
	CashierID     string             `json:"cashier_id"`
	CustomerID    *string            `json:"customer_id,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	IsCredit      bool               `json:"is_credit"`
	DebtDueDate   *time.Time         `json:"debt_due_date,omitempty"`
	Status        string             `json:"status"`
	Synced        bool               `json:"synced"`
	SyncError     *string            `json:"sync_error,omitempty"`
	CreatedAt     string             `json:"created_at"`
}
