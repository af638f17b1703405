package model

import (
	"encoding/json"
	"time"
)

// Entity types a mutation entry may target.
const (
	EntityProduct     = "product"
	EntityCustomer    = "customer"
	EntityDebtPayment = "debt_payment"
)

// Mutation actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Mutation entry statuses. An entry whose delivery has failed
// MaxMutationAttempts times moves to failed: it is excluded from sync runs
// and surfaced separately until an operator requeues it.
const (
	MutationPending = "pending"
	MutationFailed  = "failed"
)

// MaxMutationAttempts caps delivery retries per queue entry.
const MaxMutationAttempts = 5

// MutationEntry is one pending non-sale write awaiting delivery to the
// server of record. Entries are drained in CreatedAt order and removed only
// on confirmed server acceptance.
type MutationEntry struct {
	ID         string `gorm:"primaryKey"`
	EntityType string `gorm:"type:varchar(20);not null"`
	EntityID   string
	Action     string `gorm:"type:varchar(10);not null"`

	// Payload is opaque to the queue; the server interprets it.
	Payload json.RawMessage `gorm:"type:text;not null"`

	Attempts  int `gorm:"not null;default:0"`
	LastError *string
	Status    string `gorm:"type:varchar(10);not null;default:'pending'"`

	CreatedAt time.Time `gorm:"index"`
}
