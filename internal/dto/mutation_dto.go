package dto

import "encoding/json"

// SubmitMutationRequest enqueues one pending non-sale write for delivery to
// the server of record. Payload is opaque to the queue.
type SubmitMutationRequest struct {
	EntityType string          `json:"entity_type" validate:"required,oneof=product customer debt_payment"`
	EntityID   string          `json:"entity_id"`
	Action     string          `json:"action"      validate:"required,oneof=create update delete"`
	Payload    json.RawMessage `json:"payload"     validate:"required"`
}

type MutationEntryResponse struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id,omitempty"`
	Action     string          `json:"action"`
	Payload    json.RawMessage `json:"payload"`
	Attempts   int             `json:"attempts"`
	LastError  *string         `json:"last_error,omitempty"`
	Status     string          `json:"status"`
	CreatedAt  string          `json:"created_at"`
}

// SetTenantRequest binds the terminal to a tenant; written by the
// authentication collaborator after login.
type SetTenantRequest struct {
	TenantID string `json:"tenant_id" validate:"required"`
}
