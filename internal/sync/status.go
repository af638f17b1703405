package sync

import "time"

// Status is the ephemeral, recomputed view of sync health. It is the only
// signal the UI gets: there is no blocking failure mode — sales can always
// be recorded locally regardless of what these fields say.
type Status struct {
	IsOnline     bool       `json:"is_online"`
	IsSyncing    bool       `json:"is_syncing"`
	LastSyncAt   *time.Time `json:"last_sync_at"`
	PendingSales int64      `json:"pending_sales"`
	PendingItems int64      `json:"pending_items"`
	FailedItems  int64      `json:"failed_items"`
	SyncErrors   []string   `json:"sync_errors"`
}
