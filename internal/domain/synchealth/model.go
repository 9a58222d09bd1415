package synchealth

import (
	"time"

	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSyncing Status = "syncing"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Health is the per-resource-type sync state machine row. It is mutated only
// by the sync engine: pending|success|error -> syncing -> success|error.
type Health struct {
	ResourceType  resource.Type `db:"resource_type"`
	Status        Status        `db:"status"`
	LastSyncAt    *time.Time    `db:"last_sync_at"`
	LastSuccessAt *time.Time    `db:"last_success_at"`
	LastError     *string       `db:"last_error"`
	RecordsCount  int           `db:"records_count"`
	UpdatedAt     time.Time     `db:"updated_at"`
}
