package usage

import (
	"time"

	"github.com/google/uuid"
)

// Record is one served request. Rows are append-only; the ledger doubles as
// the rate-limit window and the usage report.
type Record struct {
	ID             uuid.UUID `db:"id"`
	APIKeyID       uuid.UUID `db:"api_key_id"`
	Resource       string    `db:"resource"`
	Method         string    `db:"method"`
	StatusCode     int       `db:"status_code"`
	ResponseTimeMs int64     `db:"response_time_ms"`
	CreatedAt      time.Time `db:"created_at"`
}
