package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ovalstats/cricket-data-api/internal/domain/usage"
)

type UsageRecordResponse struct {
	ID             uuid.UUID `json:"id"`
	APIKeyID       uuid.UUID `json:"api_key_id"`
	Resource       string    `json:"resource"`
	Method         string    `json:"method"`
	StatusCode     int       `json:"status_code"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewUsageRecordResponse(rec *usage.Record) *UsageRecordResponse {
	return &UsageRecordResponse{
		ID:             rec.ID,
		APIKeyID:       rec.APIKeyID,
		Resource:       rec.Resource,
		Method:         rec.Method,
		StatusCode:     rec.StatusCode,
		ResponseTimeMs: rec.ResponseTimeMs,
		CreatedAt:      rec.CreatedAt,
	}
}
