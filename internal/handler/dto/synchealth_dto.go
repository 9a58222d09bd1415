package dto

import (
	"time"

	"github.com/ovalstats/cricket-data-api/internal/domain/synchealth"
)

type SyncHealthResponse struct {
	Resource      string     `json:"resource"`
	Status        string     `json:"status"`
	LastSyncAt    *time.Time `json:"last_sync_at,omitempty"`
	LastSuccessAt *time.Time `json:"last_success_at,omitempty"`
	LastError     *string    `json:"last_error,omitempty"`
	RecordsCount  int        `json:"records_count"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func NewSyncHealthResponse(h *synchealth.Health) *SyncHealthResponse {
	return &SyncHealthResponse{
		Resource:      string(h.ResourceType),
		Status:        string(h.Status),
		LastSyncAt:    h.LastSyncAt,
		LastSuccessAt: h.LastSuccessAt,
		LastError:     h.LastError,
		RecordsCount:  h.RecordsCount,
		UpdatedAt:     h.UpdatedAt,
	}
}
