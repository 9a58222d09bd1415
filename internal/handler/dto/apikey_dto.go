package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ovalstats/cricket-data-api/internal/domain/apikey"
)

type CreateAPIKeyRequest struct {
	UserID             uuid.UUID  `json:"user_id"`
	Name               string     `json:"name" binding:"required"`
	RateLimitPerMinute int        `json:"rate_limit_per_minute" binding:"omitempty,gt=0"`
	ExpiresAt          *time.Time `json:"expires_at"`
}

// CreateAPIKeyResponse is the only place the plaintext key ever appears.
type CreateAPIKeyResponse struct {
	ID                 uuid.UUID  `json:"id"`
	FullKey            string     `json:"full_key"`
	KeyPrefix          string     `json:"key_prefix"`
	Name               string     `json:"name"`
	RateLimitPerMinute int        `json:"rate_limit_per_minute"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
}

type APIKeyResponse struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"user_id"`
	KeyPrefix          string     `json:"key_prefix"`
	Name               string     `json:"name"`
	IsActive           bool       `json:"is_active"`
	RateLimitPerMinute int        `json:"rate_limit_per_minute"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	LastUsedAt         *time.Time `json:"last_used_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func NewAPIKeyResponse(key *apikey.APIKey) *APIKeyResponse {
	return &APIKeyResponse{
		ID:                 key.ID,
		UserID:             key.UserID,
		KeyPrefix:          key.KeyPrefix,
		Name:               key.Name,
		IsActive:           key.IsActive,
		RateLimitPerMinute: key.RateLimitPerMinute,
		ExpiresAt:          key.ExpiresAt,
		LastUsedAt:         key.LastUsedAt,
		CreatedAt:          key.CreatedAt,
	}
}

type UpdateAPIKeyStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
