package apikey

import (
	"time"

	"github.com/google/uuid"
)

// APIKey holds everything that survives key creation: the sha256 digest of
// the full key and a short prefix for display. The plaintext is shown exactly
// once at creation time and never persisted.
type APIKey struct {
	ID                 uuid.UUID  `db:"id"`
	UserID             uuid.UUID  `db:"user_id"`
	KeyHash            string     `db:"key_hash"`
	KeyPrefix          string     `db:"key_prefix"`
	Name               string     `db:"name"`
	IsActive           bool       `db:"is_active"`
	RateLimitPerMinute int        `db:"rate_limit_per_minute"`
	ExpiresAt          *time.Time `db:"expires_at"`
	LastUsedAt         *time.Time `db:"last_used_at"`
	CreatedAt          time.Time  `db:"created_at"`
}

const (
	APIKeyPrefixLength = 8
	APIKeySecretLength = 32
	APIKeyFormat       = "ck_%s_%s"

	DefaultRateLimitPerMinute = 60
)
