package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Append(ctx context.Context, rec *Record) error
	// CountSince counts ledger rows for one key created at or after the given
	// instant. With since = now-60s this is the sliding rate-limit window.
	CountSince(ctx context.Context, apiKeyID uuid.UUID, since time.Time) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]*Record, error)
}
