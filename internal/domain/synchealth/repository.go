package synchealth

import (
	"context"
	"time"

	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
)

type Repository interface {
	// SeedAll makes sure one pending row exists per resource type. Existing
	// rows are left untouched.
	SeedAll(ctx context.Context, types []resource.Type) error
	List(ctx context.Context) ([]*Health, error)
	Get(ctx context.Context, t resource.Type) (*Health, error)
	MarkSyncing(ctx context.Context, t resource.Type, at time.Time) error
	// MarkSuccess records a completed run: last_sync_at and last_success_at
	// move forward, records_count is replaced, last_error is cleared.
	MarkSuccess(ctx context.Context, t resource.Type, at time.Time, recordsCount int) error
	// MarkError records a failed run: only last_sync_at and last_error move;
	// last_success_at and records_count keep the values of the prior
	// successful run.
	MarkError(ctx context.Context, t resource.Type, at time.Time, message string) error
}
