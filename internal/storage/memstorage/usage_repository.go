package memstorage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ovalstats/cricket-data-api/internal/domain/usage"
)

// UsageRepository is the in-memory usage ledger used in tests. Records can be
// backdated through AppendAt to exercise the sliding window.
type UsageRepository struct {
	mu      sync.RWMutex
	records []*usage.Record
}

func NewUsageRepository() *UsageRepository {
	return &UsageRepository{}
}

var _ usage.Repository = (*UsageRepository)(nil)

func (r *UsageRepository) Append(ctx context.Context, rec *usage.Record) error {
	return r.AppendAt(ctx, rec, time.Now().UTC())
}

func (r *UsageRepository) AppendAt(ctx context.Context, rec *usage.Record, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recCopy := *rec
	if recCopy.ID == uuid.Nil {
		recCopy.ID = uuid.New()
	}
	recCopy.CreatedAt = at
	r.records = append(r.records, &recCopy)
	return nil
}

func (r *UsageRepository) CountSince(ctx context.Context, apiKeyID uuid.UUID, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, rec := range r.records {
		if rec.APIKeyID == apiKeyID && !rec.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *UsageRepository) ListRecent(ctx context.Context, limit int) ([]*usage.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*usage.Record, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(records) < limit; i-- {
		recCopy := *r.records[i]
		records = append(records, &recCopy)
	}
	return records, nil
}

// All returns every ledger row in append order.
func (r *UsageRepository) All() []*usage.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*usage.Record, len(r.records))
	for i, rec := range r.records {
		recCopy := *rec
		records[i] = &recCopy
	}
	return records
}
