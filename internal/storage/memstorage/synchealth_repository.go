package memstorage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
	"github.com/ovalstats/cricket-data-api/internal/domain/synchealth"
)

// SyncHealthRepository is the in-memory sync health registry used in tests.
type SyncHealthRepository struct {
	mu   sync.RWMutex
	rows map[resource.Type]*synchealth.Health
}

func NewSyncHealthRepository() *SyncHealthRepository {
	return &SyncHealthRepository{
		rows: make(map[resource.Type]*synchealth.Health),
	}
}

var _ synchealth.Repository = (*SyncHealthRepository)(nil)

func (r *SyncHealthRepository) SeedAll(ctx context.Context, types []resource.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range types {
		if _, ok := r.rows[t]; !ok {
			r.rows[t] = &synchealth.Health{
				ResourceType: t,
				Status:       synchealth.StatusPending,
				UpdatedAt:    time.Now().UTC(),
			}
		}
	}
	return nil
}

func (r *SyncHealthRepository) List(ctx context.Context) ([]*synchealth.Health, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	healths := make([]*synchealth.Health, 0, len(r.rows))
	for _, h := range r.rows {
		hCopy := *h
		healths = append(healths, &hCopy)
	}
	sort.Slice(healths, func(i, j int) bool {
		return healths[i].ResourceType < healths[j].ResourceType
	})
	return healths, nil
}

func (r *SyncHealthRepository) Get(ctx context.Context, t resource.Type) (*synchealth.Health, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.rows[t]
	if !ok {
		return nil, fmt.Errorf("no sync status row for %s", t)
	}
	hCopy := *h
	return &hCopy, nil
}

func (r *SyncHealthRepository) MarkSyncing(ctx context.Context, t resource.Type, at time.Time) error {
	return r.update(t, func(h *synchealth.Health) {
		h.Status = synchealth.StatusSyncing
		h.UpdatedAt = at
	})
}

func (r *SyncHealthRepository) MarkSuccess(ctx context.Context, t resource.Type, at time.Time, recordsCount int) error {
	return r.update(t, func(h *synchealth.Health) {
		h.Status = synchealth.StatusSuccess
		syncAt := at
		h.LastSyncAt = &syncAt
		successAt := at
		h.LastSuccessAt = &successAt
		h.RecordsCount = recordsCount
		h.LastError = nil
		h.UpdatedAt = at
	})
}

func (r *SyncHealthRepository) MarkError(ctx context.Context, t resource.Type, at time.Time, message string) error {
	return r.update(t, func(h *synchealth.Health) {
		h.Status = synchealth.StatusError
		syncAt := at
		h.LastSyncAt = &syncAt
		msg := message
		h.LastError = &msg
		h.UpdatedAt = at
	})
}

func (r *SyncHealthRepository) update(t resource.Type, fn func(*synchealth.Health)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.rows[t]
	if !ok {
		return fmt.Errorf("no sync status row for %s", t)
	}
	fn(h)
	return nil
}
