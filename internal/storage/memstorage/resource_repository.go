package memstorage

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
)

type recordKey struct {
	resourceType resource.Type
	recordID     int64
}

// ResourceRepository is the in-memory resource store used in tests. Merge
// mirrors the production upsert semantics, including the failure injection
// hook used by the sync partial-failure tests.
type ResourceRepository struct {
	mu      sync.RWMutex
	records map[recordKey]*resource.Record

	// FailFor makes Merge fail for the given resource type.
	FailFor map[resource.Type]error
}

func NewResourceRepository() *ResourceRepository {
	return &ResourceRepository{
		records: make(map[recordKey]*resource.Record),
		FailFor: make(map[resource.Type]error),
	}
}

var _ resource.Repository = (*ResourceRepository)(nil)

func (r *ResourceRepository) ListByType(ctx context.Context, t resource.Type) ([]*resource.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*resource.Record, 0)
	for key, rec := range r.records {
		if key.resourceType == t {
			recCopy := *rec
			records = append(records, &recCopy)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].RecordID < records[j].RecordID
	})
	return records, nil
}

func (r *ResourceRepository) Merge(ctx context.Context, t resource.Type, recordID int64, fields, payload json.RawMessage) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.FailFor[t]; ok && err != nil {
		return 0, err
	}

	key := recordKey{resourceType: t, recordID: recordID}
	version := 1
	if existing, ok := r.records[key]; ok {
		version = existing.Version + 1
	}
	r.records[key] = &resource.Record{
		ResourceType: t,
		RecordID:     recordID,
		Fields:       append(json.RawMessage(nil), fields...),
		Payload:      append(json.RawMessage(nil), payload...),
		Version:      version,
		UpdatedAt:    time.Now().UTC(),
	}
	return version, nil
}

// Get returns the stored record or nil.
func (r *ResourceRepository) Get(t resource.Type, recordID int64) *resource.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[recordKey{resourceType: t, recordID: recordID}]
	if !ok {
		return nil
	}
	recCopy := *rec
	return &recCopy
}

// VersionRepository is the in-memory version history used in tests.
type VersionRepository struct {
	mu    sync.RWMutex
	snaps []*resource.Snapshot
}

func NewVersionRepository() *VersionRepository {
	return &VersionRepository{}
}

var _ resource.VersionRepository = (*VersionRepository)(nil)

func (r *VersionRepository) Append(ctx context.Context, snap *resource.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if snap == nil {
		return errors.New("nil snapshot")
	}
	snapCopy := *snap
	snapCopy.CreatedAt = time.Now().UTC()
	r.snaps = append(r.snaps, &snapCopy)
	return nil
}

func (r *VersionRepository) ListByRecord(ctx context.Context, t resource.Type, recordID int64) ([]*resource.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snaps := make([]*resource.Snapshot, 0)
	for _, snap := range r.snaps {
		if snap.ResourceType == t && snap.RecordID == recordID {
			snapCopy := *snap
			snaps = append(snaps, &snapCopy)
		}
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].Version < snaps[j].Version
	})
	return snaps, nil
}
