package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
	"github.com/ovalstats/cricket-data-api/internal/domain/synchealth"
	"github.com/ovalstats/cricket-data-api/internal/metrics"
	"go.uber.org/zap"
)

// UpstreamFetcher is the sync engine's view of the data provider.
type UpstreamFetcher interface {
	FetchCollection(ctx context.Context, t resource.Type) ([]json.RawMessage, error)
}

type SyncService struct {
	fetcher   UpstreamFetcher
	resources resource.Repository
	versions  resource.VersionRepository
	health    synchealth.Repository
	logger    *zap.Logger
}

func NewSyncService(fetcher UpstreamFetcher, resources resource.Repository, versions resource.VersionRepository, health synchealth.Repository, logger *zap.Logger) *SyncService {
	return &SyncService{
		fetcher:   fetcher,
		resources: resources,
		versions:  versions,
		health:    health,
		logger:    logger.Named("SyncService"),
	}
}

// Result is one resource type's outcome within a sync run.
type Result struct {
	Resource string `json:"resource"`
	Status   string `json:"status"`
	Count    int    `json:"count,omitempty"`
	Error    string `json:"error,omitempty"`
}

// SyncAll syncs every syncable resource type sequentially in fixed order.
// One type's failure never aborts the run; every type gets exactly one
// result.
func (s *SyncService) SyncAll(ctx context.Context) []Result {
	types := resource.Syncable()
	results := make([]Result, 0, len(types))
	for _, t := range types {
		results = append(results, s.SyncResource(ctx, t))
	}
	return results
}

// SyncResource runs one resource type through the health state machine:
// syncing unconditionally on entry, then success or error depending on the
// fetch and merge outcome. A failed run leaves last_success_at and
// records_count from the prior successful run untouched.
func (s *SyncService) SyncResource(ctx context.Context, t resource.Type) Result {
	now := time.Now().UTC()
	if err := s.health.MarkSyncing(ctx, t, now); err != nil {
		s.logger.Error("Failed to mark resource syncing", zap.String("resource", string(t)), zap.Error(err))
	}

	payloads, err := s.fetcher.FetchCollection(ctx, t)
	if err != nil {
		return s.failResource(ctx, t, err)
	}

	for _, payload := range payloads {
		if err := s.mergeRecord(ctx, t, payload); err != nil {
			// A single bad record aborts this type's merge; the other types
			// in the run are unaffected.
			return s.failResource(ctx, t, err)
		}
	}

	if err := s.health.MarkSuccess(ctx, t, time.Now().UTC(), len(payloads)); err != nil {
		s.logger.Error("Failed to mark resource success", zap.String("resource", string(t)), zap.Error(err))
	}
	metrics.SyncRunsTotal.WithLabelValues(string(t), string(synchealth.StatusSuccess)).Inc()

	s.logger.Info("Resource synced",
		zap.String("resource", string(t)),
		zap.Int("records", len(payloads)),
	)
	return Result{
		Resource: string(t),
		Status:   string(synchealth.StatusSuccess),
		Count:    len(payloads),
	}
}

// mergeRecord inserts or overwrites one local record. Version always moves by
// exactly 1 on overwrite, even for identical content, and every overwrite
// appends one snapshot; a first insert appends none.
func (s *SyncService) mergeRecord(ctx context.Context, t resource.Type, payload json.RawMessage) error {
	recordID, err := resource.RecordID(payload)
	if err != nil {
		return err
	}

	fields, err := t.Project(payload)
	if err != nil {
		return err
	}

	version, err := s.resources.Merge(ctx, t, recordID, fields, payload)
	if err != nil {
		return err
	}
	metrics.SyncRecordsMerged.WithLabelValues(string(t)).Inc()

	if version > 1 {
		snap := &resource.Snapshot{
			ResourceType: t,
			RecordID:     recordID,
			Version:      version,
			Payload:      payload,
		}
		if err := s.versions.Append(ctx, snap); err != nil {
			return err
		}
	}

	return nil
}

func (s *SyncService) failResource(ctx context.Context, t resource.Type, cause error) Result {
	s.logger.Warn("Resource sync failed", zap.String("resource", string(t)), zap.Error(cause))

	if err := s.health.MarkError(ctx, t, time.Now().UTC(), cause.Error()); err != nil {
		s.logger.Error("Failed to mark resource error", zap.String("resource", string(t)), zap.Error(err))
	}
	metrics.SyncRunsTotal.WithLabelValues(string(t), string(synchealth.StatusError)).Inc()

	return Result{
		Resource: string(t),
		Status:   string(synchealth.StatusError),
		Error:    cause.Error(),
	}
}
