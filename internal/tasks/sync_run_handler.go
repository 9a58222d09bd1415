package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/ovalstats/cricket-data-api/internal/service"
	"go.uber.org/zap"
)

type SyncRunHandler struct {
	syncService *service.SyncService
	logger      *zap.Logger
}

func NewSyncRunHandler(syncService *service.SyncService, logger *zap.Logger) *SyncRunHandler {
	return &SyncRunHandler{
		syncService: syncService,
		logger:      logger.Named("SyncRunHandler"),
	}
}

func (h *SyncRunHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	if t.Type() != TypeSyncRun {
		return fmt.Errorf("unexpected task type: %s", t.Type())
	}

	var p SyncRunPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		h.logger.Error("Failed to unmarshal sync run payload", zap.Error(err), zap.ByteString("payload", t.Payload()))
		return fmt.Errorf("invalid payload: %v", err)
	}

	h.logger.Info("Processing scheduled sync run...")

	results := h.syncService.SyncAll(ctx)

	succeeded := 0
	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
			h.logger.Warn("Scheduled sync: resource failed",
				zap.String("resource", res.Resource),
				zap.String("error", res.Error),
			)
		} else {
			succeeded++
		}
	}

	h.logger.Info("Scheduled sync run finished",
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
	)

	// Per-resource failures are already recorded in the health registry; the
	// task itself only fails on infrastructure errors, so asynq does not
	// retry what the next scheduled run will redo anyway.
	return nil
}
