package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
	"github.com/ovalstats/cricket-data-api/internal/domain/synchealth"
	"github.com/ovalstats/cricket-data-api/internal/handler/dto"
	"github.com/ovalstats/cricket-data-api/internal/service"
	"go.uber.org/zap"
)

type SyncHandler struct {
	service    *service.SyncService
	healthRepo synchealth.Repository
	logger     *zap.Logger
}

func NewSyncHandler(service *service.SyncService, healthRepo synchealth.Repository, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		service:    service,
		healthRepo: healthRepo,
		logger:     logger.Named("SyncHandler"),
	}
}

// Trigger handles POST /sync. Without a resource query parameter every
// syncable type runs in fixed order; with one, only that type runs.
func (h *SyncHandler) Trigger(c *gin.Context) {
	resourceName := c.Query("resource")

	var results []service.Result
	if resourceName != "" {
		t, err := resource.ParseSyncable(resourceName)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":           "Invalid resource",
				"valid_resources": typeNames(resource.Syncable()),
			})
			return
		}
		results = []service.Result{h.service.SyncResource(c.Request.Context(), t)}
	} else {
		results = h.service.SyncAll(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": results,
	})
}

// Status handles GET /api/v1/sync/status for operational tooling.
func (h *SyncHandler) Status(c *gin.Context) {
	healths, err := h.healthRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list sync health", zap.Error(err))
		_ = c.Error(err)
		return
	}

	responses := make([]*dto.SyncHealthResponse, len(healths))
	for i, health := range healths {
		responses[i] = dto.NewSyncHealthResponse(health)
	}
	c.JSON(http.StatusOK, responses)
}

func typeNames(types []resource.Type) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}
