package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ovalstats/cricket-data-api/internal/domain/usage"
	"github.com/ovalstats/cricket-data-api/internal/handler/dto"
	"go.uber.org/zap"
)

const defaultUsageLimit = 100

type UsageHandler struct {
	repo   usage.Repository
	logger *zap.Logger
}

func NewUsageHandler(repo usage.Repository, logger *zap.Logger) *UsageHandler {
	return &UsageHandler{
		repo:   repo,
		logger: logger.Named("UsageHandler"),
	}
}

// List handles GET /api/v1/usage for the admin usage report.
func (h *UsageHandler) List(c *gin.Context) {
	limit := defaultUsageLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	records, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list usage records", zap.Error(err))
		_ = c.Error(err)
		return
	}

	responses := make([]*dto.UsageRecordResponse, len(records))
	for i, rec := range records {
		responses[i] = dto.NewUsageRecordResponse(rec)
	}
	c.JSON(http.StatusOK, responses)
}
