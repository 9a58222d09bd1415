package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ovalstats/cricket-data-api/internal/handler/dto"
	"github.com/ovalstats/cricket-data-api/internal/ierr"
	"github.com/ovalstats/cricket-data-api/internal/service"
	"go.uber.org/zap"
)

type APIKeyHandler struct {
	service *service.APIKeyService
	logger  *zap.Logger
}

func NewAPIKeyHandler(service *service.APIKeyService, logger *zap.Logger) *APIKeyHandler {
	return &APIKeyHandler{
		service: service,
		logger:  logger.Named("APIKeyHandler"),
	}
}

func (h *APIKeyHandler) Create(c *gin.Context) {
	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Failed to bind create api key request", zap.Error(err))
		_ = c.Error(fmt.Errorf("%w: %v", ierr.ErrValidation, err))
		return
	}

	respDTO, err := h.service.CreateAPIKey(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Service failed to create api key", zap.Error(err))
		_ = c.Error(err)
		return
	}

	h.logger.Info("API Key created via handler", zap.String("id", respDTO.ID.String()))
	c.JSON(http.StatusCreated, respDTO)
}

func (h *APIKeyHandler) List(c *gin.Context) {
	keys, err := h.service.ListAPIKeys(c.Request.Context())
	if err != nil {
		h.logger.Error("Service failed to list api keys", zap.Error(err))
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, keys)
}

func (h *APIKeyHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateAPIKeyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Failed to bind api key status request", zap.Error(err))
		_ = c.Error(fmt.Errorf("%w: %v", ierr.ErrValidation, err))
		return
	}

	if err := h.service.SetAPIKeyActive(c.Request.Context(), id, *req.IsActive); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "API key status updated"})
}

func (h *APIKeyHandler) Revoke(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.RevokeAPIKey(c.Request.Context(), id); err != nil {
		h.logger.Error("Service failed to revoke api key", zap.String("id", id.String()), zap.Error(err))
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *APIKeyHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("Invalid UUID format for api key id", zap.String("id_param", idStr), zap.Error(err))
		_ = c.Error(fmt.Errorf("%w: invalid api key id format", ierr.ErrValidation))
		return uuid.Nil, false
	}
	return id, true
}
