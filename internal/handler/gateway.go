package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
	"github.com/ovalstats/cricket-data-api/internal/handler/dto"
	"github.com/ovalstats/cricket-data-api/internal/ierr"
	"github.com/ovalstats/cricket-data-api/internal/service"
	"go.uber.org/zap"
)

const (
	apiKeyHeader     = "X-API-Key"
	apiKeyQueryParam = "api_key"
)

type GatewayHandler struct {
	service *service.GatewayService
	logger  *zap.Logger
}

func NewGatewayHandler(service *service.GatewayService, logger *zap.Logger) *GatewayHandler {
	return &GatewayHandler{
		service: service,
		logger:  logger.Named("GatewayHandler"),
	}
}

// Serve handles GET /{resource}. The gateway maps its own error taxonomy
// instead of going through the shared error middleware because several of its
// responses carry extra payload fields.
func (h *GatewayHandler) Serve(c *gin.Context) {
	resourceName := c.Param("resource")

	presentedKey := c.GetHeader(apiKeyHeader)
	if presentedKey == "" {
		presentedKey = c.Query(apiKeyQueryParam)
	}

	result, err := h.service.Serve(c.Request.Context(), resourceName, presentedKey, c.Request.Method)
	if err != nil {
		h.writeError(c, resourceName, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResourceListResponse(result.Records))
}

func (h *GatewayHandler) writeError(c *gin.Context, resourceName string, err error) {
	var rateLimitErr *ierr.RateLimitError

	switch {
	case errors.Is(err, ierr.ErrInvalidResource):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           "Invalid resource",
			"valid_resources": resource.Names(),
		})
	case errors.Is(err, ierr.ErrMissingAPIKey):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "API key required. Provide X-API-Key header or api_key query parameter",
		})
	case errors.Is(err, ierr.ErrInvalidAPIKey):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
	case errors.Is(err, ierr.ErrAPIKeyInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": "API key is inactive"})
	case errors.Is(err, ierr.ErrAPIKeyExpired):
		c.JSON(http.StatusForbidden, gin.H{"error": "API key has expired"})
	case errors.As(err, &rateLimitErr):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "Rate limit exceeded",
			"limit": rateLimitErr.Limit,
		})
	case errors.Is(err, ierr.ErrStorage):
		h.logger.Error("Storage failure serving resource", zap.String("resource", resourceName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	default:
		h.logger.Error("Unexpected failure serving resource", zap.String("resource", resourceName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected error"})
	}
}
