package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ovalstats/cricket-data-api/internal/ierr"
	"github.com/ovalstats/cricket-data-api/internal/service"
	"go.uber.org/zap"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
	claimsContextKey    = "authClaims"
)

func AuthMiddleware(authService *service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("AuthMiddleware")
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authorizationHeader)
		if authHeader == "" {
			log.Debug("Authorization header is missing")
			_ = c.Error(fmt.Errorf("%w: authorization header required", ierr.ErrUnauthorized))
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			log.Debug("Authorization header format is invalid")
			_ = c.Error(fmt.Errorf("%w: invalid authorization header format", ierr.ErrUnauthorized))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
		if tokenString == "" {
			_ = c.Error(fmt.Errorf("%w: token missing", ierr.ErrUnauthorized))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			log.Warn("Token validation failed", zap.Error(err))
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

func GetUserClaims(c *gin.Context) *service.Claims {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}
