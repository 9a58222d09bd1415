package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ovalstats/cricket-data-api/internal/config"
	"github.com/ovalstats/cricket-data-api/internal/handler/middleware"
	"github.com/ovalstats/cricket-data-api/internal/service"
	"github.com/ovalstats/cricket-data-api/internal/storage/memstorage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type adminTestEnv struct {
	router *gin.Engine
	token  string
}

func newAdminTestEnv(t *testing.T) *adminTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo, err := memstorage.NewUserRepository("admin", "pw")
	require.NoError(t, err)
	authService := service.NewAuthService(userRepo, &config.JWTConfig{
		Secret:   "test-secret",
		Issuer:   "cricket-data-api",
		TokenTTL: time.Hour,
	}, zap.NewNop())

	token, err := authService.Login(context.Background(), "admin", "pw")
	require.NoError(t, err)

	apiKeyService := service.NewAPIKeyService(memstorage.NewAPIKeyRepository(), zap.NewNop())
	h := NewAPIKeyHandler(apiKeyService, zap.NewNop())

	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware(zap.NewNop()))

	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.AuthMiddleware(authService, zap.NewNop()))
	{
		apiV1.POST("/apikeys", h.Create)
		apiV1.GET("/apikeys", h.List)
		apiV1.PATCH("/apikeys/:id/status", h.UpdateStatus)
		apiV1.DELETE("/apikeys/:id", h.Revoke)
	}

	return &adminTestEnv{router: router, token: token}
}

func (env *adminTestEnv) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+env.token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestAPIKeyEndpointsRequireAuth(t *testing.T) {
	env := newAdminTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/apikeys", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIKeyLifecycle(t *testing.T) {
	env := newAdminTestEnv(t)

	// Create.
	w := env.do(t, http.MethodPost, "/api/v1/apikeys", gin.H{
		"user_id": uuid.New().String(),
		"name":    "dashboard key",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID      uuid.UUID `json:"id"`
		FullKey string    `json:"full_key"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.FullKey)

	// List never exposes the plaintext or the digest.
	w = env.do(t, http.MethodGet, "/api/v1/apikeys", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), created.FullKey)
	assert.NotContains(t, w.Body.String(), "key_hash")

	// Deactivate.
	w = env.do(t, http.MethodPatch, "/api/v1/apikeys/"+created.ID.String()+"/status", gin.H{
		"is_active": false,
	}, true)
	assert.Equal(t, http.StatusOK, w.Code)

	// Revoke.
	w = env.do(t, http.MethodDelete, "/api/v1/apikeys/"+created.ID.String(), nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Gone now.
	w = env.do(t, http.MethodDelete, "/api/v1/apikeys/"+created.ID.String(), nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIKeyCreateValidation(t *testing.T) {
	env := newAdminTestEnv(t)

	// Missing required name.
	w := env.do(t, http.MethodPost, "/api/v1/apikeys", gin.H{
		"user_id": uuid.New().String(),
	}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIKeyUpdateStatusBadID(t *testing.T) {
	env := newAdminTestEnv(t)

	w := env.do(t, http.MethodPatch, "/api/v1/apikeys/not-a-uuid/status", gin.H{
		"is_active": true,
	}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
