package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/ovalstats/cricket-data-api/internal/domain/apikey"
	"github.com/ovalstats/cricket-data-api/internal/handler/dto"
	"github.com/ovalstats/cricket-data-api/internal/ierr"
	"github.com/ovalstats/cricket-data-api/internal/storage/memstorage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateAPIKey(t *testing.T) {
	repo := memstorage.NewAPIKeyRepository()
	svc := NewAPIKeyService(repo, zap.NewNop())

	resp, err := svc.CreateAPIKey(context.Background(), &dto.CreateAPIKeyRequest{
		UserID: uuid.New(),
		Name:   "dashboard",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.FullKey, "ck_"))
	assert.Equal(t, apikey.DefaultRateLimitPerMinute, resp.RateLimitPerMinute)
	assert.NotEqual(t, uuid.Nil, resp.ID)

	// The stored record carries the digest, never the plaintext.
	stored, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.NotEqual(t, resp.FullKey, stored[0].KeyHash)
	assert.True(t, stored[0].IsActive)
}

func TestCreateAPIKeyCustomRateLimit(t *testing.T) {
	svc := NewAPIKeyService(memstorage.NewAPIKeyRepository(), zap.NewNop())

	resp, err := svc.CreateAPIKey(context.Background(), &dto.CreateAPIKeyRequest{
		UserID:             uuid.New(),
		Name:               "high volume",
		RateLimitPerMinute: 600,
	})
	require.NoError(t, err)
	assert.Equal(t, 600, resp.RateLimitPerMinute)
}

func TestSetAPIKeyActive(t *testing.T) {
	repo := memstorage.NewAPIKeyRepository()
	svc := NewAPIKeyService(repo, zap.NewNop())

	resp, err := svc.CreateAPIKey(context.Background(), &dto.CreateAPIKeyRequest{
		UserID: uuid.New(),
		Name:   "toggled",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetAPIKeyActive(context.Background(), resp.ID, false))

	stored, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.False(t, stored[0].IsActive)

	err = svc.SetAPIKeyActive(context.Background(), uuid.New(), false)
	assert.ErrorIs(t, err, ierr.ErrNotFound)
}

func TestRevokeAPIKey(t *testing.T) {
	repo := memstorage.NewAPIKeyRepository()
	svc := NewAPIKeyService(repo, zap.NewNop())

	resp, err := svc.CreateAPIKey(context.Background(), &dto.CreateAPIKeyRequest{
		UserID: uuid.New(),
		Name:   "doomed",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAPIKey(context.Background(), resp.ID))

	stored, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)

	err = svc.RevokeAPIKey(context.Background(), resp.ID)
	assert.ErrorIs(t, err, ierr.ErrNotFound)
}
