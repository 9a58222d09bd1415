package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ovalstats/cricket-data-api/internal/domain/apikey"
	"github.com/ovalstats/cricket-data-api/internal/handler/dto"
	"github.com/ovalstats/cricket-data-api/internal/ierr"
	"github.com/ovalstats/cricket-data-api/internal/util"
	"go.uber.org/zap"
)

type APIKeyService struct {
	repo   apikey.Repository
	logger *zap.Logger
}

func NewAPIKeyService(repo apikey.Repository, logger *zap.Logger) *APIKeyService {
	return &APIKeyService{
		repo:   repo,
		logger: logger.Named("APIKeyService"),
	}
}

// CreateAPIKey generates and stores a new key. The plaintext is part of the
// response and exists nowhere else.
func (s *APIKeyService) CreateAPIKey(ctx context.Context, req *dto.CreateAPIKeyRequest) (*dto.CreateAPIKeyResponse, error) {
	s.logger.Info("Generating new API key", zap.String("name", req.Name))

	fullKey, prefix, keyHash, err := util.GenerateAPIKey()
	if err != nil {
		s.logger.Error("Failed to generate api key components", zap.Error(err))
		return nil, fmt.Errorf("%w: failed generating key: %v", ierr.ErrInternalServer, err)
	}

	rateLimit := req.RateLimitPerMinute
	if rateLimit <= 0 {
		rateLimit = apikey.DefaultRateLimitPerMinute
	}

	newKey := &apikey.APIKey{
		UserID:             req.UserID,
		KeyHash:            keyHash,
		KeyPrefix:          prefix,
		Name:               req.Name,
		IsActive:           true,
		RateLimitPerMinute: rateLimit,
		ExpiresAt:          req.ExpiresAt,
	}

	insertedID, err := s.repo.Create(ctx, newKey)
	if err != nil {
		s.logger.Error("Failed to save new api key", zap.Error(err))
		return nil, fmt.Errorf("repository error creating api key: %w", err)
	}

	s.logger.Info("API key created successfully", zap.String("id", insertedID.String()), zap.String("key_prefix", prefix))

	return &dto.CreateAPIKeyResponse{
		ID:                 insertedID,
		FullKey:            fullKey,
		KeyPrefix:          prefix,
		Name:               req.Name,
		RateLimitPerMinute: rateLimit,
		ExpiresAt:          req.ExpiresAt,
	}, nil
}

func (s *APIKeyService) ListAPIKeys(ctx context.Context) ([]*dto.APIKeyResponse, error) {
	keys, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list api keys from repository", zap.Error(err))
		return nil, fmt.Errorf("repository error listing api keys: %w", err)
	}

	responses := make([]*dto.APIKeyResponse, len(keys))
	for i, key := range keys {
		responses[i] = dto.NewAPIKeyResponse(key)
	}
	return responses, nil
}

func (s *APIKeyService) SetAPIKeyActive(ctx context.Context, id uuid.UUID, active bool) error {
	err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		if err == apikey.ErrAPIKeyNotFound {
			return fmt.Errorf("%w: api key %s", ierr.ErrNotFound, id)
		}
		s.logger.Error("Failed to toggle api key", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("repository error toggling api key %s: %w", id, err)
	}
	s.logger.Info("API key active flag updated", zap.String("id", id.String()), zap.Bool("active", active))
	return nil
}

// RevokeAPIKey removes the key outright; every future gateway check for it
// fails from this point on.
func (s *APIKeyService) RevokeAPIKey(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if err == apikey.ErrAPIKeyNotFound {
			return fmt.Errorf("%w: api key %s", ierr.ErrNotFound, id)
		}
		s.logger.Error("Failed to revoke api key via repository", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("repository error revoking api key %s: %w", id, err)
	}
	s.logger.Info("API key revoked", zap.String("id", id.String()))
	return nil
}
