package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strconv"
	"time"

	"github.com/ovalstats/cricket-data-api/internal/domain/apikey"
	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
	"github.com/ovalstats/cricket-data-api/internal/domain/usage"
	"github.com/ovalstats/cricket-data-api/internal/ierr"
	"github.com/ovalstats/cricket-data-api/internal/metrics"
	"github.com/ovalstats/cricket-data-api/internal/util"
	"go.uber.org/zap"
)

// rateLimitWindow is the trailing window the per-key limit is evaluated over.
// Requests age out continuously; nothing is aligned to clock minutes.
const rateLimitWindow = 60 * time.Second

type GatewayService struct {
	apiKeyRepo   apikey.Repository
	usageRepo    usage.Repository
	resourceRepo resource.Repository
	logger       *zap.Logger
}

func NewGatewayService(apiKeyRepo apikey.Repository, usageRepo usage.Repository, resourceRepo resource.Repository, logger *zap.Logger) *GatewayService {
	return &GatewayService{
		apiKeyRepo:   apiKeyRepo,
		usageRepo:    usageRepo,
		resourceRepo: resourceRepo,
		logger:       logger.Named("GatewayService"),
	}
}

type ServeResult struct {
	Records []*resource.Record
	Count   int
}

// Serve runs the full gateway pipeline for one request: resource validation,
// key authentication, sliding-window rate limiting, the table read, and usage
// logging. Side effects are ordered: no resource read happens before the
// checks pass, and the ledger row is appended after the read attempt whether
// or not it succeeded.
func (s *GatewayService) Serve(ctx context.Context, resourceName, presentedKey, method string) (*ServeResult, error) {
	t, err := resource.Parse(resourceName)
	if err != nil {
		return nil, err
	}

	if presentedKey == "" {
		return nil, ierr.ErrMissingAPIKey
	}

	keyHash := util.HashAPIKey(presentedKey)
	keyRecord, err := s.apiKeyRepo.FindByHash(ctx, keyHash)
	if err != nil {
		if err == apikey.ErrAPIKeyNotFound {
			return nil, ierr.ErrInvalidAPIKey
		}
		s.logger.Error("Failed to query credential store", zap.Error(err))
		return nil, fmt.Errorf("%w: credential lookup: %v", ierr.ErrStorage, err)
	}

	if subtle.ConstantTimeCompare([]byte(keyHash), []byte(keyRecord.KeyHash)) != 1 {
		return nil, ierr.ErrInvalidAPIKey
	}

	// Activity and expiry are checked after the lookup, not folded into the
	// query, so a dead key is indistinguishable from a live one by latency.
	if !keyRecord.IsActive {
		s.logger.Debug("Inactive api key presented", zap.String("key_prefix", keyRecord.KeyPrefix))
		return nil, ierr.ErrAPIKeyInactive
	}
	if keyRecord.ExpiresAt != nil && keyRecord.ExpiresAt.Before(time.Now().UTC()) {
		s.logger.Debug("Expired api key presented", zap.String("key_prefix", keyRecord.KeyPrefix))
		return nil, ierr.ErrAPIKeyExpired
	}

	windowStart := time.Now().UTC().Add(-rateLimitWindow)
	count, err := s.usageRepo.CountSince(ctx, keyRecord.ID, windowStart)
	if err != nil {
		s.logger.Error("Failed to count usage window", zap.String("key_id", keyRecord.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: rate limit count: %v", ierr.ErrStorage, err)
	}
	if count >= int64(keyRecord.RateLimitPerMinute) {
		s.logger.Info("Rate limit exceeded",
			zap.String("key_prefix", keyRecord.KeyPrefix),
			zap.Int64("window_count", count),
			zap.Int("limit", keyRecord.RateLimitPerMinute),
		)
		return nil, &ierr.RateLimitError{Limit: keyRecord.RateLimitPerMinute}
	}

	start := time.Now()
	records, readErr := s.resourceRepo.ListByType(ctx, t)
	elapsed := time.Since(start)
	metrics.GatewayRequestDuration.WithLabelValues(string(t)).Observe(elapsed.Seconds())

	if readErr != nil {
		// Failed reads still land in the ledger so they show up in usage
		// history.
		s.appendUsage(ctx, keyRecord, t, method, 500, elapsed)
		s.logger.Error("Resource read failed", zap.String("resource", string(t)), zap.Error(readErr))
		return nil, fmt.Errorf("%w: reading %s: %v", ierr.ErrStorage, t, readErr)
	}

	if err := s.apiKeyRepo.UpdateLastUsed(ctx, keyRecord.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("Failed to update api key last_used_at", zap.String("key_id", keyRecord.ID.String()), zap.Error(err))
	}

	s.appendUsage(ctx, keyRecord, t, method, 200, elapsed)

	return &ServeResult{
		Records: records,
		Count:   len(records),
	}, nil
}

func (s *GatewayService) appendUsage(ctx context.Context, key *apikey.APIKey, t resource.Type, method string, statusCode int, elapsed time.Duration) {
	metrics.GatewayRequestsTotal.WithLabelValues(string(t), strconv.Itoa(statusCode)).Inc()

	rec := &usage.Record{
		APIKeyID:       key.ID,
		Resource:       string(t),
		Method:         method,
		StatusCode:     statusCode,
		ResponseTimeMs: elapsed.Milliseconds(),
	}
	if err := s.usageRepo.Append(ctx, rec); err != nil {
		s.logger.Error("Failed to append usage record",
			zap.String("key_id", key.ID.String()),
			zap.String("resource", string(t)),
			zap.Error(err),
		)
	}
}
