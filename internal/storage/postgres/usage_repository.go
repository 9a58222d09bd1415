package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ovalstats/cricket-data-api/internal/domain/usage"
	"go.uber.org/zap"
)

type UsageRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUsageRepository(db *pgxpool.Pool, logger *zap.Logger) *UsageRepository {
	return &UsageRepository{
		db:     db,
		logger: logger.Named("UsageRepository"),
	}
}

var _ usage.Repository = (*UsageRepository)(nil)

func (r *UsageRepository) Append(ctx context.Context, rec *usage.Record) error {
	query := `
		INSERT INTO api_logs (api_key_id, resource, method, status_code, response_time_ms)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		rec.APIKeyID,
		rec.Resource,
		rec.Method,
		rec.StatusCode,
		rec.ResponseTimeMs,
	)
	if err != nil {
		r.logger.Error("Failed to append usage record",
			zap.String("api_key_id", rec.APIKeyID.String()),
			zap.String("resource", rec.Resource),
			zap.Error(err),
		)
		return fmt.Errorf("db error appending usage record: %w", err)
	}
	return nil
}

func (r *UsageRepository) CountSince(ctx context.Context, apiKeyID uuid.UUID, since time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM api_logs
		WHERE api_key_id = $1 AND created_at >= $2
	`
	var count int64
	err := r.db.QueryRow(ctx, query, apiKeyID, since).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count usage records",
			zap.String("api_key_id", apiKeyID.String()),
			zap.Error(err),
		)
		return 0, fmt.Errorf("db error counting usage records: %w", err)
	}
	return count, nil
}

func (r *UsageRepository) ListRecent(ctx context.Context, limit int) ([]*usage.Record, error) {
	query := `
		SELECT id, api_key_id, resource, method, status_code, response_time_ms, created_at
		FROM api_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to query usage records", zap.Error(err))
		return nil, fmt.Errorf("db error listing usage records: %w", err)
	}
	defer rows.Close()

	records := make([]*usage.Record, 0)
	for rows.Next() {
		var rec usage.Record
		err := rows.Scan(
			&rec.ID,
			&rec.APIKeyID,
			&rec.Resource,
			&rec.Method,
			&rec.StatusCode,
			&rec.ResponseTimeMs,
			&rec.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan usage record row", zap.Error(err))
			return nil, fmt.Errorf("db scan error listing usage records: %w", err)
		}
		records = append(records, &rec)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating usage record rows", zap.Error(err))
		return nil, fmt.Errorf("db iteration error listing usage records: %w", err)
	}

	return records, nil
}
