package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
	"github.com/ovalstats/cricket-data-api/internal/domain/synchealth"
	"go.uber.org/zap"
)

type SyncHealthRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSyncHealthRepository(db *pgxpool.Pool, logger *zap.Logger) *SyncHealthRepository {
	return &SyncHealthRepository{
		db:     db,
		logger: logger.Named("SyncHealthRepository"),
	}
}

var _ synchealth.Repository = (*SyncHealthRepository)(nil)

func (r *SyncHealthRepository) SeedAll(ctx context.Context, types []resource.Type) error {
	query := `
		INSERT INTO sync_status (resource_type, status)
		VALUES ($1, $2)
		ON CONFLICT (resource_type) DO NOTHING
	`
	for _, t := range types {
		if _, err := r.db.Exec(ctx, query, string(t), string(synchealth.StatusPending)); err != nil {
			r.logger.Error("Failed to seed sync status row", zap.String("resource_type", string(t)), zap.Error(err))
			return fmt.Errorf("db error seeding sync status for %s: %w", t, err)
		}
	}
	r.logger.Info("Sync status rows seeded", zap.Int("resource_types", len(types)))
	return nil
}

func (r *SyncHealthRepository) List(ctx context.Context) ([]*synchealth.Health, error) {
	query := `
		SELECT resource_type, status, last_sync_at, last_success_at, last_error, records_count, updated_at
		FROM sync_status
		ORDER BY resource_type
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query sync status rows", zap.Error(err))
		return nil, fmt.Errorf("db error listing sync status: %w", err)
	}
	defer rows.Close()

	healths := make([]*synchealth.Health, 0)
	for rows.Next() {
		h, err := scanSyncHealth(rows)
		if err != nil {
			r.logger.Error("Failed to scan sync status row", zap.Error(err))
			return nil, fmt.Errorf("db scan error listing sync status: %w", err)
		}
		healths = append(healths, h)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating sync status rows", zap.Error(err))
		return nil, fmt.Errorf("db iteration error listing sync status: %w", err)
	}

	return healths, nil
}

func (r *SyncHealthRepository) Get(ctx context.Context, t resource.Type) (*synchealth.Health, error) {
	query := `
		SELECT resource_type, status, last_sync_at, last_success_at, last_error, records_count, updated_at
		FROM sync_status
		WHERE resource_type = $1
	`
	h, err := scanSyncHealth(r.db.QueryRow(ctx, query, string(t)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no sync status row for %s", t)
		}
		r.logger.Error("Failed to get sync status row", zap.String("resource_type", string(t)), zap.Error(err))
		return nil, fmt.Errorf("db error getting sync status for %s: %w", t, err)
	}
	return h, nil
}

func (r *SyncHealthRepository) MarkSyncing(ctx context.Context, t resource.Type, at time.Time) error {
	query := `
		UPDATE sync_status
		SET status = $1, updated_at = $2
		WHERE resource_type = $3
	`
	return r.mark(ctx, t, query, string(synchealth.StatusSyncing), at, string(t))
}

func (r *SyncHealthRepository) MarkSuccess(ctx context.Context, t resource.Type, at time.Time, recordsCount int) error {
	query := `
		UPDATE sync_status
		SET status = $1, last_sync_at = $2, last_success_at = $2, records_count = $3,
			last_error = NULL, updated_at = $2
		WHERE resource_type = $4
	`
	return r.mark(ctx, t, query, string(synchealth.StatusSuccess), at, recordsCount, string(t))
}

func (r *SyncHealthRepository) MarkError(ctx context.Context, t resource.Type, at time.Time, message string) error {
	query := `
		UPDATE sync_status
		SET status = $1, last_sync_at = $2, last_error = $3, updated_at = $2
		WHERE resource_type = $4
	`
	return r.mark(ctx, t, query, string(synchealth.StatusError), at, message, string(t))
}

func (r *SyncHealthRepository) mark(ctx context.Context, t resource.Type, query string, args ...any) error {
	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update sync status", zap.String("resource_type", string(t)), zap.Error(err))
		return fmt.Errorf("db error updating sync status for %s: %w", t, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Sync status row missing on update", zap.String("resource_type", string(t)))
		return fmt.Errorf("no sync status row for %s", t)
	}
	return nil
}

func scanSyncHealth(row pgx.Row) (*synchealth.Health, error) {
	var h synchealth.Health
	var lastSync, lastSuccess sql.NullTime
	var lastError sql.NullString

	err := row.Scan(
		&h.ResourceType,
		&h.Status,
		&lastSync,
		&lastSuccess,
		&lastError,
		&h.RecordsCount,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastSync.Valid {
		h.LastSyncAt = &lastSync.Time
	}
	if lastSuccess.Valid {
		h.LastSuccessAt = &lastSuccess.Time
	}
	if lastError.Valid {
		h.LastError = &lastError.String
	}

	return &h, nil
}
