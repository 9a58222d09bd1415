package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
	"go.uber.org/zap"
)

type VersionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewVersionRepository(db *pgxpool.Pool, logger *zap.Logger) *VersionRepository {
	return &VersionRepository{
		db:     db,
		logger: logger.Named("VersionRepository"),
	}
}

var _ resource.VersionRepository = (*VersionRepository)(nil)

func (r *VersionRepository) Append(ctx context.Context, snap *resource.Snapshot) error {
	query := `
		INSERT INTO data_versions (resource_type, record_id, version, payload)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, string(snap.ResourceType), snap.RecordID, snap.Version, []byte(snap.Payload))
	if err != nil {
		r.logger.Error("Failed to append version snapshot",
			zap.String("resource_type", string(snap.ResourceType)),
			zap.Int64("record_id", snap.RecordID),
			zap.Int("version", snap.Version),
			zap.Error(err),
		)
		return fmt.Errorf("db error appending version snapshot: %w", err)
	}
	return nil
}

func (r *VersionRepository) ListByRecord(ctx context.Context, t resource.Type, recordID int64) ([]*resource.Snapshot, error) {
	query := `
		SELECT resource_type, record_id, version, payload, created_at
		FROM data_versions
		WHERE resource_type = $1 AND record_id = $2
		ORDER BY version
	`
	rows, err := r.db.Query(ctx, query, string(t), recordID)
	if err != nil {
		r.logger.Error("Failed to query version snapshots", zap.String("resource_type", string(t)), zap.Error(err))
		return nil, fmt.Errorf("db error listing version snapshots: %w", err)
	}
	defer rows.Close()

	snaps := make([]*resource.Snapshot, 0)
	for rows.Next() {
		var snap resource.Snapshot
		var payload []byte
		err := rows.Scan(&snap.ResourceType, &snap.RecordID, &snap.Version, &payload, &snap.CreatedAt)
		if err != nil {
			r.logger.Error("Failed to scan version snapshot row", zap.Error(err))
			return nil, fmt.Errorf("db scan error listing version snapshots: %w", err)
		}
		snap.Payload = json.RawMessage(payload)
		snaps = append(snaps, &snap)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating version snapshot rows", zap.Error(err))
		return nil, fmt.Errorf("db iteration error listing version snapshots: %w", err)
	}

	return snaps, nil
}
