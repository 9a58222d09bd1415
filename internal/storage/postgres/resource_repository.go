package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
	"go.uber.org/zap"
)

type ResourceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewResourceRepository(db *pgxpool.Pool, logger *zap.Logger) *ResourceRepository {
	return &ResourceRepository{
		db:     db,
		logger: logger.Named("ResourceRepository"),
	}
}

var _ resource.Repository = (*ResourceRepository)(nil)

func (r *ResourceRepository) ListByType(ctx context.Context, t resource.Type) ([]*resource.Record, error) {
	query := `
		SELECT resource_type, record_id, fields, payload, version, updated_at
		FROM resource_records
		WHERE resource_type = $1
		ORDER BY record_id
	`
	rows, err := r.db.Query(ctx, query, string(t))
	if err != nil {
		r.logger.Error("Failed to query resource records", zap.String("resource_type", string(t)), zap.Error(err))
		return nil, fmt.Errorf("db error listing %s records: %w", t, err)
	}
	defer rows.Close()

	records := make([]*resource.Record, 0)
	for rows.Next() {
		var rec resource.Record
		var fields, payload []byte
		err := rows.Scan(
			&rec.ResourceType,
			&rec.RecordID,
			&fields,
			&payload,
			&rec.Version,
			&rec.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan resource record row", zap.String("resource_type", string(t)), zap.Error(err))
			return nil, fmt.Errorf("db scan error listing %s records: %w", t, err)
		}
		rec.Fields = json.RawMessage(fields)
		rec.Payload = json.RawMessage(payload)
		records = append(records, &rec)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating resource record rows", zap.String("resource_type", string(t)), zap.Error(err))
		return nil, fmt.Errorf("db iteration error listing %s records: %w", t, err)
	}

	return records, nil
}

// Merge is a single atomic upsert: new records land at version 1, existing
// ones overwrite at version + 1 computed inside the statement, so concurrent
// merges of the same record cannot skip or repeat a version.
func (r *ResourceRepository) Merge(ctx context.Context, t resource.Type, recordID int64, fields, payload json.RawMessage) (int, error) {
	query := `
		INSERT INTO resource_records (resource_type, record_id, fields, payload, version, updated_at)
		VALUES ($1, $2, $3, $4, 1, now())
		ON CONFLICT (resource_type, record_id) DO UPDATE SET
			fields = EXCLUDED.fields,
			payload = EXCLUDED.payload,
			version = resource_records.version + 1,
			updated_at = now()
		RETURNING version
	`
	var version int
	err := r.db.QueryRow(ctx, query, string(t), recordID, []byte(fields), []byte(payload)).Scan(&version)
	if err != nil {
		r.logger.Error("Failed to merge resource record",
			zap.String("resource_type", string(t)),
			zap.Int64("record_id", recordID),
			zap.Error(err),
		)
		return 0, fmt.Errorf("db error merging %s record %d: %w", t, recordID, err)
	}

	return version, nil
}
