package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ovalstats/cricket-data-api/internal/domain/apikey"
	"go.uber.org/zap"
)

type APIKeyRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAPIKeyRepository(db *pgxpool.Pool, logger *zap.Logger) *APIKeyRepository {
	return &APIKeyRepository{
		db:     db,
		logger: logger.Named("APIKeyRepository"),
	}
}

var _ apikey.Repository = (*APIKeyRepository)(nil)

const apiKeyColumns = `id, user_id, key_hash, key_prefix, name, is_active, rate_limit_per_minute, expires_at, last_used_at, created_at`

func (r *APIKeyRepository) FindByHash(ctx context.Context, keyHash string) (*apikey.APIKey, error) {
	query := `
		SELECT ` + apiKeyColumns + `
		FROM api_keys
		WHERE key_hash = $1
	`
	row := r.db.QueryRow(ctx, query, keyHash)

	key, err := scanAPIKey(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("No api key matches presented digest")
			return nil, apikey.ErrAPIKeyNotFound
		}
		r.logger.Error("Failed to find api key by hash", zap.Error(err))
		return nil, fmt.Errorf("db error finding api key: %w", err)
	}

	return key, nil
}

func (r *APIKeyRepository) Create(ctx context.Context, key *apikey.APIKey) (uuid.UUID, error) {
	query := `
		INSERT INTO api_keys (user_id, key_hash, key_prefix, name, is_active, rate_limit_per_minute, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var insertedID uuid.UUID

	err := r.db.QueryRow(ctx, query,
		key.UserID,
		key.KeyHash,
		key.KeyPrefix,
		key.Name,
		key.IsActive,
		key.RateLimitPerMinute,
		key.ExpiresAt,
	).Scan(&insertedID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Warn("Failed to create API key due to unique constraint violation",
				zap.String("constraint", pgErr.ConstraintName),
				zap.String("key_prefix", key.KeyPrefix),
			)
			return uuid.Nil, fmt.Errorf("api key constraint violation (%s)", pgErr.ConstraintName)
		}
		r.logger.Error("Failed to create api key in database", zap.Error(err))
		return uuid.Nil, fmt.Errorf("db error creating api key: %w", err)
	}

	r.logger.Info("API key created", zap.String("id", insertedID.String()), zap.String("key_prefix", key.KeyPrefix))
	return insertedID, nil
}

func (r *APIKeyRepository) List(ctx context.Context) ([]*apikey.APIKey, error) {
	query := `
		SELECT ` + apiKeyColumns + `
		FROM api_keys
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query api keys", zap.Error(err))
		return nil, fmt.Errorf("db error listing api keys: %w", err)
	}
	defer rows.Close()

	keys := make([]*apikey.APIKey, 0)
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			r.logger.Error("Failed to scan api key row", zap.Error(err))
			return nil, fmt.Errorf("db scan error listing api keys: %w", err)
		}
		keys = append(keys, key)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating api key rows", zap.Error(err))
		return nil, fmt.Errorf("db iteration error listing api keys: %w", err)
	}

	return keys, nil
}

func (r *APIKeyRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE api_keys SET is_active = $1 WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, query, active, id)
	if err != nil {
		r.logger.Error("Failed to update api key active flag", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("db error updating api key active flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apikey.ErrAPIKeyNotFound
	}
	return nil
}

func (r *APIKeyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM api_keys WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete api key", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("db error deleting api key: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apikey.ErrAPIKeyNotFound
	}
	r.logger.Info("API key deleted", zap.String("id", id.String()))
	return nil
}

func (r *APIKeyRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID, lastUsed time.Time) error {
	query := `UPDATE api_keys SET last_used_at = $1 WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, query, lastUsed, id)
	if err != nil {
		r.logger.Error("Failed to update api key last_used_at", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("db error updating last used time: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("API key not found when updating last_used_at", zap.String("id", id.String()))
	}
	return nil
}

func scanAPIKey(row pgx.Row) (*apikey.APIKey, error) {
	var key apikey.APIKey
	var expiresAt, lastUsed sql.NullTime

	err := row.Scan(
		&key.ID,
		&key.UserID,
		&key.KeyHash,
		&key.KeyPrefix,
		&key.Name,
		&key.IsActive,
		&key.RateLimitPerMinute,
		&expiresAt,
		&lastUsed,
		&key.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if expiresAt.Valid {
		key.ExpiresAt = &expiresAt.Time
	}
	if lastUsed.Valid {
		key.LastUsedAt = &lastUsed.Time
	}

	return &key, nil
}
