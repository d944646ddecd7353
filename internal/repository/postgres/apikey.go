package postgres

import (
	"context"
	"time"

	"forms-service/internal/domain/apikey"
	apperrors "forms-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type APIKeyRepository struct {
	db *DB
}

func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) GetByHash(ctx context.Context, hash string) (*apikey.APIKey, error) {
	query := `
		SELECT id, name, key_hash, key_prefix, permissions, form_id, expires_at, created_by, created_at, last_used_at, revoked_at, revoked_by
		FROM api_keys WHERE key_hash = $1
	`

	k := &apikey.APIKey{}
	err := r.db.Pool.QueryRow(ctx, query, hash).Scan(
		&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Permissions, &k.FormID, &k.ExpiresAt, &k.CreatedBy, &k.CreatedAt, &k.LastUsedAt, &k.RevokedAt, &k.RevokedBy,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errAPIKeyNotFound)
		}
		return nil, errFailedGetAPIKey(err)
	}

	return k, nil
}

func (r *APIKeyRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE api_keys SET last_used_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return errFailedUpdateLastUsed(err)
	}

	return nil
}
