package postgres

import (
	"context"

	"forms-service/internal/domain/file"
	apperrors "forms-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type FileRepository struct {
	db *DB
}

func NewFileRepository(db *DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*file.File, error) {
	query := `
		SELECT id, form_id, submission_id, name, storage_key, size_bytes, mime_type, created_by, created_at
		FROM files WHERE id = $1
	`

	f := &file.File{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.FormID, &f.SubmissionID, &f.Name, &f.StorageKey, &f.SizeBytes, &f.MimeType, &f.CreatedBy, &f.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errFileNotFound)
		}
		return nil, errFailedGetFile(err)
	}

	return f, nil
}

func (r *FileRepository) Create(ctx context.Context, input file.CreateFileInput) (*file.File, error) {
	query := `
		INSERT INTO files (form_id, submission_id, name, storage_key, size_bytes, mime_type, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, form_id, submission_id, name, storage_key, size_bytes, mime_type, created_by, created_at
	`

	f := &file.File{}
	err := r.db.Pool.QueryRow(ctx, query, input.FormID, input.SubmissionID, input.Name, input.StorageKey, input.SizeBytes, input.MimeType, input.CreatedBy).Scan(
		&f.ID, &f.FormID, &f.SubmissionID, &f.Name, &f.StorageKey, &f.SizeBytes, &f.MimeType, &f.CreatedBy, &f.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("file already exists at this path")
		}
		return nil, errFailedCreateFile(err)
	}

	return f, nil
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return errFailedDeleteFile(err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errFileNotFound)
	}

	return nil
}
