package postgres

import (
	"context"

	"forms-service/internal/domain/form"
	apperrors "forms-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type FormRepository struct {
	db *DB
}

func NewFormRepository(db *DB) *FormRepository {
	return &FormRepository{db: db}
}

func (r *FormRepository) GetByID(ctx context.Context, id uuid.UUID) (*form.Form, error) {
	query := `
		SELECT id, name, path, public, schema, created_by, created_at, updated_at
		FROM forms WHERE id = $1
	`

	f := &form.Form{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Name, &f.Path, &f.Public, &f.Schema, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errFormNotFound)
		}
		return nil, errFailedGetForm(err)
	}

	return f, nil
}

func (r *FormRepository) List(ctx context.Context, filter form.ListFormsFilter) ([]*form.Form, error) {
	query := `
		SELECT id, name, path, public, schema, created_by, created_at, updated_at
		FROM forms
	`
	args := []any{}

	if filter.CreatedBy != "" {
		query += " WHERE created_by = $1"
		args = append(args, filter.CreatedBy)
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)
	query += placeholder(" LIMIT", len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += placeholder(" OFFSET", len(args))
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListForms(err)
	}
	defer rows.Close()

	forms := []*form.Form{}
	for rows.Next() {
		f := &form.Form{}
		if err := rows.Scan(&f.ID, &f.Name, &f.Path, &f.Public, &f.Schema, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, errFailedScanForm(err)
		}
		forms = append(forms, f)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateForms(err)
	}

	return forms, nil
}
