package postgres

import (
	"context"

	"forms-service/internal/domain/submission"
	apperrors "forms-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SubmissionRepository struct {
	db *DB
}

func NewSubmissionRepository(db *DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*submission.Submission, error) {
	query := `
		SELECT id, form_id, data, state, created_by, submitted_at, created_at, updated_at
		FROM submissions WHERE id = $1
	`

	s := &submission.Submission{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.FormID, &s.Data, &s.State, &s.CreatedBy, &s.SubmittedAt, &s.CreatedAt, &s.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errSubmissionNotFound)
		}
		return nil, errFailedGetSubmission(err)
	}

	return s, nil
}

func (r *SubmissionRepository) ListByForm(ctx context.Context, filter submission.ListSubmissionsFilter) ([]*submission.Submission, error) {
	query := `
		SELECT id, form_id, data, state, created_by, submitted_at, created_at, updated_at
		FROM submissions WHERE form_id = $1
		ORDER BY created_at DESC
	`
	args := []any{filter.FormID}

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
		return nil, errFailedListSubmissions(err)
	}
	defer rows.Close()

	submissions := []*submission.Submission{}
	for rows.Next() {
		s := &submission.Submission{}
		if err := rows.Scan(&s.ID, &s.FormID, &s.Data, &s.State, &s.CreatedBy, &s.SubmittedAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, errFailedScanSubmission(err)
		}
		submissions = append(submissions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateSubmissions(err)
	}

	return submissions, nil
}

func (r *SubmissionRepository) Create(ctx context.Context, input submission.CreateSubmissionInput) (*submission.Submission, error) {
	query := `
		INSERT INTO submissions (form_id, data, state, created_by, submitted_at)
		VALUES ($1, $2, $3, $4, CASE WHEN $3 = 'submitted' THEN now() ELSE NULL END)
		RETURNING id, form_id, data, state, created_by, submitted_at, created_at, updated_at
	`

	s := &submission.Submission{}
	err := r.db.Pool.QueryRow(ctx, query, input.FormID, input.Data, input.State, input.CreatedBy).Scan(
		&s.ID, &s.FormID, &s.Data, &s.State, &s.CreatedBy, &s.SubmittedAt, &s.CreatedAt, &s.UpdatedAt,
	)

	if err != nil {
		return nil, errFailedCreateSubmission(err)
	}

	return s, nil
}
