package repository

import (
	"context"

	"forms-service/internal/domain/apikey"
	"forms-service/internal/domain/file"
	"forms-service/internal/domain/form"
	"forms-service/internal/domain/submission"
	"forms-service/internal/domain/user"

	"github.com/google/uuid"
)

// Repository interfaces consumed by the security pipeline and handlers.
// These are provider-side interfaces that concrete implementations must satisfy.

type FormRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*form.Form, error)
	List(ctx context.Context, filter form.ListFormsFilter) ([]*form.Form, error)
}

type SubmissionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*submission.Submission, error)
	ListByForm(ctx context.Context, filter submission.ListSubmissionsFilter) ([]*submission.Submission, error)
	Create(ctx context.Context, input submission.CreateSubmissionInput) (*submission.Submission, error)
}

type FileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*file.File, error)
	Create(ctx context.Context, input file.CreateFileInput) (*file.File, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type APIKeyRepository interface {
	GetByHash(ctx context.Context, hash string) (*apikey.APIKey, error)
	UpdateLastUsed(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}
