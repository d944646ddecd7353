// Package resolver loads and describes the resource a matched policy says
// the request acts on.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"forms-service/internal/domain/file"
	"forms-service/internal/domain/form"
	"forms-service/internal/domain/submission"
	"forms-service/internal/infra/cache"
	"forms-service/internal/logging"
	"forms-service/internal/repository"
	"forms-service/internal/security"
	apperrors "forms-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	paramFormID       = "formId"
	paramSubmissionID = "submissionId"
	paramFileID       = "fileId"
)

// Resolver interprets a resource spec against the data store. A nil
// resource with a nil error means the referenced entity does not exist —
// a 404, not a permissions question.
type Resolver struct {
	forms       repository.FormRepository
	submissions repository.SubmissionRepository
	files       repository.FileRepository
	formCache   *cache.FormCache
	log         zerolog.Logger
}

// New builds a resolver. formCache may be nil to bypass caching.
func New(forms repository.FormRepository, submissions repository.SubmissionRepository, files repository.FileRepository, formCache *cache.FormCache) *Resolver {
	return &Resolver{
		forms:       forms,
		submissions: submissions,
		files:       files,
		formCache:   formCache,
		log:         logging.Component("resource_resolver"),
	}
}

// Resolve loads the resource described by spec. Compound kinds either
// resolve completely or not at all; partial data is never returned.
func (r *Resolver) Resolve(ctx context.Context, spec security.ResourceSpec) (*security.Resource, error) {
	switch spec.Kind {
	case security.KindNone, "":
		return nil, nil
	case security.KindForm:
		return r.resolveForm(ctx, spec)
	case security.KindSubmission:
		return r.resolveSubmission(ctx, spec)
	case security.KindFile:
		return r.resolveFile(ctx, spec)
	default:
		return nil, fmt.Errorf("unknown resource kind: %s", spec.Kind)
	}
}

func (r *Resolver) resolveForm(ctx context.Context, spec security.ResourceSpec) (*security.Resource, error) {
	f, err := r.lookupForm(ctx, spec.Params[paramFormID])
	if err != nil || f == nil {
		return nil, err
	}

	return &security.Resource{
		Kind:       security.KindForm,
		ID:         f.ID.String(),
		PublicForm: f.Public,
		Form:       f,
	}, nil
}

func (r *Resolver) resolveSubmission(ctx context.Context, spec security.ResourceSpec) (*security.Resource, error) {
	f, err := r.lookupForm(ctx, spec.Params[paramFormID])
	if err != nil || f == nil {
		return nil, err
	}

	s, err := r.lookupSubmission(ctx, spec.Params[paramSubmissionID])
	if err != nil || s == nil {
		return nil, err
	}

	// A submission reached through a form it does not belong to does not
	// exist from the caller's point of view.
	if s.FormID != f.ID {
		return nil, nil
	}

	return &security.Resource{
		Kind:       security.KindSubmission,
		ID:         s.ID.String(),
		PublicForm: f.Public,
		Form:       f,
		Submission: s,
	}, nil
}

func (r *Resolver) resolveFile(ctx context.Context, spec security.ResourceSpec) (*security.Resource, error) {
	f, err := r.lookupForm(ctx, spec.Params[paramFormID])
	if err != nil || f == nil {
		return nil, err
	}

	fl, err := r.lookupFile(ctx, spec.Params[paramFileID])
	if err != nil || fl == nil {
		return nil, err
	}

	if fl.FormID != f.ID {
		return nil, nil
	}

	return &security.Resource{
		Kind:       security.KindFile,
		ID:         fl.ID.String(),
		PublicForm: f.Public,
		Form:       f,
		File:       fl,
	}, nil
}

func (r *Resolver) lookupForm(ctx context.Context, id string) (*form.Form, error) {
	formID, ok := parseID(id)
	if !ok {
		return nil, nil
	}

	if r.formCache != nil {
		if f, hit := r.formCache.Get(ctx, formID.String()); hit {
			return f, nil
		}
	}

	f, err := r.forms.GetByID(ctx, formID)
	if err != nil {
		return nil, notFoundToNil(err)
	}

	if r.formCache != nil {
		if err := r.formCache.Set(ctx, f); err != nil {
			r.log.Debug().Err(err).Str("form_id", formID.String()).Msg("form cache set failed")
		}
	}

	return f, nil
}

func (r *Resolver) lookupSubmission(ctx context.Context, id string) (*submission.Submission, error) {
	subID, ok := parseID(id)
	if !ok {
		return nil, nil
	}

	s, err := r.submissions.GetByID(ctx, subID)
	if err != nil {
		return nil, notFoundToNil(err)
	}

	return s, nil
}

func (r *Resolver) lookupFile(ctx context.Context, id string) (*file.File, error) {
	fileID, ok := parseID(id)
	if !ok {
		return nil, nil
	}

	fl, err := r.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, notFoundToNil(err)
	}

	return fl, nil
}

// parseID parses a path parameter as a UUID. An unparseable id cannot
// reference any stored entity, so it resolves to "not found" rather than
// a validation error.
func parseID(id string) (uuid.UUID, bool) {
	if id == "" {
		return uuid.Nil, false
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, false
	}
	return parsed, true
}

// notFoundToNil converts the repository's not-found error into the
// resolver's nil-resource contract; every other error propagates verbatim.
func notFoundToNil(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}
