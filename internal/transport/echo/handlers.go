package echo

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"forms-service/internal/domain/file"
	"forms-service/internal/domain/form"
	"forms-service/internal/domain/submission"
	"forms-service/internal/security"
	apperrors "forms-service/pkg/errors"
	"forms-service/pkg/password"
	"forms-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Pre-computed bcrypt hash (cost 12) for constant-time failed lookups.
const dummyBcryptHash = "$2a$12$dWR5CQpS4zNHLavLSIr4o.P6QDQEUJKv7mJ7WekUHHqyRSRMJzH0S"

const (
	roleAdmin = "admin"

	msgGenerateTokenFail    = "failed to generate session token"
	msgMissingUploadFile    = "multipart field 'file' is required"
	msgFileUploadFail       = "failed to store uploaded file"
	msgFileDeleteFail       = "failed to delete file"
	msgDownloadURLFail      = "failed to generate download url"
	msgCreateSubmissionFail = "failed to create submission"
)

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (s *Server) loginHandler(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validator.Email(req.Email); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	u, err := s.deps.UserRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Burn a bcrypt comparison so unknown emails respond in the
			// same time as wrong passwords.
			password.Verify(req.Password, dummyBcryptHash)
			return apperrors.InvalidCredentials()
		}
		return err
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return apperrors.InvalidCredentials()
	}

	token, err := s.deps.JWTService.Generate(u.ID.String(), u.Username, u.Email, u.Roles)
	if err != nil {
		return apperrors.InternalServer(msgGenerateTokenFail, err)
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (s *Server) listFormsHandler(c echo.Context) error {
	actor := security.CurrentActor(c)

	filter := formListFilter(actor, s.deps.Config.App.PageSize)
	forms, err := s.deps.FormRepo.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, getSuccessResponseWithData(forms))
}

// formListFilter scopes the listing to the caller's own forms unless the
// caller holds the admin role.
func formListFilter(actor *security.Actor, limit int) form.ListFormsFilter {
	if actor != nil && actor.HasRole(roleAdmin) {
		return form.ListFormsFilter{Limit: limit}
	}
	createdBy := ""
	if actor != nil {
		createdBy = actor.ID
	}
	return form.ListFormsFilter{CreatedBy: createdBy, Limit: limit}
}

func (s *Server) getFormHandler(c echo.Context) error {
	sc := security.FromContext(c)
	return c.JSON(http.StatusOK, getSuccessResponseWithData(sc.Resource.Form))
}

func (s *Server) listSubmissionsHandler(c echo.Context) error {
	sc := security.FromContext(c)

	submissions, err := s.deps.SubmissionRepo.ListByForm(c.Request().Context(), submission.ListSubmissionsFilter{
		FormID: sc.Resource.Form.ID,
		Limit:  s.deps.Config.App.PageSize,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, getSuccessResponseWithData(submissions))
}

type CreateSubmissionRequest struct {
	Data  map[string]any `json:"data"`
	Draft bool           `json:"draft"`
}

func (s *Server) createSubmissionHandler(c echo.Context) error {
	sc := security.FromContext(c)

	var req CreateSubmissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	state := submission.StateSubmitted
	if req.Draft {
		state = submission.StateDraft
	}

	created, err := s.deps.SubmissionRepo.Create(c.Request().Context(), submission.CreateSubmissionInput{
		FormID:    sc.Resource.Form.ID,
		Data:      req.Data,
		State:     state,
		CreatedBy: sc.Who.Actor.ID,
	})
	if err != nil {
		return apperrors.InternalServer(msgCreateSubmissionFail, err)
	}

	return c.JSON(http.StatusCreated, getSuccessResponseWithData(created))
}

func (s *Server) getSubmissionHandler(c echo.Context) error {
	sc := security.FromContext(c)
	return c.JSON(http.StatusOK, getSuccessResponseWithData(sc.Resource.Submission))
}

func (s *Server) uploadFileHandler(c echo.Context) error {
	sc := security.FromContext(c)

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgMissingUploadFile)
	}

	contentType := fh.Header.Get(echo.HeaderContentType)
	if err := validateUpload(fh.Filename, fh.Size, contentType); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	src, err := fh.Open()
	if err != nil {
		return apperrors.InternalServer(msgFileUploadFail, err)
	}
	defer src.Close()

	formID := sc.Resource.Form.ID
	storageKey := fmt.Sprintf("forms/%s/%s/%s", formID, uuid.NewString(), fh.Filename)

	if err := s.deps.ObjectStore.Upload(src, storageKey); err != nil {
		return apperrors.InternalServer(msgFileUploadFail, err)
	}

	created, err := s.deps.FileRepo.Create(c.Request().Context(), file.CreateFileInput{
		FormID:     formID,
		Name:       fh.Filename,
		StorageKey: storageKey,
		SizeBytes:  fh.Size,
		MimeType:   contentType,
		CreatedBy:  sc.Who.Actor.ID,
	})
	if err != nil {
		return apperrors.InternalServer(msgFileUploadFail, err)
	}

	return c.JSON(http.StatusCreated, getSuccessResponseWithData(created))
}

func validateUpload(name string, size int64, contentType string) error {
	if err := validator.FileName(name); err != nil {
		return err
	}
	if err := validator.FileSize(size); err != nil {
		return err
	}
	return validator.ContentType(contentType)
}

func (s *Server) getFileHandler(c echo.Context) error {
	sc := security.FromContext(c)
	return c.JSON(http.StatusOK, getSuccessResponseWithData(sc.Resource.File))
}

func (s *Server) downloadFileHandler(c echo.Context) error {
	sc := security.FromContext(c)
	f := sc.Resource.File

	url, err := s.deps.ObjectStore.PresignDownload(f.StorageKey)
	if err != nil {
		return apperrors.InternalServer(msgDownloadURLFail, err)
	}

	return c.JSON(http.StatusOK, getSuccessResponseWithData(map[string]string{
		"url":      url,
		"fileName": f.Name,
	}))
}

func (s *Server) deleteFileHandler(c echo.Context) error {
	sc := security.FromContext(c)
	f := sc.Resource.File

	if err := s.deps.ObjectStore.Delete(f.StorageKey); err != nil {
		return apperrors.InternalServer(msgFileDeleteFail, err)
	}
	if err := s.deps.FileRepo.Delete(c.Request().Context(), f.ID); err != nil {
		return apperrors.InternalServer(msgFileDeleteFail, err)
	}

	return c.JSON(http.StatusOK, getSuccessResponse("File deleted successfully"))
}
