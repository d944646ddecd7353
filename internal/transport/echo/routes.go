package echo

import (
	"forms-service/internal/http/middleware"
	"forms-service/internal/security"
	"forms-service/internal/security/rbac"
)

// registerRoutes binds handlers to routes. The pipeline middleware has
// already matched the policy, authenticated, resolved the resource, and
// enforced the policy's required permissions by the time a handler runs;
// the per-route validators below add only the checks policies cannot
// express.
func (s *Server) registerRoutes() {
	strictRateLimiter := middleware.NewStrictRateLimiter()

	s.echo.GET("/health", s.healthHandler)
	s.echo.POST("/auth/login", s.loginHandler, strictRateLimiter.Middleware())

	s.echo.GET("/forms", s.listFormsHandler)
	s.echo.GET("/forms/:formId", s.getFormHandler)

	s.echo.GET("/forms/:formId/submissions", s.listSubmissionsHandler)
	s.echo.POST("/forms/:formId/submissions", s.createSubmissionHandler)
	s.echo.GET("/forms/:formId/submissions/:submissionId", s.getSubmissionHandler)

	s.echo.POST("/forms/:formId/files", s.uploadFileHandler, rbac.HasFileCreate())
	s.echo.GET("/forms/:formId/files/:fileId", s.getFileHandler,
		rbac.HasFilePermissions(security.PermFileRead))
	s.echo.GET("/forms/:formId/files/:fileId/download-url", s.downloadFileHandler,
		rbac.HasFilePermissions(security.PermFileRead))
	s.echo.DELETE("/forms/:formId/files/:fileId", s.deleteFileHandler,
		rbac.HasFilePermissions(security.PermFileDelete))
}
