// Package echo is the HTTP transport. Every route is secured by the
// policy-driven pipeline middleware; handlers only read the attached
// security context and never re-derive identity or permissions.
package echo

import (
	"context"

	"forms-service/internal/config"
	internalhttp "forms-service/internal/http"
	"forms-service/internal/http/middleware"
	"forms-service/internal/infra/s3"
	"forms-service/internal/repository"
	"forms-service/internal/security/authn"
	"forms-service/internal/security/pipeline"
	"forms-service/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const requestBodyLimit = "1M"

// Dependencies carries everything the transport needs, wired at startup.
type Dependencies struct {
	Config         *config.Config
	Orchestrator   *pipeline.Orchestrator
	JWTService     *authn.JWTService
	UserRepo       repository.UserRepository
	FormRepo       repository.FormRepository
	SubmissionRepo repository.SubmissionRepository
	FileRepo       repository.FileRepository
	ObjectStore    *s3.ObjectStore
}

// Server wraps the Echo server with its dependencies.
type Server struct {
	echo *echo.Echo
	deps *Dependencies
}

func NewServer(deps *Dependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = internalhttp.CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID first so the pipeline and all logs share one correlation id.
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Recover())
	e.Use(metrics.MetricsMiddleware())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	// The pipeline runs before the per-identity rate limiter so limits key
	// off the authenticated actor rather than the client IP.
	e.Use(deps.Orchestrator.Middleware())

	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	server := &Server{
		echo: e,
		deps: deps,
	}

	server.registerRoutes()
	metrics.RegisterMetricsRoute(e)

	return server
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.echo.Start(":" + s.deps.Config.Server.Port)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
