// Package pipeline composes the security stages into a single echo
// middleware: policy match, authentication, resource resolution, RBAC
// enrichment, permission validation, then security context attachment.
// Any stage may short-circuit with an error that aborts the pipeline;
// the first error wins and no partial context is ever attached.
package pipeline

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"forms-service/internal/audit"
	"forms-service/internal/logging"
	"forms-service/internal/security"
	"forms-service/internal/security/authn"
	"forms-service/internal/security/policy"
	"forms-service/internal/security/rbac"
	"forms-service/internal/security/resolver"
)

// Recorder receives the outcome of every pipeline run. Recording is fire
// and forget; it must never block the request.
type Recorder interface {
	RecordAsync(event *audit.Event)
}

// Enricher produces the RBAC result for an authenticated actor against a
// resolved resource. Satisfied by rbac.Enricher.
type Enricher interface {
	Enrich(ctx context.Context, who *security.Who, res *security.Resource, matched *policy.Matched) (*security.RBACResult, error)
}

// Orchestrator sequences the security stages for every request. All
// collaborators are injected at startup and read-only afterwards.
type Orchestrator struct {
	policies *policy.Registry
	auth     *authn.Registry
	resolver *resolver.Resolver
	enricher Enricher
	recorder Recorder
	log      zerolog.Logger
}

func New(policies *policy.Registry, auth *authn.Registry, res *resolver.Resolver, enricher Enricher, recorder Recorder) *Orchestrator {
	return &Orchestrator{
		policies: policies,
		auth:     auth,
		resolver: res,
		enricher: enricher,
		recorder: recorder,
		log:      logging.Component("orchestrator"),
	}
}

// Middleware runs the full pipeline. On success the completed security
// context is attached to the request and the next handler runs; on
// failure the stage's error propagates verbatim to the error handler.
func (o *Orchestrator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			correlationID := requestID(c)

			sc := &security.SecurityContext{
				CorrelationID: correlationID,
				Route: security.Route{
					Method: req.Method,
					Path:   req.URL.Path,
					Query:  req.URL.RawQuery,
				},
			}

			matched := o.policies.Match(req.Method, req.URL.Path)
			if matched == nil {
				return o.fail(c, start, sc, security.NewPolicyNotFound())
			}
			sc.Route.Pattern = matched.Policy.Pattern
			sc.Route.Classification = matched.Policy.Classification

			authStart := time.Now()
			who, err := o.auth.Authenticate(c, correlationID, matched.Policy.AllowedAuth)
			sc.Timings.Auth = time.Since(authStart)
			if err != nil {
				return o.fail(c, start, sc, err)
			}
			sc.Who = who

			spec := matched.Spec(c)
			resStart := time.Now()
			res, err := o.resolver.Resolve(req.Context(), spec)
			sc.Timings.Resource = time.Since(resStart)
			if err != nil {
				return o.fail(c, start, sc, err)
			}
			if res == nil && spec.Kind != security.KindNone && spec.Kind != "" {
				return o.fail(c, start, sc, security.NewResourceNotFound())
			}
			sc.Resource = res
			if res != nil {
				logging.LogResourceAccess(o.log, correlationID, res.Kind, res.ID, true)
			}

			rbacStart := time.Now()
			rbacResult, err := o.enricher.Enrich(req.Context(), who, res, matched)
			sc.Timings.RBAC = time.Since(rbacStart)
			if err != nil {
				return o.fail(c, start, sc, err)
			}
			sc.RBAC = rbacResult
			for _, d := range rbacResult.Decisions {
				logging.LogSecurityDecision(o.log, correlationID, d)
			}

			required := matched.Policy.RequiredPermissions
			missing, ok := rbac.CheckPermissions(required, rbacResult.Permissions, security.ModeAll)
			logging.LogPermissionCheck(o.log, correlationID, required, rbacResult.Permissions, missing, security.ModeAll, ok)
			if !ok {
				return o.fail(c, start, sc, security.NewPermissionDenied(required, rbacResult.Permissions, missing, security.ModeAll, rbacResult.Decisions))
			}

			sc.Timings.Total = time.Since(start)
			security.Attach(c, sc)
			logging.LogPerformance(o.log, correlationID, sc.Timings)
			o.record(c, sc, audit.StatusPermitted, http.StatusOK, "")

			return next(c)
		}
	}
}

// fail records the aborted run and propagates err unchanged.
func (o *Orchestrator) fail(c echo.Context, start time.Time, sc *security.SecurityContext, err error) error {
	sc.Timings.Total = time.Since(start)

	status := http.StatusInternalServerError
	detail := err.Error()
	if se, ok := security.AsError(err); ok {
		status = se.Status
		detail = se.Detail
	}

	outcome := audit.StatusError
	if status == http.StatusForbidden || status == http.StatusUnauthorized {
		outcome = audit.StatusDenied
	}

	o.log.Warn().
		Str("correlation_id", sc.CorrelationID).
		Str("method", sc.Route.Method).
		Str("path", sc.Route.Path).
		Int("status", status).
		Str("detail", detail).
		Msg("security pipeline aborted")

	o.record(c, sc, outcome, status, detail)
	return err
}

func (o *Orchestrator) record(c echo.Context, sc *security.SecurityContext, outcome audit.Status, httpStatus int, detail string) {
	if o.recorder == nil {
		return
	}

	event := &audit.Event{
		CorrelationID:  sc.CorrelationID,
		Method:         sc.Route.Method,
		Pattern:        sc.Route.Pattern,
		Path:           sc.Route.Path,
		Classification: sc.Route.Classification,
		Status:         outcome,
		HTTPStatus:     httpStatus,
		ErrorDetail:    detail,
		IPAddress:      c.RealIP(),
		UserAgent:      c.Request().UserAgent(),
		TotalLatency:   sc.Timings.Total,
	}
	if sc.Who != nil {
		event.AuthType = sc.Who.AuthType
		if sc.Who.Actor != nil {
			event.ActorType = sc.Who.Actor.Type
			event.ActorID = sc.Who.Actor.ID
		}
	}
	if sc.Resource != nil {
		event.ResourceKind = sc.Resource.Kind
		event.ResourceID = sc.Resource.ID
	}
	if sc.RBAC != nil {
		event.Permissions = sc.RBAC.Permissions
		event.Decisions = sc.RBAC.Decisions
	}

	o.recorder.RecordAsync(event)
}

// requestID returns the correlation id assigned by the request-id
// middleware, generating one when the middleware is absent.
func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return uuid.NewString()
}
