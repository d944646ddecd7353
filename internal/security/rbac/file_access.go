package rbac

import (
	"net/http"

	"forms-service/internal/logging"
	"forms-service/internal/security"

	"github.com/labstack/echo/v4"
)

// File access has special cases the generic permission list cannot
// express, so these validators layer domain rules on top of
// RequirePermissions: approved API decisions bypass ordinary checks, and
// human users are held to uploader-or-public-form ownership rules.

// draftDecisionForMethod maps an HTTP method onto the draft-file override
// decision that must have been approved for that exact method.
var draftDecisionForMethod = map[string]security.Predicate{
	http.MethodGet:    security.PredicateAPIUserDraftRead,
	http.MethodDelete: security.PredicateAPIUserDraftDelete,
}

// HasFileCreate returns middleware gating file uploads. An API caller
// whose upload decision was approved during enrichment passes outright;
// everyone else needs FILE_CREATE in the granted set.
func HasFileCreate() echo.MiddlewareFunc {
	log := logging.Component("file_validator")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sc := security.FromContext(c)
			if sc == nil {
				return security.NewConfigError(msgSecurityContextMissing)
			}
			if sc.RBAC == nil {
				return security.NewConfigError(msgRBACMissing)
			}

			if sc.Who.Actor.IsAPI() && sc.RBAC.DecisionApproved(security.PredicateAPIUserFileCreate) {
				return next(c)
			}

			required := []security.Permission{security.PermFileCreate}
			missing, ok := CheckPermissions(required, sc.RBAC.Permissions, security.ModeAll)
			logging.LogPermissionCheck(log, sc.CorrelationID, required, sc.RBAC.Permissions, missing, security.ModeAll, ok)
			if !ok {
				return security.NewPermissionDenied(required, sc.RBAC.Permissions, missing, security.ModeAll, sc.RBAC.Decisions)
			}

			return next(c)
		}
	}
}

// HasFilePermissions returns middleware gating access to an already
// resolved file. Access is granted to, in order: API callers with an
// approved file-access decision, the file's original uploader, anyone
// when the owning form is public, callers holding a method-matched draft
// override decision while the file is still a draft, and finally anyone
// whose granted set covers the listed permissions. A missing file is a
// not-found error, never a forbidden one.
func HasFilePermissions(perms ...security.Permission) echo.MiddlewareFunc {
	log := logging.Component("file_validator")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sc := security.FromContext(c)
			if sc == nil {
				return security.NewConfigError(msgSecurityContextMissing)
			}
			if sc.RBAC == nil {
				return security.NewConfigError(msgRBACMissing)
			}

			res := sc.Resource
			if res == nil || res.File == nil {
				return security.NewFileNotFound()
			}

			actor := sc.Who.Actor
			if actor.IsAPI() &&
				(sc.RBAC.DecisionApproved(security.PredicateAPIUserFileAccess) ||
					sc.RBAC.DecisionApproved(security.PredicateAPIUserFileAPIAccess)) {
				return next(c)
			}

			if actor.Type == security.ActorTypeUser && actor.ID == res.File.CreatedBy {
				return next(c)
			}
			if res.PublicForm {
				return next(c)
			}
			if res.File.IsDraft() {
				if pred, ok := draftDecisionForMethod[c.Request().Method]; ok && sc.RBAC.DecisionApproved(pred) {
					return next(c)
				}
			}

			missing, ok := CheckPermissions(perms, sc.RBAC.Permissions, security.ModeAll)
			logging.LogPermissionCheck(log, sc.CorrelationID, perms, sc.RBAC.Permissions, missing, security.ModeAll, ok)
			if ok {
				return next(c)
			}

			// The uploader rule only exists for drafts; a denial on a
			// submitted file is an ordinary permission shortfall and
			// carries full evidence.
			if res.File.IsDraft() {
				return security.NewUploaderForbidden(sc.RBAC.Decisions)
			}

			return security.NewPermissionDenied(perms, sc.RBAC.Permissions, missing, security.ModeAll, sc.RBAC.Decisions)
		}
	}
}
