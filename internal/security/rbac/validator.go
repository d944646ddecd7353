package rbac

import (
	"forms-service/internal/logging"
	"forms-service/internal/security"

	"github.com/labstack/echo/v4"
)

const (
	msgSecurityContextMissing = "security context missing; orchestrator middleware not applied"
	msgRBACMissing            = "rbac result missing from security context"
)

// RequireSpec configures an explicit permission check at a call site.
type RequireSpec struct {
	Permissions []security.Permission
	Mode        security.Mode
}

// CheckPermissions is the generic matcher between a required set and a
// granted set. mode "all" succeeds iff every required permission is
// granted; mode "any" succeeds iff at least one is. An empty required set
// always succeeds in both modes. It returns the permissions that were
// missing under the chosen mode.
func CheckPermissions(required, granted []security.Permission, mode security.Mode) ([]security.Permission, bool) {
	if len(required) == 0 {
		return nil, true
	}

	grantedSet := make(map[security.Permission]bool, len(granted))
	for _, g := range granted {
		grantedSet[g] = true
	}

	missing := []security.Permission{}
	for _, r := range required {
		if !grantedSet[r] {
			missing = append(missing, r)
		}
	}

	switch mode {
	case security.ModeAny:
		return missing, len(missing) < len(required)
	default:
		return missing, len(missing) == 0
	}
}

// RequirePermissions returns middleware demanding that every listed
// permission is granted. With no permissions listed, the check falls back
// to the matched policy's required set carried on the security context.
func RequirePermissions(perms ...security.Permission) echo.MiddlewareFunc {
	return RequirePermissionsWith(RequireSpec{Permissions: perms, Mode: security.ModeAll})
}

// RequireAnyPermission returns middleware demanding at least one of the
// listed permissions.
func RequireAnyPermission(perms ...security.Permission) echo.MiddlewareFunc {
	return RequirePermissionsWith(RequireSpec{Permissions: perms, Mode: security.ModeAny})
}

// RequirePermissionsWith is the general form of the permission middleware.
func RequirePermissionsWith(spec RequireSpec) echo.MiddlewareFunc {
	log := logging.Component("permission_validator")
	if spec.Mode == "" {
		spec.Mode = security.ModeAll
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sc := security.FromContext(c)
			if sc == nil {
				return security.NewConfigError(msgSecurityContextMissing)
			}
			if sc.RBAC == nil {
				return security.NewConfigError(msgRBACMissing)
			}

			required := spec.Permissions
			if len(required) == 0 {
				required = sc.RBAC.Required
			}

			missing, ok := CheckPermissions(required, sc.RBAC.Permissions, spec.Mode)
			logging.LogPermissionCheck(log, sc.CorrelationID, required, sc.RBAC.Permissions, missing, spec.Mode, ok)
			if !ok {
				return security.NewPermissionDenied(required, sc.RBAC.Permissions, missing, spec.Mode, sc.RBAC.Decisions)
			}

			return next(c)
		}
	}
}
