package logging

import (
	"forms-service/internal/security"

	"github.com/rs/zerolog"
)

// The helpers below standardize the event shape emitted for audit. Each
// event carries the request correlation id; timestamps come from the
// logger itself.

// LogAuthAttempt records one authentication strategy outcome.
func LogAuthAttempt(log zerolog.Logger, correlationID string, authType security.AuthType, success bool, err error) {
	e := log.Info()
	if !success {
		e = log.Warn()
	}
	e = e.Str("event", "auth_attempt").
		Str("correlation_id", correlationID).
		Str("auth_type", string(authType)).
		Bool("success", success)
	if err != nil {
		e = e.Err(err)
	}
	e.Send()
}

// LogPermissionCheck records a required-vs-granted permission evaluation.
func LogPermissionCheck(log zerolog.Logger, correlationID string, required, granted, missing []security.Permission, mode security.Mode, allowed bool) {
	e := log.Info()
	if !allowed {
		e = log.Warn()
	}
	e.Str("event", "permission_check").
		Str("correlation_id", correlationID).
		Strs("required", permissionStrings(required)).
		Strs("granted", permissionStrings(granted)).
		Strs("missing", permissionStrings(missing)).
		Str("mode", string(mode)).
		Bool("allowed", allowed).
		Send()
}

// LogResourceAccess records a resource resolution outcome.
func LogResourceAccess(log zerolog.Logger, correlationID string, kind security.Kind, id string, found bool) {
	log.Info().
		Str("event", "resource_access").
		Str("correlation_id", correlationID).
		Str("kind", string(kind)).
		Str("resource_id", id).
		Bool("found", found).
		Send()
}

// LogSecurityDecision records a single named predicate evaluation.
func LogSecurityDecision(log zerolog.Logger, correlationID string, d security.Decision) {
	log.Debug().
		Str("event", "security_decision").
		Str("correlation_id", correlationID).
		Str("predicate", string(d.Predicate)).
		Bool("result", d.Result).
		Interface("details", d.Details).
		Send()
}

// LogPerformance records per-stage pipeline latency. zerolog emits
// durations in milliseconds.
func LogPerformance(log zerolog.Logger, correlationID string, t security.Timings) {
	log.Debug().
		Str("event", "performance").
		Str("correlation_id", correlationID).
		Dur("t_auth", t.Auth).
		Dur("t_res", t.Resource).
		Dur("t_rbac", t.RBAC).
		Dur("total", t.Total).
		Send()
}

func permissionStrings(perms []security.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
