package security

import (
	"time"

	"github.com/labstack/echo/v4"
)

const (
	// ContextKeySecurityContext holds the *SecurityContext attached by the
	// orchestrator once the pipeline completes.
	ContextKeySecurityContext = "security_context"
	// ContextKeyCurrentUser holds the flattened *Actor for handlers that
	// predate the security context.
	ContextKeyCurrentUser = "current_user"
	// ContextKeyAPIUser holds a bool: true when the actor authenticated as
	// an API key or gateway identity.
	ContextKeyAPIUser = "api_user"
)

// Route describes the matched policy's view of the request.
type Route struct {
	Method         string `json:"method"`
	Pattern        string `json:"pattern"`
	Path           string `json:"path"`
	Query          string `json:"query"`
	Classification string `json:"classification"`
}

// Timings holds per-stage wall-clock durations. All values come from the
// monotonic clock and are non-negative by construction.
type Timings struct {
	Auth     time.Duration `json:"t_auth"`
	Resource time.Duration `json:"t_res"`
	RBAC     time.Duration `json:"t_rbac"`
	Total    time.Duration `json:"total"`
}

// SecurityContext is the request-scoped aggregate produced by the
// orchestration pipeline. It is created empty at pipeline start, populated
// stage by stage, attached exactly once, and treated as immutable
// afterwards. It is never shared between concurrent requests.
type SecurityContext struct {
	CorrelationID string      `json:"correlationId"`
	Route         Route       `json:"route"`
	Who           *Who        `json:"who"`
	Resource      *Resource   `json:"resource"`
	RBAC          *RBACResult `json:"rbac"`
	Timings       Timings     `json:"timings"`
}

// FromContext returns the attached security context, or nil when the
// orchestrator has not run for this request.
func FromContext(c echo.Context) *SecurityContext {
	sc, _ := c.Get(ContextKeySecurityContext).(*SecurityContext)
	return sc
}

// Attach binds the completed security context plus its flattened
// compatibility keys to the request.
func Attach(c echo.Context, sc *SecurityContext) {
	c.Set(ContextKeySecurityContext, sc)
	if sc.Who != nil {
		c.Set(ContextKeyCurrentUser, sc.Who.Actor)
		c.Set(ContextKeyAPIUser, sc.Who.Actor.IsAPI())
	}
}

// CurrentActor returns the flattened actor, or nil when unauthenticated.
func CurrentActor(c echo.Context) *Actor {
	a, _ := c.Get(ContextKeyCurrentUser).(*Actor)
	return a
}

// IsAPIUser reports the flattened api_user compatibility flag.
func IsAPIUser(c echo.Context) bool {
	b, _ := c.Get(ContextKeyAPIUser).(bool)
	return b
}
