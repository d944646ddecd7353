// Package policy holds the declarative access policies consulted for every
// inbound request. A policy binds an HTTP method and path pattern to the
// authentication strategies acceptable for the route, the resource the
// route acts on, and the permissions the caller must hold.
package policy

import (
	"forms-service/internal/security"

	"github.com/labstack/echo/v4"
)

// ResourceFunc computes a resource spec from the live request and the
// extracted path parameters, for routes whose target cannot be described
// statically.
type ResourceFunc func(c echo.Context, params map[string]string) security.ResourceSpec

// Policy declares how one route is secured.
type Policy struct {
	// Method must match the request method exactly.
	Method string
	// Pattern is a path pattern with named segments, e.g.
	// /forms/:formId/submissions/:submissionId. A pattern with no
	// parameters must match the path literally.
	Pattern string
	// AllowedAuth lists the strategies acceptable for this route, in the
	// order they are attempted. Empty means the route is implicitly public.
	AllowedAuth []security.AuthType
	// RequiredPermissions must all be granted for the request to proceed.
	RequiredPermissions []security.Permission
	// Classification is an opaque label grouping routes for logging and
	// audit. It is not an authorization mechanism.
	Classification string
	// Resource statically describes the route's target. Ignored when
	// ResourceFunc is set.
	Resource security.ResourceSpec
	// ResourceFunc, when set, computes the resource spec per request.
	ResourceFunc ResourceFunc
}

// Matched is the result of a successful policy match: the policy with
// defaults filled in, plus the extracted path parameters already applied
// to its resource spec.
type Matched struct {
	Policy Policy
	Params map[string]string
}

// Spec returns the resource spec for this match. The echo context is only
// consulted when the policy computes its spec per request.
func (m *Matched) Spec(c echo.Context) security.ResourceSpec {
	if m.Policy.ResourceFunc != nil {
		return m.Policy.ResourceFunc(c, m.Params)
	}
	spec := m.Policy.Resource
	spec.Params = m.Params
	return spec
}

// Registry is the ordered, immutable policy list. It is constructed once
// at startup and injected into the orchestrator; after construction it is
// read-only, so concurrent matching needs no locking.
type Registry struct {
	policies []Policy
}

// NewRegistry builds a registry from policies in registration order.
func NewRegistry(policies ...Policy) *Registry {
	return &Registry{policies: policies}
}

// Match returns the first registered policy whose method and pattern match
// the request, with defaults filled in, or nil when no policy matches.
// A nil return is a well-formed contract, not an error. When several
// policies could match, the first-registered one wins unconditionally.
func (r *Registry) Match(method, path string) *Matched {
	for i := range r.policies {
		p := r.policies[i]
		if p.Method != method {
			continue
		}
		params := ExtractParams(p.Pattern, path)
		if params == nil {
			continue
		}
		applyDefaults(&p)
		return &Matched{Policy: p, Params: params}
	}
	return nil
}

func applyDefaults(p *Policy) {
	if p.AllowedAuth == nil {
		p.AllowedAuth = []security.AuthType{}
	}
	if p.RequiredPermissions == nil {
		p.RequiredPermissions = []security.Permission{}
	}
	if p.Resource.Kind == "" {
		p.Resource.Kind = security.KindNone
	}
}
