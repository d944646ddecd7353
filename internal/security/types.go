package security

import (
	"forms-service/internal/domain/file"
	"forms-service/internal/domain/form"
	"forms-service/internal/domain/submission"
)

// AuthType identifies an authentication strategy.
type AuthType string

const (
	AuthTypeUser    AuthType = "user"
	AuthTypeAPIKey  AuthType = "apikey"
	AuthTypeGateway AuthType = "gateway"
	AuthTypePublic  AuthType = "public"
)

// ActorType classifies the authenticated caller.
type ActorType string

const (
	ActorTypeUser    ActorType = "user"
	ActorTypeAPI     ActorType = "api"
	ActorTypeGateway ActorType = "gateway"
	ActorTypePublic  ActorType = "public"
)

// Actor is the authenticated identity making the request. It is produced
// fresh per request and never persisted.
type Actor struct {
	Type     ActorType
	ID       string
	Username string
	Email    string
	// Roles carries the role names asserted for user actors.
	Roles []string
	// Scopes carries the permissions granted to API-key and gateway actors.
	Scopes []Permission
}

// IsAPI reports whether the actor authenticated through the API surface
// (API key or gateway-issued token).
func (a *Actor) IsAPI() bool {
	return a.Type == ActorTypeAPI || a.Type == ActorTypeGateway
}

func (a *Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a *Actor) HasScope(p Permission) bool {
	for _, s := range a.Scopes {
		if s == p {
			return true
		}
	}
	return false
}

// PublicActor returns the anonymous actor used for routes with no
// authentication requirement.
func PublicActor() *Actor {
	return &Actor{Type: ActorTypePublic, ID: "anonymous"}
}

// Who is the authentication result: which strategy succeeded and for whom.
type Who struct {
	AuthType AuthType `json:"authType"`
	Actor    *Actor   `json:"actor"`
}

// Permission names a single grantable capability.
type Permission string

const (
	PermFormRead   Permission = "FORM_READ"
	PermFormCreate Permission = "FORM_CREATE"
	PermFormUpdate Permission = "FORM_UPDATE"
	PermFormDelete Permission = "FORM_DELETE"

	PermSubmissionRead   Permission = "SUBMISSION_READ"
	PermSubmissionCreate Permission = "SUBMISSION_CREATE"
	PermSubmissionUpdate Permission = "SUBMISSION_UPDATE"
	PermSubmissionDelete Permission = "SUBMISSION_DELETE"

	PermFileCreate Permission = "FILE_CREATE"
	PermFileRead   Permission = "FILE_READ"
	PermFileDelete Permission = "FILE_DELETE"
)

// Mode selects how a required permission set is matched against the
// granted set.
type Mode string

const (
	// ModeAll requires every listed permission to be granted.
	ModeAll Mode = "all"
	// ModeAny requires at least one listed permission to be granted.
	ModeAny Mode = "any"
)

// Predicate names a reusable authorization rule evaluated during RBAC
// enrichment. Predicates are constants so a typo is a compile error, not a
// silent authorization hole.
type Predicate string

const (
	PredicateResourceOwner Predicate = "RESOURCE_OWNER"
	PredicateRoleGrant     Predicate = "ROLE_GRANT"
	PredicateFormPublic    Predicate = "FORM_PUBLIC"

	PredicateAPIUserFileCreate    Predicate = "API_USER_FILE_CREATE"
	PredicateAPIUserFileAccess    Predicate = "API_USER_FILE_ACCESS"
	PredicateAPIUserFileAPIAccess Predicate = "API_USER_FILE_API_ACCESS"
	PredicateAPIUserDraftRead     Predicate = "API_USER_DRAFT_FILE_READ"
	PredicateAPIUserDraftDelete   Predicate = "API_USER_DRAFT_FILE_DELETE"
	PredicatePublicSubmittedFile  Predicate = "PUBLIC_USER_SUBMITTED_FILE_ACCESS"
)

// Decision is a single recorded predicate evaluation. Decisions form an
// append-only audit trail: every predicate evaluated while computing a
// permission set appears exactly once, in evaluation order, regardless of
// its result.
type Decision struct {
	Predicate Predicate      `json:"predicate"`
	Result    bool           `json:"result"`
	Details   map[string]any `json:"details,omitempty"`
}

// RBACResult is the output of RBAC enrichment.
type RBACResult struct {
	// Permissions is the granted set, unique, order-irrelevant.
	Permissions []Permission `json:"permissions"`
	// Decisions records every predicate evaluated, in evaluation order.
	Decisions []Decision `json:"decisions"`
	// Required carries the matched policy's required permissions so
	// downstream validators can fall back to them when called without an
	// explicit permission list.
	Required []Permission `json:"required,omitempty"`
}

func (r *RBACResult) Has(p Permission) bool {
	for _, g := range r.Permissions {
		if g == p {
			return true
		}
	}
	return false
}

// Decision returns the recorded evaluation for the given predicate, if any.
func (r *RBACResult) Decision(p Predicate) (Decision, bool) {
	for _, d := range r.Decisions {
		if d.Predicate == p {
			return d, true
		}
	}
	return Decision{}, false
}

// DecisionApproved reports whether the named predicate was evaluated and
// came back true.
func (r *RBACResult) DecisionApproved(p Predicate) bool {
	d, ok := r.Decision(p)
	return ok && d.Result
}

// Kind tags the closed set of resource shapes the resolver can produce.
type Kind string

const (
	KindNone       Kind = "none"
	KindForm       Kind = "formOnly"
	KindSubmission Kind = "submissionFromForm"
	KindFile       Kind = "fileFromForm"
)

// ResourceSpec tells the resolver what to load: a kind plus the path
// parameters extracted by the policy match.
type ResourceSpec struct {
	Kind   Kind
	Params map[string]string
}

// Resource describes the target of the request, resolved fresh per request.
// A nil *Resource means the referenced entity does not exist.
type Resource struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
	// PublicForm is true when the owning form is publicly readable.
	PublicForm bool `json:"publicForm"`

	Form       *form.Form             `json:"form,omitempty"`
	Submission *submission.Submission `json:"submission,omitempty"`
	File       *file.File             `json:"file,omitempty"`
}

// OwnerID returns the stable id of whoever created the resource, or ""
// when ownership does not apply.
func (r *Resource) OwnerID() string {
	if r == nil {
		return ""
	}
	switch r.Kind {
	case KindForm:
		if r.Form != nil {
			return r.Form.CreatedBy
		}
	case KindSubmission:
		if r.Submission != nil {
			return r.Submission.CreatedBy
		}
	case KindFile:
		if r.File != nil {
			return r.File.CreatedBy
		}
	}
	return ""
}
