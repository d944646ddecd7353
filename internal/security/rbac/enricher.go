// Package rbac computes the caller's granted permission set against the
// resolved resource and validates required permissions downstream.
package rbac

import (
	"context"

	"forms-service/internal/logging"
	"forms-service/internal/security"
	"forms-service/internal/security/policy"

	"github.com/rs/zerolog"
)

// Enricher evaluates a fixed list of named predicates against
// (actor, resource, classification). Every evaluation is recorded in the
// decision trail, in order, regardless of outcome, so permission checks
// and audit logging see identical evidence.
type Enricher struct {
	grants map[string]map[string][]security.Permission
	log    zerolog.Logger
}

func NewEnricher(cfg Config) (*Enricher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Enricher{
		grants: cfg.RoleGrants,
		log:    logging.Component("rbac_enricher"),
	}, nil
}

// MustNewEnricher panics on an invalid config. For wiring at startup.
func MustNewEnricher(cfg Config) *Enricher {
	e, err := NewEnricher(cfg)
	if err != nil {
		panic(err)
	}
	return e
}

// Enrich computes the RBAC result for the request. The permission set is
// the union of everything implied by predicates that evaluated true.
func (e *Enricher) Enrich(ctx context.Context, who *security.Who, res *security.Resource, matched *policy.Matched) (*security.RBACResult, error) {
	classification := matched.Policy.Classification
	actor := who.Actor

	ev := &evaluation{}

	// RESOURCE_OWNER: a human user acting on something they created.
	owner := res.OwnerID()
	isOwner := actor.Type == security.ActorTypeUser && owner != "" && owner == actor.ID
	ev.record(security.PredicateResourceOwner, isOwner, map[string]any{"owner": owner})
	if isOwner {
		ev.grant(ownerPerms[classification]...)
	}

	// ROLE_GRANT: permissions implied by the user's roles for this
	// route's classification.
	rolePerms := e.rolePermissions(actor, classification)
	ev.record(security.PredicateRoleGrant, len(rolePerms) > 0, map[string]any{"roles": actor.Roles})
	ev.grant(rolePerms...)

	// FORM_PUBLIC: the owning form is publicly readable.
	isPublic := res != nil && res.PublicForm
	ev.record(security.PredicateFormPublic, isPublic, nil)
	if isPublic {
		ev.grant(publicReadPerms[classification]...)
	}

	// API-key and gateway callers take their own authorization path to
	// the file surface; the decisions below are how both paths stay
	// auditable uniformly.
	isAPI := actor.Type == security.ActorTypeAPI
	isGateway := actor.Type == security.ActorTypeGateway
	fileRes := res != nil && res.Kind == security.KindFile
	draft := fileRes && res.File != nil && res.File.IsDraft()

	apiFileCreate := isAPI && classification == ClassificationFiles && actor.HasScope(security.PermFileCreate)
	ev.record(security.PredicateAPIUserFileCreate, apiFileCreate, nil)
	if apiFileCreate {
		ev.grant(security.PermFileCreate)
	}

	apiFileAccess := isAPI && fileRes && actor.HasScope(security.PermFileRead)
	ev.record(security.PredicateAPIUserFileAccess, apiFileAccess, nil)
	if apiFileAccess {
		ev.grant(security.PermFileRead)
	}

	gatewayAccess := isGateway && classification == ClassificationFiles
	ev.record(security.PredicateAPIUserFileAPIAccess, gatewayAccess, map[string]any{"scopes": actor.Scopes})
	if gatewayAccess {
		ev.grant(actor.Scopes...)
	}

	draftRead := isAPI && draft && actor.HasScope(security.PermFileRead)
	ev.record(security.PredicateAPIUserDraftRead, draftRead, nil)
	if draftRead {
		ev.grant(security.PermFileRead)
	}

	draftDelete := isAPI && draft && actor.HasScope(security.PermFileDelete)
	ev.record(security.PredicateAPIUserDraftDelete, draftDelete, nil)
	if draftDelete {
		ev.grant(security.PermFileDelete)
	}

	publicFile := actor.Type == security.ActorTypePublic && fileRes && res.PublicForm && res.File != nil && !res.File.IsDraft()
	ev.record(security.PredicatePublicSubmittedFile, publicFile, nil)
	if publicFile {
		ev.grant(security.PermFileRead)
	}

	return &security.RBACResult{
		Permissions: ev.permissions,
		Decisions:   ev.decisions,
		Required:    matched.Policy.RequiredPermissions,
	}, nil
}

func (e *Enricher) rolePermissions(actor *security.Actor, classification string) []security.Permission {
	if actor.Type != security.ActorTypeUser {
		return nil
	}

	var perms []security.Permission
	for _, role := range actor.Roles {
		byClass, ok := e.grants[role]
		if !ok {
			continue
		}
		perms = append(perms, byClass[classification]...)
	}
	return perms
}

// evaluation accumulates the predicate trail and the deduplicated
// permission union while Enrich walks its fixed predicate list.
type evaluation struct {
	permissions []security.Permission
	decisions   []security.Decision
	seen        map[security.Permission]bool
}

func (ev *evaluation) record(p security.Predicate, result bool, details map[string]any) {
	ev.decisions = append(ev.decisions, security.Decision{
		Predicate: p,
		Result:    result,
		Details:   details,
	})
}

func (ev *evaluation) grant(perms ...security.Permission) {
	if ev.seen == nil {
		ev.seen = map[security.Permission]bool{}
	}
	for _, p := range perms {
		if ev.seen[p] {
			continue
		}
		ev.seen[p] = true
		ev.permissions = append(ev.permissions, p)
	}
}
