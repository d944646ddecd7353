package rbac

import (
	"fmt"

	"forms-service/internal/security"
)

// Classifications used by the registered policies. The classification on a
// policy is an audit label; here it additionally selects which permission
// family a predicate grants.
const (
	ClassificationForms       = "forms"
	ClassificationSubmissions = "submissions"
	ClassificationFiles       = "files"
)

// Config declares the role capability table: role -> classification ->
// permissions. It is validated once and compiled into lookups, following
// the write-once model of the policy registry.
type Config struct {
	RoleGrants map[string]map[string][]security.Permission
}

// DefaultConfig returns the built-in role capability table.
func DefaultConfig() Config {
	return Config{
		RoleGrants: map[string]map[string][]security.Permission{
			"admin": {
				ClassificationForms:       {security.PermFormRead, security.PermFormCreate, security.PermFormUpdate, security.PermFormDelete},
				ClassificationSubmissions: {security.PermSubmissionRead, security.PermSubmissionCreate, security.PermSubmissionUpdate, security.PermSubmissionDelete},
				ClassificationFiles:       {security.PermFileCreate, security.PermFileRead, security.PermFileDelete},
			},
			"editor": {
				ClassificationForms:       {security.PermFormRead, security.PermFormCreate, security.PermFormUpdate},
				ClassificationSubmissions: {security.PermSubmissionRead, security.PermSubmissionCreate, security.PermSubmissionUpdate},
				ClassificationFiles:       {security.PermFileCreate, security.PermFileRead},
			},
			"viewer": {
				ClassificationForms:       {security.PermFormRead},
				ClassificationSubmissions: {security.PermSubmissionRead},
				ClassificationFiles:       {security.PermFileRead},
			},
		},
	}
}

// Validate rejects empty grant tables and empty role names.
func (c Config) Validate() error {
	if len(c.RoleGrants) == 0 {
		return fmt.Errorf("rbac config: no role grants defined")
	}
	for role, byClass := range c.RoleGrants {
		if role == "" {
			return fmt.Errorf("rbac config: empty role name")
		}
		if len(byClass) == 0 {
			return fmt.Errorf("rbac config: role %q grants nothing", role)
		}
	}
	return nil
}

// Permission families keyed by classification.

var ownerPerms = map[string][]security.Permission{
	ClassificationForms:       {security.PermFormRead, security.PermFormUpdate, security.PermFormDelete},
	ClassificationSubmissions: {security.PermSubmissionRead, security.PermSubmissionUpdate, security.PermSubmissionDelete},
	ClassificationFiles:       {security.PermFileRead, security.PermFileDelete},
}

var publicReadPerms = map[string][]security.Permission{
	ClassificationForms:       {security.PermFormRead},
	ClassificationSubmissions: {security.PermSubmissionRead, security.PermSubmissionCreate},
	ClassificationFiles:       {security.PermFileRead},
}
