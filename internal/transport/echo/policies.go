package echo

import (
	"forms-service/internal/security"
	"forms-service/internal/security/policy"
)

// Route classifications group routes for role grants and audit.
const (
	classAuth        = "auth"
	classHealth      = "health"
	classForms       = "forms"
	classSubmissions = "submissions"
	classFiles       = "files"
)

// Policies is the declarative access table for every route the transport
// serves. The pipeline matches requests against it in order; a request
// that matches no entry is rejected outright, so adding a route without
// adding a policy fails closed.
func Policies() *policy.Registry {
	userOnly := []security.AuthType{security.AuthTypeUser}
	userOrPublic := []security.AuthType{security.AuthTypeUser, security.AuthTypePublic}
	anyCaller := []security.AuthType{
		security.AuthTypeUser,
		security.AuthTypeAPIKey,
		security.AuthTypeGateway,
		security.AuthTypePublic,
	}
	apiOrUser := []security.AuthType{
		security.AuthTypeUser,
		security.AuthTypeAPIKey,
		security.AuthTypeGateway,
	}

	return policy.NewRegistry(
		policy.Policy{
			Method:         "GET",
			Pattern:        "/health",
			Classification: classHealth,
		},
		policy.Policy{
			Method:         "POST",
			Pattern:        "/auth/login",
			Classification: classAuth,
		},
		policy.Policy{
			Method:         "GET",
			Pattern:        "/metrics/requests",
			AllowedAuth:    userOnly,
			Classification: classHealth,
		},
		policy.Policy{
			Method:              "GET",
			Pattern:             "/forms",
			AllowedAuth:         userOnly,
			RequiredPermissions: []security.Permission{security.PermFormRead},
			Classification:      classForms,
		},
		policy.Policy{
			Method:              "GET",
			Pattern:             "/forms/:formId",
			AllowedAuth:         userOrPublic,
			RequiredPermissions: []security.Permission{security.PermFormRead},
			Classification:      classForms,
			Resource:            security.ResourceSpec{Kind: security.KindForm},
		},

		policy.Policy{
			Method:              "GET",
			Pattern:             "/forms/:formId/submissions",
			AllowedAuth:         userOnly,
			RequiredPermissions: []security.Permission{security.PermSubmissionRead},
			Classification:      classSubmissions,
			Resource:            security.ResourceSpec{Kind: security.KindForm},
		},
		policy.Policy{
			Method:              "POST",
			Pattern:             "/forms/:formId/submissions",
			AllowedAuth:         userOrPublic,
			RequiredPermissions: []security.Permission{security.PermSubmissionCreate},
			Classification:      classSubmissions,
			Resource:            security.ResourceSpec{Kind: security.KindForm},
		},
		policy.Policy{
			Method:              "GET",
			Pattern:             "/forms/:formId/submissions/:submissionId",
			AllowedAuth:         userOnly,
			RequiredPermissions: []security.Permission{security.PermSubmissionRead},
			Classification:      classSubmissions,
			Resource:            security.ResourceSpec{Kind: security.KindSubmission},
		},

		// File routes leave RequiredPermissions empty: the file validators
		// express rules (uploader ownership, draft overrides) the flat
		// permission list cannot.
		policy.Policy{
			Method:         "POST",
			Pattern:        "/forms/:formId/files",
			AllowedAuth:    apiOrUser,
			Classification: classFiles,
			Resource:       security.ResourceSpec{Kind: security.KindForm},
		},
		policy.Policy{
			Method:         "GET",
			Pattern:        "/forms/:formId/files/:fileId",
			AllowedAuth:    anyCaller,
			Classification: classFiles,
			Resource:       security.ResourceSpec{Kind: security.KindFile},
		},
		policy.Policy{
			Method:         "GET",
			Pattern:        "/forms/:formId/files/:fileId/download-url",
			AllowedAuth:    anyCaller,
			Classification: classFiles,
			Resource:       security.ResourceSpec{Kind: security.KindFile},
		},
		policy.Policy{
			Method:         "DELETE",
			Pattern:        "/forms/:formId/files/:fileId",
			AllowedAuth:    apiOrUser,
			Classification: classFiles,
			Resource:       security.ResourceSpec{Kind: security.KindFile},
		},
	)
}
