package rbac

import (
	"net/http"
	"testing"

	"forms-service/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileContext(who *security.Who, res *security.Resource, rbac *security.RBACResult) *security.SecurityContext {
	return &security.SecurityContext{
		CorrelationID: "corr-1",
		Who:           who,
		Resource:      res,
		RBAC:          rbac,
	}
}

func TestHasFileCreate_APIDecisionBypasses(t *testing.T) {
	sc := fileContext(
		apiWho(security.PermFileCreate),
		nil,
		&security.RBACResult{
			Decisions: []security.Decision{
				{Predicate: security.PredicateAPIUserFileCreate, Result: true},
			},
		},
	)

	err := invokeMiddleware(t, HasFileCreate(), http.MethodPost, sc)
	assert.NoError(t, err)
}

func TestHasFileCreate_UserNeedsFileCreatePermission(t *testing.T) {
	granted := fileContext(
		userWho("u-1", "editor"),
		nil,
		&security.RBACResult{Permissions: []security.Permission{security.PermFileCreate}},
	)
	assert.NoError(t, invokeMiddleware(t, HasFileCreate(), http.MethodPost, granted))

	denied := fileContext(
		userWho("u-1"),
		nil,
		&security.RBACResult{
			Decisions: []security.Decision{
				{Predicate: security.PredicateAPIUserFileCreate, Result: false},
			},
		},
	)
	err := invokeMiddleware(t, HasFileCreate(), http.MethodPost, denied)
	require.Error(t, err)

	secErr, ok := security.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, secErr.Status)
	assert.Equal(t, "missing permissions", secErr.Detail)
	assert.Equal(t, []security.Permission{security.PermFileCreate}, secErr.Required)
}

func TestHasFileCreate_MissingContextIs500(t *testing.T) {
	err := invokeMiddleware(t, HasFileCreate(), http.MethodPost, nil)
	require.Error(t, err)

	secErr, ok := security.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, secErr.Status)
}

func TestHasFilePermissions_MissingFileIs404(t *testing.T) {
	sc := fileContext(userWho("u-1"), nil, &security.RBACResult{})

	err := invokeMiddleware(t, HasFilePermissions(security.PermFileRead), http.MethodGet, sc)
	require.Error(t, err)

	secErr, ok := security.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, secErr.Status)
	assert.Equal(t, "file not found", secErr.Detail)
}

func TestHasFilePermissions_UploaderPasses(t *testing.T) {
	res := fileResource("u-1", false, false)
	sc := fileContext(userWho("u-1"), res, &security.RBACResult{})

	err := invokeMiddleware(t, HasFilePermissions(security.PermFileRead), http.MethodGet, sc)
	assert.NoError(t, err)
}

func TestHasFilePermissions_PublicFormPassesAnonymousNonUploader(t *testing.T) {
	res := fileResource("u-1", true, false)
	sc := fileContext(publicWho(), res, &security.RBACResult{})

	err := invokeMiddleware(t, HasFilePermissions(security.PermFileRead), http.MethodGet, sc)
	assert.NoError(t, err)
}

func TestHasFilePermissions_APIAccessDecisionBypasses(t *testing.T) {
	res := fileResource("u-1", false, false)
	sc := fileContext(
		apiWho(security.PermFileRead),
		res,
		&security.RBACResult{
			Decisions: []security.Decision{
				{Predicate: security.PredicateAPIUserFileAccess, Result: true},
			},
		},
	)

	err := invokeMiddleware(t, HasFilePermissions(security.PermFileRead), http.MethodGet, sc)
	assert.NoError(t, err)
}

func TestHasFilePermissions_DraftOverrideIsMethodMatched(t *testing.T) {
	res := fileResource("u-1", false, true)
	rbacResult := &security.RBACResult{
		Decisions: []security.Decision{
			{Predicate: security.PredicateAPIUserDraftRead, Result: true},
			{Predicate: security.PredicateAPIUserDraftDelete, Result: false},
		},
	}
	// Avoid the IsAPI bypass so the draft override itself is exercised.
	who := userWho("u-2")

	sc := fileContext(who, res, rbacResult)
	assert.NoError(t, invokeMiddleware(t, HasFilePermissions(security.PermFileRead), http.MethodGet, sc))

	sc = fileContext(who, res, rbacResult)
	err := invokeMiddleware(t, HasFilePermissions(security.PermFileDelete), http.MethodDelete, sc)
	require.Error(t, err)
}

func TestHasFilePermissions_GrantedSetFallback(t *testing.T) {
	res := fileResource("u-1", false, false)
	sc := fileContext(
		userWho("u-2", "admin"),
		res,
		&security.RBACResult{Permissions: []security.Permission{security.PermFileRead, security.PermFileDelete}},
	)

	err := invokeMiddleware(t, HasFilePermissions(security.PermFileDelete), http.MethodDelete, sc)
	assert.NoError(t, err)
}

func TestHasFilePermissions_DraftDenialNamesUploaderRule(t *testing.T) {
	res := fileResource("u-1", false, true)
	rbacResult := &security.RBACResult{
		Decisions: []security.Decision{
			{Predicate: security.PredicateResourceOwner, Result: false},
			{Predicate: security.PredicateAPIUserDraftRead, Result: false},
		},
	}
	sc := fileContext(userWho("u-2"), res, rbacResult)

	err := invokeMiddleware(t, HasFilePermissions(security.PermFileRead), http.MethodGet, sc)
	require.Error(t, err)

	secErr, ok := security.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, secErr.Status)
	assert.Equal(t, "unauthorized file uploader", secErr.Detail)
	assert.Equal(t, rbacResult.Decisions, secErr.Decisions)
}

func TestHasFilePermissions_SubmittedFileDenialCarriesEvidence(t *testing.T) {
	res := fileResource("u-1", false, false)
	rbacResult := &security.RBACResult{
		Permissions: []security.Permission{security.PermFileRead},
		Decisions: []security.Decision{
			{Predicate: security.PredicateResourceOwner, Result: false},
			{Predicate: security.PredicatePublicSubmittedFile, Result: false},
		},
	}
	sc := fileContext(userWho("u-2"), res, rbacResult)

	err := invokeMiddleware(t, HasFilePermissions(security.PermFileDelete), http.MethodDelete, sc)
	require.Error(t, err)

	secErr, ok := security.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, secErr.Status)
	assert.Equal(t, "missing permissions", secErr.Detail)
	assert.Equal(t, []security.Permission{security.PermFileDelete}, secErr.Required)
	assert.Equal(t, []security.Permission{security.PermFileRead}, secErr.Granted)
	assert.Equal(t, []security.Permission{security.PermFileDelete}, secErr.Missing)
	assert.Equal(t, security.ModeAll, secErr.Mode)
	assert.Equal(t, rbacResult.Decisions, secErr.Decisions)
}
