package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"forms-service/internal/security"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPermissions_ModeAll(t *testing.T) {
	read := security.PermFormRead
	update := security.PermFormUpdate

	missing, ok := CheckPermissions(nil, nil, security.ModeAll)
	assert.True(t, ok)
	assert.Empty(t, missing)

	missing, ok = CheckPermissions([]security.Permission{read}, []security.Permission{read, update}, security.ModeAll)
	assert.True(t, ok)
	assert.Empty(t, missing)

	missing, ok = CheckPermissions([]security.Permission{read, update}, []security.Permission{read}, security.ModeAll)
	assert.False(t, ok)
	assert.Equal(t, []security.Permission{update}, missing)
}

func TestCheckPermissions_ModeAny(t *testing.T) {
	read := security.PermFormRead
	update := security.PermFormUpdate
	del := security.PermFormDelete

	missing, ok := CheckPermissions(nil, nil, security.ModeAny)
	assert.True(t, ok)
	assert.Empty(t, missing)

	_, ok = CheckPermissions([]security.Permission{read, update}, []security.Permission{update}, security.ModeAny)
	assert.True(t, ok)

	missing, ok = CheckPermissions([]security.Permission{read, update}, []security.Permission{del}, security.ModeAny)
	assert.False(t, ok)
	assert.Equal(t, []security.Permission{read, update}, missing)
}

func invokeMiddleware(t *testing.T, mw echo.MiddlewareFunc, method string, sc *security.SecurityContext) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if sc != nil {
		security.Attach(c, sc)
	}

	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return handler(c)
}

func permittedContext(granted []security.Permission, required []security.Permission) *security.SecurityContext {
	return &security.SecurityContext{
		CorrelationID: "corr-1",
		Who: &security.Who{
			AuthType: security.AuthTypeUser,
			Actor:    &security.Actor{Type: security.ActorTypeUser, ID: "u-1"},
		},
		RBAC: &security.RBACResult{
			Permissions: granted,
			Required:    required,
			Decisions: []security.Decision{
				{Predicate: security.PredicateResourceOwner, Result: false},
			},
		},
	}
}

func TestRequirePermissions_MissingContextIs500(t *testing.T) {
	err := invokeMiddleware(t, RequirePermissions(security.PermFormRead), http.MethodGet, nil)
	require.Error(t, err)

	secErr, ok := security.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, secErr.Status)
}

func TestRequirePermissions_MissingRBACIs500(t *testing.T) {
	sc := permittedContext(nil, nil)
	sc.RBAC = nil

	err := invokeMiddleware(t, RequirePermissions(security.PermFormRead), http.MethodGet, sc)
	require.Error(t, err)

	secErr, ok := security.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, secErr.Status)
}

func TestRequirePermissions_GrantedPasses(t *testing.T) {
	sc := permittedContext([]security.Permission{security.PermFormRead}, nil)

	err := invokeMiddleware(t, RequirePermissions(security.PermFormRead), http.MethodGet, sc)
	assert.NoError(t, err)
}

func TestRequirePermissions_DenialCarriesEvidence(t *testing.T) {
	sc := permittedContext([]security.Permission{security.PermFormRead}, nil)

	err := invokeMiddleware(t, RequirePermissions(security.PermFormRead, security.PermFormDelete), http.MethodGet, sc)
	require.Error(t, err)

	secErr, ok := security.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, secErr.Status)
	assert.Equal(t, "missing permissions", secErr.Detail)
	assert.Equal(t, []security.Permission{security.PermFormRead, security.PermFormDelete}, secErr.Required)
	assert.Equal(t, []security.Permission{security.PermFormRead}, secErr.Granted)
	assert.Equal(t, []security.Permission{security.PermFormDelete}, secErr.Missing)
	assert.Equal(t, security.ModeAll, secErr.Mode)
	assert.Equal(t, sc.RBAC.Decisions, secErr.Decisions)
}

func TestRequirePermissions_FallsBackToPolicyRequired(t *testing.T) {
	sc := permittedContext(nil, []security.Permission{security.PermFormDelete})

	err := invokeMiddleware(t, RequirePermissions(), http.MethodGet, sc)
	require.Error(t, err)

	secErr, ok := security.AsError(err)
	require.True(t, ok)
	assert.Equal(t, []security.Permission{security.PermFormDelete}, secErr.Required)
}

func TestRequireAnyPermission(t *testing.T) {
	sc := permittedContext([]security.Permission{security.PermFormUpdate}, nil)

	err := invokeMiddleware(t, RequireAnyPermission(security.PermFormRead, security.PermFormUpdate), http.MethodGet, sc)
	assert.NoError(t, err)

	err = invokeMiddleware(t, RequireAnyPermission(security.PermFormRead, security.PermFormDelete), http.MethodGet, sc)
	require.Error(t, err)
	secErr, ok := security.AsError(err)
	require.True(t, ok)
	assert.Equal(t, security.ModeAny, secErr.Mode)
}
