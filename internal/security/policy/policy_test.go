package policy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"forms-service/internal/security"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractParams(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    map[string]string
	}{
		{
			name:    "two params",
			pattern: "/forms/:formId/submissions/:submissionId",
			path:    "/forms/123/submissions/456",
			want:    map[string]string{"formId": "123", "submissionId": "456"},
		},
		{
			name:    "exact literal match yields empty non-nil map",
			pattern: "/health",
			path:    "/health",
			want:    map[string]string{},
		},
		{
			name:    "segment count mismatch",
			pattern: "/forms/:formId",
			path:    "/forms/123/submissions",
			want:    nil,
		},
		{
			name:    "literal segment mismatch",
			pattern: "/forms/:formId/submissions",
			path:    "/forms/123/files",
			want:    nil,
		},
		{
			name:    "percent-encoded value is decoded",
			pattern: "/forms/:formId",
			path:    "/forms/a%2Fb",
			want:    map[string]string{"formId": "a/b"},
		},
		{
			name:    "plus decodes to space",
			pattern: "/forms/:formId",
			path:    "/forms/my+form",
			want:    map[string]string{"formId": "my form"},
		},
		{
			name:    "undecodable segment passes through raw",
			pattern: "/forms/:formId",
			path:    "/forms/bad%zz",
			want:    map[string]string{"formId": "bad%zz"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractParams(tt.pattern, tt.path)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistryMatch_FirstMatchWins(t *testing.T) {
	registry := NewRegistry(
		Policy{Method: "GET", Pattern: "/forms/:formId", Classification: "first"},
		Policy{Method: "GET", Pattern: "/forms/:other", Classification: "second"},
	)

	matched := registry.Match("GET", "/forms/abc")
	require.NotNil(t, matched)
	assert.Equal(t, "first", matched.Policy.Classification)
	assert.Equal(t, map[string]string{"formId": "abc"}, matched.Params)
}

func TestRegistryMatch_Deterministic(t *testing.T) {
	registry := NewRegistry(
		Policy{Method: "GET", Pattern: "/forms/:formId"},
	)

	first := registry.Match("GET", "/forms/123")
	second := registry.Match("GET", "/forms/123")
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.Policy, second.Policy)
	assert.Equal(t, first.Params, second.Params)
}

func TestRegistryMatch_MethodMustMatch(t *testing.T) {
	registry := NewRegistry(
		Policy{Method: "GET", Pattern: "/forms"},
	)

	assert.Nil(t, registry.Match("POST", "/forms"))
	assert.Nil(t, registry.Match("GET", "/submissions"))
}

func TestRegistryMatch_AppliesDefaults(t *testing.T) {
	registry := NewRegistry(Policy{Method: "GET", Pattern: "/forms"})

	matched := registry.Match("GET", "/forms")
	require.NotNil(t, matched)
	assert.NotNil(t, matched.Policy.AllowedAuth)
	assert.Empty(t, matched.Policy.AllowedAuth)
	assert.NotNil(t, matched.Policy.RequiredPermissions)
	assert.Equal(t, security.KindNone, matched.Policy.Resource.Kind)
}

func TestMatchedSpec_StaticSpecCarriesParams(t *testing.T) {
	registry := NewRegistry(Policy{
		Method:   "GET",
		Pattern:  "/forms/:formId",
		Resource: security.ResourceSpec{Kind: security.KindForm},
	})

	matched := registry.Match("GET", "/forms/f-1")
	require.NotNil(t, matched)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/forms/f-1", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	spec := matched.Spec(c)
	assert.Equal(t, security.KindForm, spec.Kind)
	assert.Equal(t, "f-1", spec.Params["formId"])
}

func TestMatchedSpec_ResourceFuncOverrides(t *testing.T) {
	registry := NewRegistry(Policy{
		Method:   "GET",
		Pattern:  "/forms/:formId",
		Resource: security.ResourceSpec{Kind: security.KindForm},
		ResourceFunc: func(c echo.Context, params map[string]string) security.ResourceSpec {
			return security.ResourceSpec{Kind: security.KindNone, Params: params}
		},
	})

	matched := registry.Match("GET", "/forms/f-1")
	require.NotNil(t, matched)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/forms/f-1", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	spec := matched.Spec(c)
	assert.Equal(t, security.KindNone, spec.Kind)
	assert.Equal(t, "f-1", spec.Params["formId"])
}
