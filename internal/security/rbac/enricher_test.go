package rbac

import (
	"context"
	"testing"

	"forms-service/internal/domain/file"
	"forms-service/internal/domain/form"
	"forms-service/internal/security"
	"forms-service/internal/security/policy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var predicateOrder = []security.Predicate{
	security.PredicateResourceOwner,
	security.PredicateRoleGrant,
	security.PredicateFormPublic,
	security.PredicateAPIUserFileCreate,
	security.PredicateAPIUserFileAccess,
	security.PredicateAPIUserFileAPIAccess,
	security.PredicateAPIUserDraftRead,
	security.PredicateAPIUserDraftDelete,
	security.PredicatePublicSubmittedFile,
}

func matchedPolicy(classification string, required ...security.Permission) *policy.Matched {
	return &policy.Matched{
		Policy: policy.Policy{
			Classification:      classification,
			RequiredPermissions: required,
		},
	}
}

func userWho(id string, roles ...string) *security.Who {
	return &security.Who{
		AuthType: security.AuthTypeUser,
		Actor:    &security.Actor{Type: security.ActorTypeUser, ID: id, Roles: roles},
	}
}

func apiWho(scopes ...security.Permission) *security.Who {
	return &security.Who{
		AuthType: security.AuthTypeAPIKey,
		Actor:    &security.Actor{Type: security.ActorTypeAPI, ID: "key-1", Scopes: scopes},
	}
}

func publicWho() *security.Who {
	return &security.Who{AuthType: security.AuthTypePublic, Actor: security.PublicActor()}
}

func formResource(createdBy string, public bool) *security.Resource {
	f := &form.Form{ID: uuid.New(), Public: public, CreatedBy: createdBy}
	return &security.Resource{
		Kind:       security.KindForm,
		ID:         f.ID.String(),
		PublicForm: public,
		Form:       f,
	}
}

func fileResource(createdBy string, publicForm, draft bool) *security.Resource {
	fl := &file.File{ID: uuid.New(), CreatedBy: createdBy}
	if !draft {
		subID := uuid.New()
		fl.SubmissionID = &subID
	}
	return &security.Resource{
		Kind:       security.KindFile,
		ID:         fl.ID.String(),
		PublicForm: publicForm,
		File:       fl,
	}
}

func TestEnrich_DecisionTrailIsComplete(t *testing.T) {
	e := MustNewEnricher(DefaultConfig())

	result, err := e.Enrich(context.Background(), publicWho(), nil, matchedPolicy(ClassificationForms))
	require.NoError(t, err)

	require.Len(t, result.Decisions, len(predicateOrder))
	for i, d := range result.Decisions {
		assert.Equal(t, predicateOrder[i], d.Predicate)
	}
}

func TestEnrich_ResourceOwnerGrants(t *testing.T) {
	e := MustNewEnricher(DefaultConfig())
	who := userWho("u-1")
	res := formResource("u-1", false)

	result, err := e.Enrich(context.Background(), who, res, matchedPolicy(ClassificationForms))
	require.NoError(t, err)

	d, ok := result.Decision(security.PredicateResourceOwner)
	require.True(t, ok)
	assert.True(t, d.Result)
	assert.Equal(t, "u-1", d.Details["owner"])
	assert.Equal(t,
		[]security.Permission{security.PermFormRead, security.PermFormUpdate, security.PermFormDelete},
		result.Permissions)
}

func TestEnrich_NonOwnerGetsNothingFromOwnership(t *testing.T) {
	e := MustNewEnricher(DefaultConfig())

	result, err := e.Enrich(context.Background(), userWho("u-2"), formResource("u-1", false), matchedPolicy(ClassificationForms))
	require.NoError(t, err)

	d, ok := result.Decision(security.PredicateResourceOwner)
	require.True(t, ok)
	assert.False(t, d.Result)
	assert.Empty(t, result.Permissions)
}

func TestEnrich_RoleGrantUnion(t *testing.T) {
	e := MustNewEnricher(DefaultConfig())
	who := userWho("u-1", "viewer", "editor")

	result, err := e.Enrich(context.Background(), who, nil, matchedPolicy(ClassificationForms))
	require.NoError(t, err)

	d, ok := result.Decision(security.PredicateRoleGrant)
	require.True(t, ok)
	assert.True(t, d.Result)
	assert.Equal(t, []string{"viewer", "editor"}, d.Details["roles"])

	assert.True(t, result.Has(security.PermFormRead))
	assert.True(t, result.Has(security.PermFormCreate))
	assert.True(t, result.Has(security.PermFormUpdate))
	assert.False(t, result.Has(security.PermFormDelete))
}

func TestEnrich_PermissionsAreDeduplicated(t *testing.T) {
	e := MustNewEnricher(DefaultConfig())
	// Owner grants and admin role grants overlap on the forms family.
	who := userWho("u-1", "admin")
	res := formResource("u-1", false)

	result, err := e.Enrich(context.Background(), who, res, matchedPolicy(ClassificationForms))
	require.NoError(t, err)

	counts := map[security.Permission]int{}
	for _, p := range result.Permissions {
		counts[p]++
	}
	for p, n := range counts {
		assert.Equal(t, 1, n, "permission %s granted more than once", p)
	}
}

func TestEnrich_PublicFormGrantsByClassification(t *testing.T) {
	e := MustNewEnricher(DefaultConfig())

	result, err := e.Enrich(context.Background(), publicWho(), formResource("u-1", true), matchedPolicy(ClassificationForms))
	require.NoError(t, err)
	assert.True(t, result.DecisionApproved(security.PredicateFormPublic))
	assert.Equal(t, []security.Permission{security.PermFormRead}, result.Permissions)

	result, err = e.Enrich(context.Background(), publicWho(), formResource("u-1", true), matchedPolicy(ClassificationSubmissions))
	require.NoError(t, err)
	assert.True(t, result.Has(security.PermSubmissionRead))
	assert.True(t, result.Has(security.PermSubmissionCreate))
}

func TestEnrich_APIFileCreateScope(t *testing.T) {
	e := MustNewEnricher(DefaultConfig())

	result, err := e.Enrich(context.Background(), apiWho(security.PermFileCreate), nil, matchedPolicy(ClassificationFiles))
	require.NoError(t, err)
	assert.True(t, result.DecisionApproved(security.PredicateAPIUserFileCreate))
	assert.True(t, result.Has(security.PermFileCreate))

	// Same actor outside the files classification.
	result, err = e.Enrich(context.Background(), apiWho(security.PermFileCreate), nil, matchedPolicy(ClassificationForms))
	require.NoError(t, err)
	assert.False(t, result.DecisionApproved(security.PredicateAPIUserFileCreate))
}

func TestEnrich_APIFileAccessScope(t *testing.T) {
	e := MustNewEnricher(DefaultConfig())
	res := fileResource("u-1", false, false)

	result, err := e.Enrich(context.Background(), apiWho(security.PermFileRead), res, matchedPolicy(ClassificationFiles))
	require.NoError(t, err)
	assert.True(t, result.DecisionApproved(security.PredicateAPIUserFileAccess))
	assert.True(t, result.Has(security.PermFileRead))
}

func TestEnrich_GatewayGrantsItsScopes(t *testing.T) {
	e := MustNewEnricher(DefaultConfig())
	who := &security.Who{
		AuthType: security.AuthTypeGateway,
		Actor: &security.Actor{
			Type:   security.ActorTypeGateway,
			ID:     "gw-1",
			Scopes: []security.Permission{security.PermFileRead, security.PermFileDelete},
		},
	}

	result, err := e.Enrich(context.Background(), who, nil, matchedPolicy(ClassificationFiles))
	require.NoError(t, err)

	d, ok := result.Decision(security.PredicateAPIUserFileAPIAccess)
	require.True(t, ok)
	assert.True(t, d.Result)
	assert.True(t, result.Has(security.PermFileRead))
	assert.True(t, result.Has(security.PermFileDelete))
}

func TestEnrich_DraftFilePredicates(t *testing.T) {
	e := MustNewEnricher(DefaultConfig())
	draft := fileResource("u-1", false, true)

	result, err := e.Enrich(context.Background(), apiWho(security.PermFileRead, security.PermFileDelete), draft, matchedPolicy(ClassificationFiles))
	require.NoError(t, err)
	assert.True(t, result.DecisionApproved(security.PredicateAPIUserDraftRead))
	assert.True(t, result.DecisionApproved(security.PredicateAPIUserDraftDelete))

	submitted := fileResource("u-1", false, false)
	result, err = e.Enrich(context.Background(), apiWho(security.PermFileRead, security.PermFileDelete), submitted, matchedPolicy(ClassificationFiles))
	require.NoError(t, err)
	assert.False(t, result.DecisionApproved(security.PredicateAPIUserDraftRead))
	assert.False(t, result.DecisionApproved(security.PredicateAPIUserDraftDelete))
}

func TestEnrich_PublicSubmittedFileAccess(t *testing.T) {
	e := MustNewEnricher(DefaultConfig())

	submitted := fileResource("u-1", true, false)
	result, err := e.Enrich(context.Background(), publicWho(), submitted, matchedPolicy(ClassificationFiles))
	require.NoError(t, err)
	assert.True(t, result.DecisionApproved(security.PredicatePublicSubmittedFile))
	assert.True(t, result.Has(security.PermFileRead))

	draft := fileResource("u-1", true, true)
	result, err = e.Enrich(context.Background(), publicWho(), draft, matchedPolicy(ClassificationFiles))
	require.NoError(t, err)
	assert.False(t, result.DecisionApproved(security.PredicatePublicSubmittedFile))
	assert.Empty(t, result.Permissions)
}

func TestEnrich_RequiredEchoesPolicy(t *testing.T) {
	e := MustNewEnricher(DefaultConfig())

	result, err := e.Enrich(context.Background(), publicWho(), nil,
		matchedPolicy(ClassificationForms, security.PermFormRead, security.PermFormUpdate))
	require.NoError(t, err)
	assert.Equal(t,
		[]security.Permission{security.PermFormRead, security.PermFormUpdate},
		result.Required)
}

func TestNewEnricher_RejectsEmptyConfig(t *testing.T) {
	_, err := NewEnricher(Config{})
	assert.Error(t, err)
}
