package authn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret-with-sufficient-length", time.Hour)

	token, err := svc.Generate("u-1", "alice", "alice@example.com", []string{"editor"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, []string{"editor"}, claims.Roles)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	svc := NewJWTService("test-secret-with-sufficient-length", time.Hour)
	other := NewJWTService("a-completely-different-secret-value", time.Hour)

	token, err := svc.Generate("u-1", "alice", "alice@example.com", nil)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret-with-sufficient-length", -time.Minute)

	token, err := svc.Generate("u-1", "alice", "alice@example.com", nil)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret-with-sufficient-length", time.Hour)

	_, err := svc.Verify("not.a.token")
	assert.Error(t, err)
}

func TestVerifyKeyHash(t *testing.T) {
	key := "fs_live_abc123"

	assert.True(t, VerifyKeyHash(key, HashKey(key)))
	assert.True(t, VerifyKeyHash(key, HashKeySecure(key)))
	assert.False(t, VerifyKeyHash("fs_live_other", HashKey(key)))
	assert.False(t, VerifyKeyHash(key, ""))
}

func TestConstantTimeCompareHashes(t *testing.T) {
	assert.True(t, ConstantTimeCompareHashes("abc", "abc"))
	assert.False(t, ConstantTimeCompareHashes("abc", "abd"))
	assert.False(t, ConstantTimeCompareHashes("abc", "abcd"))
}
