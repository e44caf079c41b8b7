package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	m := NewManager("test-secret", 15*time.Minute, 72*time.Hour)

	access, err := m.IssueAccess("42")
	require.NoError(t, err)
	refresh, err := m.IssueRefresh("42")
	require.NoError(t, err)

	assert.NotEqual(t, access, refresh)

	claims, err := m.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, TypeAccess, claims.Type)
	assert.NotEmpty(t, claims.ID)

	claims, err = m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, TypeRefresh, claims.Type)
}

func TestTwoAccessTokensDiffer(t *testing.T) {
	m := NewManager("test-secret", time.Minute, time.Hour)

	a, err := m.IssueAccess("1")
	require.NoError(t, err)
	b, err := m.IssueAccess("1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestValidateRejectsWrongType(t *testing.T) {
	m := NewManager("test-secret", time.Minute, time.Hour)

	refresh, err := m.IssueRefresh("7")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)

	access, err := m.IssueAccess("7")
	require.NoError(t, err)

	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Minute, time.Hour)
	verifier := NewManager("secret-b", time.Minute, time.Hour)

	token, err := issuer.IssueAccess("7")
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", time.Minute, time.Hour)
	issuedAt := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issuedAt }

	token, err := m.IssueAccess("7")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestIssueRequiresSubject(t *testing.T) {
	m := NewManager("test-secret", time.Minute, time.Hour)

	_, err := m.IssueAccess("")
	assert.Error(t, err)
}
