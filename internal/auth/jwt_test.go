package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.IssueLogin("CUS7", "nimal@example.com")
	require.NoError(t, err)

	userID, err := svc.UserID(token)
	require.NoError(t, err)
	assert.Equal(t, "CUS7", userID)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "nimal@example.com", claims["email"])
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").IssueLogin("CUS7", "nimal@example.com")
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret")
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(token)
		assert.Error(t, err, "token %q", token)
	}
}

func TestEmailTokenCarriesClaims(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.IssueEmail(map[string]interface{}{"email": "reset@example.com"})
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "reset@example.com", claims["email"])

	_, err = svc.UserID(token)
	assert.Error(t, err, "email tokens carry no userID")
}
