package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHS256(t *testing.T, expiry time.Duration) *Service {
	t.Helper()
	svc, err := NewService(Config{
		Secret: "test-secret",
		Issuer: "workhub",
		Expiry: expiry,
	})
	require.NoError(t, err)
	return svc
}

func TestIssueAndValidate(t *testing.T) {
	svc := newHS256(t, time.Hour)

	token, err := svc.IssueToken("user-1", "+15551234567", "MASTER")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "+15551234567", claims.Phone)
	assert.Equal(t, "MASTER", claims.Role)
	assert.Equal(t, "workhub", claims.Issuer)
}

func TestValidateStripsBearerPrefix(t *testing.T) {
	svc := newHS256(t, time.Hour)

	token, err := svc.IssueToken("user-1", "", "")
	require.NoError(t, err)

	claims, err := svc.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newHS256(t, -time.Minute)

	token, err := svc.IssueToken("user-1", "", "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestZeroExpiryGetsDefault(t *testing.T) {
	svc := newHS256(t, 0)
	assert.Equal(t, 24*time.Hour, svc.expiry)

	token, err := svc.IssueToken("user-1", "", "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.NoError(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := newHS256(t, time.Hour)
	other, err := NewService(Config{Secret: "different-secret"})
	require.NoError(t, err)

	token, err := issuer.IssueToken("user-1", "", "")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateMissingToken(t *testing.T) {
	svc := newHS256(t, time.Hour)
	_, err := svc.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestValidateWrongIssuer(t *testing.T) {
	foreign, err := NewService(Config{Secret: "test-secret", Issuer: "someone-else"})
	require.NoError(t, err)
	svc := newHS256(t, time.Hour)

	token, err := foreign.IssueToken("user-1", "", "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}
