package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-must-be-32-chars!"

func TestNewJWTService(t *testing.T) {
	_, err := NewJWTService(JWTConfig{Secret: ""})
	assert.ErrorIs(t, err, ErrInvalidSecretLength)

	_, err = NewJWTService(JWTConfig{Secret: "short"})
	assert.ErrorIs(t, err, ErrInvalidSecretLength)

	svc, err := NewJWTService(JWTConfig{Secret: testSecret})
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, svc.TokenDuration())
}

func TestGenerateAndValidate(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: testSecret, TokenDuration: time.Hour})
	require.NoError(t, err)

	tok, err := svc.GenerateToken("alice", ScopeWrite)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, int64(3600), tok.ExpiresIn)

	claims, err := svc.ValidateToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "dsomm", claims.Issuer)
	assert.True(t, claims.Allows(ScopeWrite))
	assert.True(t, claims.Allows(ScopeRead))

	readOnly, err := svc.GenerateToken("bob")
	require.NoError(t, err)
	claims, err = svc.ValidateToken(readOnly.AccessToken)
	require.NoError(t, err)
	assert.False(t, claims.Allows(ScopeWrite))
}

func TestValidateRejectsForeignTokens(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: testSecret})
	require.NoError(t, err)

	other, err := NewJWTService(JWTConfig{Secret: "another-secret-key-that-is-32-chars"})
	require.NoError(t, err)
	tok, err := other.GenerateToken("mallory", ScopeWrite)
	require.NoError(t, err)

	_, err = svc.ValidateToken(tok.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: testSecret, TokenDuration: time.Minute})
	require.NoError(t, err)

	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }
	tok, err := svc.GenerateToken("alice", ScopeWrite)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(tok.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
