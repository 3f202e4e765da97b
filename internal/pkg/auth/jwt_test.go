package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursescope/internal/pkg/apperrors"
)

func newTestService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "coursescope.test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService(time.Hour)

	token, err := svc.GenerateAccessToken(42, "terp")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "terp", claims.Username)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newTestService(-time.Minute)

	token, err := svc.GenerateAccessToken(1, "terp")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, apperrors.ErrTokenExpired))
}

func TestValidateTokenWrongSecretOrIssuer(t *testing.T) {
	token, err := newTestService(time.Hour).GenerateAccessToken(1, "terp")
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "coursescope.test"})
	_, err = other.ValidateToken(token)
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))

	otherIssuer := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "elsewhere"})
	_, err = otherIssuer.ValidateToken(token)
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))

	_, err = other.ValidateToken("")
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", token)

	token, err = ExtractBearerToken("a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", token)

	_, err = ExtractBearerToken("")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFormat))

	_, err = ExtractBearerToken("Bearer ")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFormat))

	_, err = ExtractBearerToken("Basic dXNlcjpwYXNz")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFormat))
}
