package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateJWT(t *testing.T) {
	tokenString, err := GenerateJWT(42, "officer", testSecret, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := ValidateJWT(tokenString, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "officer", claims.Role)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestGenerateRefreshToken(t *testing.T) {
	tokenString, err := GenerateRefreshToken(42, testSecret, 7)
	require.NoError(t, err)

	claims, err := ValidateJWT(tokenString, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Empty(t, claims.Role)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateJWTRejections(t *testing.T) {
	t.Run("empty token", func(t *testing.T) {
		_, err := ValidateJWT("", testSecret)
		assert.Error(t, err)
	})

	t.Run("empty secret", func(t *testing.T) {
		tokenString, err := GenerateJWT(42, "member", testSecret, 60)
		require.NoError(t, err)

		_, err = ValidateJWT(tokenString, "")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tokenString, err := GenerateJWT(42, "member", testSecret, 60)
		require.NoError(t, err)

		_, err = ValidateJWT(tokenString, "another-secret")
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		tokenString, err := GenerateJWT(42, "member", testSecret, -1)
		require.NoError(t, err)

		_, err = ValidateJWT(tokenString, testSecret)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("zero user id", func(t *testing.T) {
		tokenString, err := GenerateJWT(0, "member", testSecret, 60)
		require.NoError(t, err)

		_, err = ValidateJWT(tokenString, testSecret)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "user_id")
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 42})
		tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ValidateJWT(tokenString, testSecret)
		assert.Error(t, err)
	})
}
