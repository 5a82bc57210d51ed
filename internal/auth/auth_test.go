package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := "test-secret"

	tokenString, err := NewAccessToken(42, "admin", secret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "carechat-backend", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestAccessTokenExpired(t *testing.T) {
	tokenString, err := NewAccessToken(1, "user", "secret", -time.Minute)
	require.NoError(t, err)

	claims := &CustomClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	tokenString, err := NewAccessToken(1, "user", "secret", time.Hour)
	require.NoError(t, err)

	claims := &CustomClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
}

func TestContextAccessors(t *testing.T) {
	ctx := context.Background()

	_, ok := GetUserIDFromContext(ctx)
	assert.False(t, ok)
	_, ok = GetRoleFromContext(ctx)
	assert.False(t, ok)

	ctx = context.WithValue(ctx, UserIDKey, int64(7))
	ctx = context.WithValue(ctx, RoleKey, "user")

	userID, ok := GetUserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), userID)

	role, ok := GetRoleFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "user", role)
}
