package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NartechSolution/fatsAiBackend/internal/lib/jwt"
)

func TestGenerateAndParseToken(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", 24*time.Hour)

	token, err := maker.GenerateToken("user-uuid-1", "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-uuid-1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestParseToken_WrongKey(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	other := jwt.NewJWTMaker("other-secret", time.Hour)

	token, err := maker.GenerateToken("user-uuid-1", "user@example.com")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", -time.Minute)

	token, err := maker.GenerateToken("user-uuid-1", "user@example.com")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	_, err := maker.ParseToken("not-a-token")
	assert.Error(t, err)
}
