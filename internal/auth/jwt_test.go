package auth_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/hugh/go-tracker/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 15*time.Minute)

	userID := uint(42)
	email := "test@example.com"

	t.Run("generates valid token", func(t *testing.T) {
		token, err := jwtService.GenerateToken(userID, email)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, email, claims.Email)
	})

	t.Run("token contains correct issuer and subject", func(t *testing.T) {
		token, err := jwtService.GenerateToken(userID, email)
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "go-tracker", claims.Issuer)
		assert.Equal(t, strconv.Itoa(int(userID)), claims.Subject)
	})

	t.Run("tokens issued back to back are distinct", func(t *testing.T) {
		first, err := jwtService.GenerateToken(userID, email)
		require.NoError(t, err)
		second, err := jwtService.GenerateToken(userID, email)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestJWTService_ValidateToken(t *testing.T) {
	userID := uint(7)
	email := "test@example.com"

	t.Run("rejects expired token", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", time.Millisecond)

		token, err := jwtService.GenerateToken(userID, email)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = jwtService.ValidateToken(token)
		assert.Equal(t, auth.ErrExpiredToken, err)
	})

	t.Run("rejects tampered token", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", time.Hour)

		token, err := jwtService.GenerateToken(userID, email)
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token + "tampered")
		assert.Equal(t, auth.ErrInvalidToken, err)
	})

	t.Run("access and refresh secrets are not interchangeable", func(t *testing.T) {
		access := auth.NewJWTService("access-secret", time.Hour)
		refresh := auth.NewJWTService("refresh-secret", time.Hour)

		token, err := refresh.GenerateToken(userID, email)
		require.NoError(t, err)

		_, err = access.ValidateToken(token)
		assert.Equal(t, auth.ErrInvalidToken, err)
	})

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "not-a-valid-jwt"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name+" token", func(t *testing.T) {
			jwtService := auth.NewJWTService("test-secret", time.Hour)
			_, err := jwtService.ValidateToken(tt.token)
			assert.Equal(t, auth.ErrInvalidToken, err)
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", hash)

	assert.True(t, auth.CheckPassword("pw", hash))
	assert.False(t, auth.CheckPassword("wrong", hash))
	assert.False(t, auth.CheckPassword("pw", "not-a-hash"))
}
