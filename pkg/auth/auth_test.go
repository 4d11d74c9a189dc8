package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("SecureAdmin2024!")
	require.NoError(t, err)

	assert.NotEqual(t, "SecureAdmin2024!", hash)
	assert.True(t, CheckPasswordHash("SecureAdmin2024!", hash))
	assert.False(t, CheckPasswordHash("securead min2024!", hash))
	assert.False(t, CheckPasswordHash("SecureAdmin2024!", "not-a-hash"))
}

func TestJWTService_RoundTrip(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	svc := NewJWTService("secret", 24*time.Hour).WithClock(func() time.Time { return now })

	token, issued, err := svc.GenerateToken(SessionClaims{
		SessionID:   "s-1",
		Email:       "admin@company.com",
		Role:        "super_admin",
		Permissions: map[string]map[string]bool{"users": {"view": true}},
	})
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour).Unix(), issued.ExpiresAt.Unix())

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "s-1", claims.SessionID)
	assert.Equal(t, "admin@company.com", claims.Email)
	assert.True(t, claims.Permissions["users"]["view"])
}

func TestJWTService_Rejects(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	svc := NewJWTService("secret", time.Hour).WithClock(func() time.Time { return now })
	token, _, err := svc.GenerateToken(SessionClaims{SessionID: "s-1", Email: "a@b.com"})
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := NewJWTService("secret", time.Hour).WithClock(func() time.Time { return now.Add(2 * time.Hour) })
		claims, err := later.ValidateToken(token)
		assert.True(t, IsExpired(err))
		require.NotNil(t, claims)
		assert.Equal(t, "s-1", claims.SessionID)
	})

	t.Run("expired with wrong secret", func(t *testing.T) {
		other := NewJWTService("other", time.Hour).WithClock(func() time.Time { return now.Add(2 * time.Hour) })
		claims, err := other.ValidateToken(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService("other", time.Hour).WithClock(func() time.Time { return now })
		claims, err := other.ValidateToken(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("malformed", func(t *testing.T) {
		claims, err := svc.ValidateToken("eyJub3Q.a.token")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}
