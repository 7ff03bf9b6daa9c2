package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	tok, err := NewAccessToken(secret, "64f0c88e2f8fb814b56fa181", model.RoleAdmin, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, 5*time.Second)

	parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "64f0c88e2f8fb814b56fa181", claims["sub"])
	assert.Equal(t, "ADMIN", claims["role"])

	role, ok := model.ParseRole(claims["role"].(string))
	require.True(t, ok)
	assert.True(t, role.Can(model.CapManageCatalog))
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
