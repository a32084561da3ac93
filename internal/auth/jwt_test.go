package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/internal/clock"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("secret", nil)

	token, err := tokens.GenerateToken("auth")
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "auth", claims.Username)
	assert.Equal(t, "auth", claims.Subject)
}

func TestTokens_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokens("one", nil).GenerateToken("auth")
	require.NoError(t, err)

	_, err = NewTokens("two", nil).ValidateToken(token)
	assert.Error(t, err)
}

func TestTokens_Expiry(t *testing.T) {
	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	tokens := NewTokens("secret", c)

	token, err := tokens.GenerateTokenWithExpiry("auth", c.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = tokens.ValidateToken(token)
	require.NoError(t, err)

	c.Advance(2 * time.Hour)
	_, err = tokens.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokens_RejectsGarbage(t *testing.T) {
	_, err := NewTokens("secret", nil).ValidateToken("not-a-token")
	assert.Error(t, err)
}
