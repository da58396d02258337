package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("s3cret", "admin", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, 5*time.Second)

	claims, err := ParseSessionToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestSessionTokenRejected(t *testing.T) {
	tok, err := NewSessionToken("s3cret", "admin", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken("other", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewSessionToken("s3cret", "admin", -time.Minute)
	require.NoError(t, err)
	_, err = ParseSessionToken("s3cret", expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseSessionToken("s3cret", "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter2"))
	assert.False(t, VerifyPassword(hash, "hunter3"))

	// out of range cost falls back to the default
	hash, err = HashPassword("pw", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
