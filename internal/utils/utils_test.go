package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	now := time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)
	tok, err := NewSessionToken("s3cret", 42, "Ann", "admin", 7*24*time.Hour, now)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.ID)
	assert.Equal(t, now.Add(7*24*time.Hour), tok.Exp)

	claims, err := ParseSessionToken("s3cret", tok.Token, now.Add(time.Hour))
	require.NoError(t, err)
	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "Ann", claims.Name)
	assert.Equal(t, tok.ID, claims.ID)
}

func TestSessionTokenRejected(t *testing.T) {
	now := time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)
	tok, err := NewSessionToken("s3cret", 42, "Ann", "member", time.Hour, now)
	require.NoError(t, err)

	_, err = ParseSessionToken("other", tok.Token, now)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong key")

	_, err = ParseSessionToken("s3cret", tok.Token, now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	_, err = ParseSessionToken("s3cret", "not-a-token", now)
	assert.ErrorIs(t, err, ErrInvalidToken, "garbage")
}

func TestPasswordHashing(t *testing.T) {
	h, err := HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(h, "hunter22"))
	assert.False(t, VerifyPassword(h, "hunter23"))
	assert.False(t, VerifyPassword("", "hunter22"))
}
