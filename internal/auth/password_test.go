package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidyavipul/Mini-User-Management-System/internal/auth"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := auth.BcryptHasher{Cost: bcrypt.MinCost}
	digest, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", digest)
	assert.True(t, h.Verify("correct horse", digest))
	assert.False(t, h.Verify("wrong horse", digest))
}

func TestBcryptHasherSalts(t *testing.T) {
	h := auth.BcryptHasher{Cost: bcrypt.MinCost}
	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBcryptHasherDefaultCost(t *testing.T) {
	digest, err := auth.NewBcryptHasher().Hash("password123")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, auth.DefaultCost, cost)
}

func TestBcryptHasherMalformedDigest(t *testing.T) {
	assert.False(t, auth.NewBcryptHasher().Verify("password123", "not-a-digest"))
}

func TestBcryptHasherTooLong(t *testing.T) {
	_, err := auth.BcryptHasher{Cost: bcrypt.MinCost}.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
}
