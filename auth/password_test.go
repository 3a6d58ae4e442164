package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHMACDigestIsDeterministic(t *testing.T) {
	h, err := NewHasher(SchemeHMAC, "pepper")
	require.NoError(t, err)

	a, err := h.Digest("p")
	require.NoError(t, err)
	b, err := h.Digest("p")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, "p", a)
	assert.True(t, h.Matches(a, "p"))
	assert.False(t, h.Matches(a, "q"))

	other, err := NewHasher(SchemeHMAC, "salt")
	require.NoError(t, err)
	c, err := other.Digest("p")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestBcryptMatches(t *testing.T) {
	h := Bcrypt{Cost: bcrypt.MinCost}
	digest, err := h.Digest("p")
	require.NoError(t, err)
	assert.True(t, h.Matches(digest, "p"))
	assert.False(t, h.Matches(digest, "q"))
}

func TestNewHasher(t *testing.T) {
	_, err := NewHasher(SchemeHMAC, "")
	assert.Error(t, err)

	_, err = NewHasher("rot13", "x")
	assert.Error(t, err)

	h, err := NewHasher(SchemeBcrypt, "")
	require.NoError(t, err)
	assert.IsType(t, Bcrypt{}, h)

	h, err = NewHasher("", "x")
	require.NoError(t, err)
	assert.IsType(t, HMAC{}, h)
}
