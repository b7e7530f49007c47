package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	digest, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "secret1", digest)

	assert.True(t, VerifyPassword(digest, "secret1"))
	assert.False(t, VerifyPassword(digest, "secret1x"))
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	assert.False(t, VerifyPassword("", "anything"))
	assert.False(t, VerifyPassword("not-a-bcrypt-digest", "anything"))
}
