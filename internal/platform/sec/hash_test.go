// Copyright (c) 2026 gqlsql. All rights reserved.

package sec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHashPasswordRoundTrip exercises the bcrypt credential path used to
// seed the demo operator account the integration fixtures authenticate
// as before a real JWT is minted (spec.md §6 demo auth fixture).
func TestHashPasswordRoundTrip(t *testing.T) {
	hashed, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hashed)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hashed))
	assert.False(t, CheckPasswordHash("wrong password", hashed))
}

func TestGenerateSecureTokenIsURLSafeAndUnique(t *testing.T) {
	a, err := GenerateSecureToken(32)
	require.NoError(t, err)
	b, err := GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

// TestHashTokenIsDeterministicAndOneWay proves HashToken is safe to use
// for comparing an opaque bootstrap/refresh token against its stored
// digest without keeping the raw token around.
func TestHashTokenIsDeterministicAndOneWay(t *testing.T) {
	token, err := GenerateSecureToken(24)
	require.NoError(t, err)

	first := HashToken(token)
	second := HashToken(token)

	assert.Equal(t, first, second)
	assert.NotEqual(t, token, first)
	assert.NotEqual(t, HashToken("a-different-token"), first)
}
