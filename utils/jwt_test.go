package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("test-secret", "boater@example.com", "verified", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, role, err := ParseToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, "boater@example.com", subject)
	assert.Equal(t, "verified", role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("test-secret", "boater@example.com", "verified", time.Hour)
	require.NoError(t, err)

	_, _, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("test-secret", "boater@example.com", "verified", -time.Minute)
	require.NoError(t, err)

	_, _, err = ParseToken("test-secret", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, _, err := ParseToken("test-secret", "not-a-token")
	assert.Error(t, err)
}
