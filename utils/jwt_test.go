package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("session-1", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseSessionToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestParseSessionTokenRejects(t *testing.T) {
	token, err := GenerateSessionToken("session-1", "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "other-secret")
	assert.Error(t, err)

	expired, err := GenerateSessionToken("session-1", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseSessionToken(expired, "secret")
	assert.Error(t, err)

	_, err = ParseSessionToken("not-a-token", "secret")
	assert.Error(t, err)
}
