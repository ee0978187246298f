package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linjx/gomall/pkg/apperr"
)

func TestSignParseRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	raw, expiresAt, err := m.Sign("USR-10001", "alice@example.com")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	identity, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "USR-10001", identity.UserID)
	assert.Equal(t, "alice@example.com", identity.Email)
}

func TestParseRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	_, err := m.Parse("not-a-token")
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	raw, _, err := signer.Sign("USR-10001", "alice@example.com")
	require.NoError(t, err)

	_, err = verifier.Parse(raw)
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	raw, _, err := m.Sign("USR-10001", "alice@example.com")
	require.NoError(t, err)

	_, err = m.Parse(raw)
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}
