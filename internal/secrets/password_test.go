package secrets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"jobboard-engine/internal/config"
)

func TestSourceToken_RoundTrip(t *testing.T) {
	keyring.MockInit()

	cfg := config.Default()
	cfg.Source.KeyringAccount = "jobboard:source:example.com"

	require.NoError(t, SetSourceToken(cfg, "tok-123"))
	got, err := GetSourceToken(cfg)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", got)

	require.NoError(t, DeleteSourceToken(cfg))
	_, err = GetSourceToken(cfg)
	assert.Error(t, err)
}

func TestSourceToken_NoAccount(t *testing.T) {
	keyring.MockInit()
	cfg := config.Default()

	tok, err := GetSourceToken(cfg)
	require.NoError(t, err)
	assert.Empty(t, tok)

	assert.True(t, errors.Is(SetSourceToken(cfg, "x"), ErrNoAccount))
	assert.True(t, errors.Is(DeleteSourceToken(cfg), ErrNoAccount))
}

func TestSetSourceToken_RejectsEmpty(t *testing.T) {
	keyring.MockInit()
	cfg := config.Default()
	cfg.Source.KeyringAccount = "acct"

	assert.Error(t, SetSourceToken(cfg, "   "))
}
