package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"

	"jobboard-engine/internal/config"
)

const (
	// “Service” groups the engine's secrets in the OS keychain.
	KeyringService = "jobboard"
)

// ErrNoAccount is returned when no keychain account is configured.
var ErrNoAccount = errors.New("keyring account name is empty")

// GetSourceToken returns the bearer token for the configured source, or ""
// when no account is configured.
func GetSourceToken(cfg config.Config) (string, error) {
	account := SourceKeyringAccount(cfg)
	if account == "" {
		return "", nil
	}
	tok, err := keyring.Get(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", errors.New("source token not found in keychain (set it via POST /api/secrets/source)")
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(tok), nil
}

func SetSourceToken(cfg config.Config, token string) error {
	account := SourceKeyringAccount(cfg)
	if account == "" {
		return ErrNoAccount
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, account, token)
}

func DeleteSourceToken(cfg config.Config) error {
	account := SourceKeyringAccount(cfg)
	if account == "" {
		return ErrNoAccount
	}
	return keyring.Delete(KeyringService, account)
}

func SourceKeyringAccount(cfg config.Config) string {
	return strings.TrimSpace(cfg.Source.KeyringAccount)
}
