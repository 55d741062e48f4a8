package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnsureUserConfig returns dataDir/config.yml, seeding it on first run
// from the shipped default at defaultPath, or from Default when that file
// is absent. An existing user config is never touched.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	switch _, err := os.Stat(userPath); {
	case err == nil:
		return userPath, nil
	case !errors.Is(err, os.ErrNotExist):
		return "", err
	}

	seed, err := os.ReadFile(defaultPath)
	if errors.Is(err, os.ErrNotExist) {
		return userPath, SaveAtomic(userPath, Default())
	}
	if err != nil {
		return "", err
	}

	// Refuse to seed from a default that would not load.
	var probe Config
	if err := yaml.Unmarshal(seed, &probe); err != nil {
		return "", fmt.Errorf("default config %s: %w", defaultPath, err)
	}

	if err := writeFileAtomic(userPath, seed); err != nil {
		return "", err
	}
	return userPath, nil
}
