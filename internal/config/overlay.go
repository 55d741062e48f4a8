// config/overlay.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads .env files into the process environment. Variables that
// are already set win; missing files are ignored.
func LoadDotEnv(paths ...string) {
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// OverlayEnv applies JOBBOARD_* variables on top of cfg.
func OverlayEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("JOBBOARD_SOURCE")); v != "" {
		cfg.Source.Location = v
	}
	if v := strings.TrimSpace(os.Getenv("JOBBOARD_DATA_DIR")); v != "" {
		cfg.App.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("JOBBOARD_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("JOBBOARD_PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JOBBOARD_PORT %q: %w", v, err)
		}
		cfg.App.Port = port
	}
	return nil
}
