package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobboard-engine/internal/config"
	"jobboard-engine/internal/logging"
)

// cli carries the global flags and what PersistentPreRunE derives from them.
type cli struct {
	// Global flags
	configPath string
	source     string
	verbose    bool

	cfg     config.Config
	cfgPath string
	log     *zap.Logger
	atom    zap.AtomicLevel
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "jobboard",
		Short: "Browse a job listing and narrow it by language and tool",
		Long: `jobboard loads a static job listing and lets you narrow it down by
selecting languages and tools. A job stays visible only while it lists
every selected language and every selected tool.

Serve the listing over HTTP, print it in the terminal or browse it in an
interactive terminal UI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default <data dir>/config.yml)")
	root.PersistentFlags().StringVar(&c.source, "source", "", "listing source: JSON/HTML file, http(s) URL, html+http(s) URL or sqlite:path")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(c),
		newListCmd(c),
		newClassifyCmd(c),
		newTUICmd(c),
		newImportCmd(c),
	)
	return root
}

// setup resolves the config (file, .env, environment, flags) and builds
// the logger.
func (c *cli) setup() error {
	config.LoadDotEnv(".env")

	path := c.configPath
	if path == "" {
		dataDir := strings.TrimSpace(os.Getenv("JOBBOARD_DATA_DIR"))
		if dataDir == "" {
			dataDir = "."
		}
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return err
		}
		p, err := config.EnsureUserConfig(dataDir, filepath.Join("config", "config.yml"))
		if err != nil {
			return fmt.Errorf("config bootstrap failed: %w", err)
		}
		path = p
	}

	cfg, err := c.loadConfig(path)
	if err != nil {
		return err
	}
	normalized, vr := config.NormalizeAndValidate(cfg)
	if !vr.OK() {
		return fmt.Errorf("invalid config (%s): %w", path, errors.New(strings.Join(vr.Errors, "; ")))
	}

	level := normalized.Logging.Level
	if c.verbose {
		level = "debug"
	}
	log, atom, err := logging.New(level, normalized.Logging.JSON)
	if err != nil {
		return err
	}
	for _, w := range vr.Warnings {
		log.Warn("config warning", zap.String("warning", w))
	}

	c.cfg, c.cfgPath, c.log, c.atom = normalized, path, log, atom
	return nil
}

// loadConfig reads path and applies the environment and --source on top.
func (c *cli) loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := config.OverlayEnv(&cfg); err != nil {
		return cfg, err
	}
	if c.source != "" {
		cfg.Source.Location = c.source
	}
	return cfg, nil
}
