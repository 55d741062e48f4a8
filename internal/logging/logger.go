// Package logging builds the zap logger shared by the engine's commands.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger at level. jsonOutput selects the production JSON
// encoder; otherwise a console encoder is used. The returned AtomicLevel
// lets callers change the level after a config reload.
func New(level string, jsonOutput bool) (*zap.Logger, zap.AtomicLevel, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("failed to parse log level: %w", err)
	}

	var cfg zap.Config
	if jsonOutput {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	atom := zap.NewAtomicLevelAt(lvl)
	cfg.Level = atom

	logger, err := cfg.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, atom, nil
}

// SetLevel applies a textual level to atom, ignoring unknown values.
func SetLevel(atom zap.AtomicLevel, level string) bool {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return false
	}
	atom.SetLevel(lvl)
	return true
}
