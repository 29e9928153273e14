// Package telemetry sets up the monitor's structured logging and
// Prometheus metrics: per-frame iteration counts, violation counts,
// and the size of the live instance set.
package telemetry

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger. verbose selects debug-level output;
// otherwise the production encoder config (JSON, sampled) is used.
func NewLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("telemetry: building logger: %w", err)
	}
	return logger, nil
}
