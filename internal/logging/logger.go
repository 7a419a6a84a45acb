// Package logging builds the process-wide zap logger and carries request-scoped fields.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a logger for the given level and environment.
// Production uses JSON output; every other environment uses the console encoder.
func New(level, env string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// Must is New that falls back to a production logger on error.
func Must(level, env string) *zap.Logger {
	l, err := New(level, env)
	if err != nil {
		l, _ = zap.NewProduction()
		l.Warn("falling back to default logger", zap.Error(err))
	}
	return l
}
