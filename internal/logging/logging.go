// Package logging builds the process-wide zap logger.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the level and encoding of the logger.
type Config struct {
	Level  string
	Format string
}

// New builds a logger writing to stderr. Format is "json" (default) or "console".
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		zcfg.Encoding = "json"
	case "console":
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zcfg.Sampling = nil
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.Format)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(raw string) (zapcore.Level, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unsupported log level %q", raw)
	}
	return level, nil
}
