// Package logging builds the zap logger and carries it through context.Context.
package logging

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

// New builds a logger at level. format is "json" or "console".
// The returned AtomicLevel changes the level of the running logger.
func New(level, format string) (*zap.Logger, zap.AtomicLevel, error) {
	atom, err := ParseLevel(level)
	if err != nil {
		return nil, atom, err
	}

	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, atom, fmt.Errorf("unknown log format %q", format)
	}
	cfg.Level = atom

	logger, err := cfg.Build()
	if err != nil {
		return nil, atom, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, atom, nil
}

// ParseLevel parses a level name into a new AtomicLevel
func ParseLevel(level string) (zap.AtomicLevel, error) {
	if level == "" {
		level = "info"
	}
	atom, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return zap.NewAtomicLevel(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return atom, nil
}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, key{}, logger)
}

// FromContext extracts the logger from a context, or a no-op logger if none is set.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(key{}).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}
