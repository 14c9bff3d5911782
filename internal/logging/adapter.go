// Package logging provides structured logging for the eventlens service.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the interface for structured logging in the eventlens service.
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Debug(msg string, keysAndValues ...any)
}

// Config holds logger construction options.
type Config struct {
	Level       string
	Format      string
	Development bool
}

// Adapter wraps a zap sugared logger to match the service Logger interface.
type Adapter struct {
	log *zap.SugaredLogger
}

// New creates a zap-backed logger from the given configuration.
func New(cfg Config) (*Adapter, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	zapCfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	if strings.EqualFold(cfg.Format, "console") {
		zapCfg.Encoding = "console"
	}

	z, err := zapCfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}

	return &Adapter{log: z.Sugar()}, nil
}

// NewNop creates a logger that discards all output. Intended for tests.
func NewNop() *Adapter {
	return &Adapter{log: zap.NewNop().Sugar()}
}

// parseLevel converts a string level to zapcore.Level.
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Info logs an info message with key-value pairs.
func (a *Adapter) Info(msg string, keysAndValues ...any) {
	a.log.Infow(msg, keysAndValues...)
}

// Error logs an error message with key-value pairs.
func (a *Adapter) Error(msg string, keysAndValues ...any) {
	a.log.Errorw(msg, keysAndValues...)
}

// Warn logs a warning message with key-value pairs.
func (a *Adapter) Warn(msg string, keysAndValues ...any) {
	a.log.Warnw(msg, keysAndValues...)
}

// Debug logs a debug message with key-value pairs.
func (a *Adapter) Debug(msg string, keysAndValues ...any) {
	a.log.Debugw(msg, keysAndValues...)
}

// Sync flushes any buffered log entries.
func (a *Adapter) Sync() error {
	return a.log.Sync()
}
