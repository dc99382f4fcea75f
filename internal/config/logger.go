package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. Development mode uses zap's console
// encoder; otherwise JSON. Both write to stderr so command output on stdout
// stays clean.
func NewLogger(c Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fieldError("log.level", err)
	}

	z := zap.NewProductionConfig()
	if c.Development {
		z = zap.NewDevelopmentConfig()
	}
	z.Level = zap.NewAtomicLevelAt(level)
	z.OutputPaths = []string{"stderr"}
	z.ErrorOutputPaths = []string{"stderr"}

	logger, err := z.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
