// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package logging builds the zap loggers used by the wordcount command.
package logging

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to stderr at the named level.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	if lvl > zapcore.DebugLevel {
		cfg.DisableCaller = true
	}
	return cfg.Build()
}

// Timed runs fn and logs its outcome and duration under the given operation
// name. Failures are logged at error level and successes at info.
func Timed[T any](
	ctx context.Context,
	logger *zap.Logger,
	operation string,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	logger = logger.With(zap.String("operation", operation))
	logger.Debug("starting")

	start := time.Now()
	result, err := fn(ctx)
	duration := time.Since(start)

	if err != nil {
		logger.Error("failed", zap.Duration("duration", duration), zap.Error(err))
	} else {
		logger.Info("completed", zap.Duration("duration", duration))
	}
	return result, err
}
