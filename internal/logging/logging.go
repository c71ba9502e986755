package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger: JSON in production, coloured console
// output otherwise, at the given level ("debug", "info", "warn", "error").
// PRE: level is a zapcore level name or empty (info)
// POST: Returns a ready logger or an error for an unknown level
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// GooseLogger adapts a zap logger to goose's Printf/Fatalf logger.
type GooseLogger struct {
	S *zap.SugaredLogger
}

// Printf logs a migration progress line.
func (g GooseLogger) Printf(format string, v ...any) {
	g.S.Infof(format, v...)
}

// Fatalf logs a migration failure and exits.
func (g GooseLogger) Fatalf(format string, v ...any) {
	g.S.Fatalf(format, v...)
}

// CronLogger adapts a zap logger to robfig/cron's Logger. Cron's routine
// schedule notices (start, wake, run, skip) are logged at debug level.
type CronLogger struct {
	S *zap.SugaredLogger
}

// Info logs a scheduler notice.
func (c CronLogger) Info(msg string, keysAndValues ...any) {
	c.S.Debugw(msg, keysAndValues...)
}

// Error logs a scheduler failure, such as a recovered job panic.
func (c CronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.S.Errorw(msg, append(keysAndValues, "error", err)...)
}
