// Package logger builds the zap logger shared by every component of the host.
// The logger is created once in main and passed down through constructors;
// components derive a named child with With(zap.String("component", ...)).
package logger

import (
	"fmt"
	"log"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// New returns a JSON production logger for the production environment and a
// console development logger for every other environment. An empty or unknown
// level falls back to info.
func New(environment, level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil || level == "" {
		lvl = zapcore.InfoLevel
	}

	var cfg zap.Config
	if environment == EnvProduction {
		cfg = zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l.With(zap.String("environment", environment)), nil
}

// Std adapts l to the standard library logger interface for libraries that
// only accept a Printf writer, such as gorm's logger.
func Std(l *zap.Logger, component string) *log.Logger {
	return zap.NewStdLog(l.With(zap.String("component", component)))
}
