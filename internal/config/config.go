// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrogolib/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateTraceLogger creates the logger that receives the pointer resolution
// output of the schema decoder. It discards everything unless trace is set.
func CreateTraceLogger(trace bool) *zap.Logger {
	if !trace {
		return zap.NewNop()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
