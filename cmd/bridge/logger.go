// cmd/bridge/logger.go
package main

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tamzrod/modbus-display-bridge/internal/config"
)

// newLogger builds the process logger. Level was checked by config.Validate.
func newLogger(lc config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

// frameLogger returns a std logger for Modbus frame dumps, or nil unless
// debug logging is on.
func frameLogger(l *zap.Logger, lc config.LogConfig) *log.Logger {
	if lc.Level != "debug" {
		return nil
	}
	return zap.NewStdLog(l.Named("modbus"))
}
