package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aerth/demosite/config"
)

// newLogger returns a JSON logger, or a colored console one in dev mode.
func newLogger(meta config.MetaConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if meta.LogLevel != "" {
		if err := level.UnmarshalText([]byte(meta.LogLevel)); err != nil {
			return nil, fmt.Errorf("bad Meta.loglevel %q: %w", meta.LogLevel, err)
		}
	}

	if !meta.DevelopmentMode {
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(level)
		zc.InitialFields = map[string]interface{}{"version": meta.Version}
		return zc.Build()
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core, zap.AddCaller()).Named("demosite"), nil
}
