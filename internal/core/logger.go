package core

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger replaces the global logger with a production logger at level.
// Unknown levels fall back to info.
func NewLogger(level string) *zap.Logger {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zap.L().Warn("Unknown log level, using info", zap.String("log_level", level))
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	logger := zap.Must(config.Build())
	zap.ReplaceGlobals(logger)
	return logger
}
