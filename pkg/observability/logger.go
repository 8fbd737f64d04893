package observability

import (
	"strings"

	// Packages
	zap "go.uber.org/zap"
	zapcore "go.uber.org/zap/zapcore"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewLogger returns a JSON logger writing to stderr at the given level
// ("debug", "info", "warn" or "error"; anything else means info).
func NewLogger(level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = parseLogLevel(level)
	return config.Build()
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func parseLogLevel(s string) zap.AtomicLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "WARN":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "ERROR":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
