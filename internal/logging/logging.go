// Package logging builds the zap loggers used by the roleform commands.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported encodings.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// ParseLevel maps a level name onto a zapcore level. Unknown names fall back
// to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a logger writing to stderr in the given format.
func New(level, format string) (*zap.Logger, error) {
	return Config(level, format).Build()
}

// Config returns the zap configuration New builds from.
func Config(level, format string) zap.Config {
	zapLevel := ParseLevel(level)

	encoding := FormatJSON
	encoder := zap.NewProductionEncoderConfig()
	if strings.EqualFold(strings.TrimSpace(format), FormatConsole) {
		encoding = FormatConsole
		encoder = zap.NewDevelopmentEncoderConfig()
	}
	encoder.TimeKey = "ts"
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder

	return zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         encoding,
		EncoderConfig:    encoder,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
}

// Must is New that panics on error.
func Must(level, format string) *zap.Logger {
	logger, err := New(level, format)
	if err != nil {
		panic(fmt.Sprintf("logging: build logger: %v", err))
	}
	return logger
}
