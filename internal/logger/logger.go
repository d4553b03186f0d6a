// Package logger builds the zap logger shared by the ktlsprobe CLI and the
// ktls package's structured error reporting.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogCfg is the process-wide atomic level; ChangeLogLevel mutates it so
// every logger handed out by New shares one runtime-adjustable verbosity.
var LogCfg = zap.NewAtomicLevelAt(zap.InfoLevel)

// indirections so tests can simulate file-system failures without touching disk.
var (
	osOpenFile = os.OpenFile
	osChmod    = os.Chmod
)

const logFilePermissions = 0o777

// New builds a logger that writes JSON to logFilePath and a development
// console encoding to stderr.
func New(logFilePath string) (*zap.Logger, *os.File, error) {
	logFile, err := osOpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	if err := osChmod(logFilePath, logFilePermissions); err != nil {
		return nil, nil, fmt.Errorf("failed to set the log file permission to 777: %w", err)
	}

	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), LogCfg),
		zapcore.NewCore(fileEncoder, zapcore.AddSync(logFile), LogCfg),
	)

	return zap.New(core, zap.AddCaller()), logFile, nil
}

// ChangeLogLevel swaps LogCfg's level and returns a fresh logger at that
// level; existing loggers built from New observe the change immediately
// because they share the same AtomicLevel.
func ChangeLogLevel(level zapcore.Level) (*zap.Logger, error) {
	LogCfg.SetLevel(level)
	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), LogCfg)
	return zap.New(core, zap.AddCaller()), nil
}

// LogError attaches structured context to err without re-wrapping it,
// centralizing error reporting at call sites instead of scattering ad hoc
// zap.Error calls.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if logger == nil {
		return
	}
	allFields := append([]zap.Field{zap.Error(err)}, fields...)
	logger.Error(msg, allFields...)
}
