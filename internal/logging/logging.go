// Package logging builds the diagnostic logger.
//
// A monitoring plugin talks to its scheduler through stdout and the exit
// code, so diagnostics never go there. Verbose mode writes them to stderr,
// and a log file keeps a persistent JSON trail with rotation.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options select where diagnostics go. The zero value discards everything.
type Options struct {
	// Verbose enables human readable output on stderr.
	Verbose bool

	// LogFile is the path of a rotated JSON log file. Empty disables it.
	LogFile string
}

// New builds a logger for the options. The returned cleanup function
// flushes buffered entries and must be called before exiting.
func New(opts Options) (*zap.Logger, func(), error) {
	var cores []zapcore.Core

	if opts.Verbose {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(zapcore.AddSync(os.Stderr)),
			zap.DebugLevel,
		))
	}

	if opts.LogFile != "" {
		if dir := filepath.Dir(opts.LogFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, err
			}
		}
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		})
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, zap.DebugLevel))
	}

	if len(cores) == 0 {
		return zap.NewNop(), func() {}, nil
	}

	logger := zap.New(zapcore.NewTee(cores...))
	return logger, func() { _ = logger.Sync() }, nil
}
