package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how log output is written.
type Options struct {
	Mode       string // "production" or "development"
	FileEnable bool
	Filename   string
}

// Setup builds the application logger and installs it as the zap global.
// Console output is always on; when file logging is enabled, JSON entries
// are also written through a size-rotated file.
func Setup(opts Options) (*zap.Logger, error) {
	var level zapcore.Level
	if opts.Mode == "production" {
		level = zapcore.InfoLevel
	} else {
		level = zapcore.DebugLevel
	}

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(os.Stdout),
		level,
	)

	var logger *zap.Logger
	if opts.FileEnable {
		if dir := filepath.Dir(opts.Filename); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
		fileWriter := &lumberjack.Logger{
			Filename:   opts.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		}
		core := zapcore.NewTee(
			consoleCore,
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(fileWriter),
				level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		logger = zap.New(consoleCore, zap.AddCaller())
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}

// SetupFallback creates a console-only logger when file logging fails.
func SetupFallback() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	zap.ReplaceGlobals(logger)
	return logger
}
