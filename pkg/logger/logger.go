package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options tunes the logger built by New.
type Options struct {
	Level string
	// File enables a rotating JSON file sink next to stdout when non-empty.
	File string
}

// New instantiates a production-ready zap logger with sane defaults for JSON structured logging.
func New(opts Options) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, err
		}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if opts.File == "" {
		cfg := zap.NewProductionConfig()
		cfg.Level = level
		cfg.EncoderConfig = encoderCfg
		return cfg.Build()
	}

	stdoutCore := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.Lock(os.Stdout), level)
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // MB
			MaxBackups: 30,
			MaxAge:     90, // days
			Compress:   true,
		}),
		level,
	)

	return zap.New(zapcore.NewTee(stdoutCore, fileCore), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)), nil
}

// Must is a helper that panics when the logger cannot be created.
func Must(logger *zap.Logger, err error) *zap.Logger {
	if err != nil {
		panic(err)
	}
	return logger
}

// Named returns a child logger with the provided component name.
func Named(base *zap.Logger, component string) *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	return base.Named(component)
}
