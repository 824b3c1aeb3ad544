// Package logger builds the zap logger shared by the CLI, the server and test sessions.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Zap struct {
	*zap.Logger
	file *lumberjack.Logger
}

type options struct {
	file       string
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
	console    bool
}

type Option func(*options)

// WithFile also writes JSON entries to path, rotated by size.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

func WithRotation(maxSizeMB, maxBackups, maxAgeDays int) Option {
	return func(o *options) {
		o.maxSizeMB = maxSizeMB
		o.maxBackups = maxBackups
		o.maxAgeDays = maxAgeDays
	}
}

// WithoutConsole drops the stderr output.
func WithoutConsole() Option {
	return func(o *options) { o.console = false }
}

// New builds a logger. env "dev" logs human readable lines, anything else JSON.
func New(env, level string, opts ...Option) (*Zap, error) {
	o := &options{maxSizeMB: 50, maxBackups: 5, maxAgeDays: 14, console: true}
	for _, opt := range opts {
		opt(o)
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	var cores []zapcore.Core
	if o.console {
		var enc zapcore.Encoder
		if env == "dev" {
			cfg := zap.NewDevelopmentEncoderConfig()
			cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
			enc = zapcore.NewConsoleEncoder(cfg)
		} else {
			enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl))
	}

	z := &Zap{}
	if o.file != "" {
		z.file = &lumberjack.Logger{
			Filename:   o.file,
			MaxSize:    o.maxSizeMB,
			MaxBackups: o.maxBackups,
			MaxAge:     o.maxAgeDays,
		}
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(z.file), lvl))
	}

	z.Logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	if env == "dev" {
		z.Logger = z.Logger.WithOptions(zap.Development())
	}
	return z, nil
}

// Close flushes buffered entries and closes the log file.
func (z *Zap) Close() error {
	_ = z.Sync()
	if z.file != nil {
		return z.file.Close()
	}
	return nil
}
