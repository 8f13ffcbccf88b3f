package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	// Quiet drops info messages. Warnings and errors are always written.
	Quiet bool
	// File, when set, receives every message without color.
	File string

	Stdout io.Writer
	Stderr io.Writer
}

var (
	logMu   sync.Mutex
	sugar   = newSugar(Options{})
	logFile *os.File
)

func Init(opts Options) error {
	var f *os.File
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return err
		}
		var err error
		f, err = os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
	}

	logMu.Lock()
	defer logMu.Unlock()
	closeLocked()
	logFile = f
	sugar = newSugarWithFile(opts, f)
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	closeLocked()
	sugar = newSugar(Options{})
}

func closeLocked() {
	_ = sugar.Sync()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func Info(format string, args ...interface{}) {
	current().Infof(format, args...)
}

func Warn(format string, args ...interface{}) {
	current().Warnf(format, args...)
}

func Error(format string, args ...interface{}) {
	current().Errorf(format, args...)
}

// With returns a logger carrying the given key/value pairs on every line.
func With(kv ...interface{}) *zap.SugaredLogger {
	return current().With(kv...)
}

func current() *zap.SugaredLogger {
	logMu.Lock()
	defer logMu.Unlock()
	return sugar
}

func newSugar(opts Options) *zap.SugaredLogger {
	return newSugarWithFile(opts, nil)
}

func newSugarWithFile(opts Options, f *os.File) *zap.SugaredLogger {
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	minInfo := zapcore.InfoLevel
	if opts.Quiet {
		minInfo = zapcore.WarnLevel
	}
	infoOnly := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= minInfo && l < zapcore.WarnLevel
	})
	warnUp := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.WarnLevel
	})

	colored := zapcore.NewConsoleEncoder(encoderConfig(zapcore.CapitalColorLevelEncoder))
	cores := []zapcore.Core{
		zapcore.NewCore(colored, zapcore.AddSync(stdout), infoOnly),
		zapcore.NewCore(colored, zapcore.AddSync(stderr), warnUp),
	}
	if f != nil {
		plain := zapcore.NewConsoleEncoder(encoderConfig(zapcore.CapitalLevelEncoder))
		cores = append(cores, zapcore.NewCore(plain, zapcore.AddSync(f), zapcore.InfoLevel))
	}
	return zap.New(zapcore.NewTee(cores...)).Sugar()
}

func encoderConfig(level zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05"),
		EncodeLevel:      level,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}
