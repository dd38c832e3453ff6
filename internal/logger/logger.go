// Package logger provides a simple leveled logger for the application.
// It supports three levels: off (no output), normal (info/warn/error),
// and verbose (includes debug). Output is produced by a zap core with a
// console encoder; the level can be changed at runtime and is shared by
// every named child. The logger is safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level controls the verbosity of the logger.
type Level int32

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// String returns the config name of the level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelNormal:
		return "normal"
	case LevelVerbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// ParseLevel converts a config name ("off", "normal", "verbose") into a
// Level. Unknown names map to LevelNormal and return false.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "off", "quiet", "none":
		return LevelOff, true
	case "normal", "info", "":
		return LevelNormal, true
	case "verbose", "debug":
		return LevelVerbose, true
	default:
		return LevelNormal, false
	}
}

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	level *atomic.Int32
	sugar *zap.SugaredLogger
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	lvl := new(atomic.Int32)
	lvl.Store(int32(level))

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.CallerKey = ""

	enabled := zap.LevelEnablerFunc(func(z zapcore.Level) bool {
		switch Level(lvl.Load()) {
		case LevelVerbose:
			return true
		case LevelNormal:
			return z >= zapcore.InfoLevel
		default:
			return false
		}
	})

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(out), enabled)
	return &Logger{
		level: lvl,
		sugar: zap.New(core).Sugar(),
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(LevelOff, io.Discard)
}

// Named returns a child logger tagged with the given component name.
// The child shares the parent's level.
func (l *Logger) Named(name string) *Logger {
	return &Logger{level: l.level, sugar: l.sugar.Named(name)}
}

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	return Level(l.level.Load())
}

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	l.sugar.Debug(fmt.Sprintf(format, args...))
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	l.sugar.Info(fmt.Sprintf(format, args...))
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	l.sugar.Warn(fmt.Sprintf(format, args...))
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	l.sugar.Error(fmt.Sprintf(format, args...))
}

// Sync flushes buffered output.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

// OpenOutput opens the log destination. An empty path or "stderr" means
// os.Stderr; anything else is a file opened for appending, with its
// directory created as needed. The returned close func is never nil.
func OpenOutput(path string) (io.Writer, func() error, error) {
	nop := func() error { return nil }
	if path == "" || path == "stderr" {
		return os.Stderr, nop, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return os.Stderr, nop, fmt.Errorf("creating log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return os.Stderr, nop, fmt.Errorf("opening log file: %w", err)
	}
	return f, f.Close, nil
}
