// Package log provides a leveled logger for imgembed built on the standard library's slog package.
//
// A single global logger writes JSON (or text when LOG_FORMAT=text) to os.Stderr.
// The level lives in a slog.LevelVar so the CLI can change it after flag parsing
// without rebuilding the handler. Tests redirect output with SetOutput.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	levelDebugStr = "DEBUG"
	levelInfoStr  = "INFO"
	levelWarnStr  = "WARN"
	levelErrorStr = "ERROR"

	// FormatEnvVar selects the handler: "text" or anything else for JSON.
	FormatEnvVar = "LOG_FORMAT"
)

var (
	mu            sync.RWMutex
	logger        *slog.Logger
	globalLeveler           = &slog.LevelVar{}
	outputWriter  io.Writer = os.Stderr

	// ErrInvalidLogLevel indicates an invalid log level string was provided.
	ErrInvalidLogLevel = fmt.Errorf("invalid log level")
)

func init() {
	globalLeveler.Set(slog.LevelInfo)
	configureLogger()
}

// configureLogger rebuilds the handler from outputWriter and LOG_FORMAT.
func configureLogger() {
	mu.Lock()
	defer mu.Unlock()

	opts := &slog.HandlerOptions{Level: globalLeveler}

	var handler slog.Handler
	if strings.EqualFold(os.Getenv(FormatEnvVar), "text") {
		handler = slog.NewTextHandler(outputWriter, opts)
	} else {
		// JSON records omit the time attribute.
		opts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}
		handler = slog.NewJSONHandler(outputWriter, opts)
	}
	logger = slog.New(handler)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetOutput changes the output destination for the logger.
// It returns a function that restores the previous writer.
func SetOutput(w io.Writer) (restore func()) {
	mu.Lock()
	originalWriter := outputWriter
	outputWriter = w
	mu.Unlock()
	configureLogger()

	return func() {
		mu.Lock()
		outputWriter = originalWriter
		mu.Unlock()
		configureLogger()
	}
}

// Debug logs a debug message with optional key-value pairs
func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs
func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...any) {
	if !IsDebugEnabled() {
		return
	}
	current().Debug(fmt.Sprintf(format, args...))
}

// Infof logs a formatted info message.
func Infof(format string, args ...any) {
	current().Info(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning message.
func Warnf(format string, args ...any) {
	current().Warn(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...any) {
	current().Error(fmt.Sprintf(format, args...))
}

// Logger returns the underlying slog.Logger
func Logger() *slog.Logger {
	return current()
}

// IsDebugEnabled reports whether debug records are currently emitted.
func IsDebugEnabled() bool {
	return globalLeveler.Level() <= slog.LevelDebug
}

// SetLevel changes the log level at runtime. It accepts a Level or a slog.Level.
func SetLevel(level interface{}) {
	var target slog.Level
	switch v := level.(type) {
	case slog.Level:
		target = v
	case Level:
		target = slog.Level(v)
	default:
		panic(fmt.Sprintf("SetLevel: unsupported level type %T", level))
	}
	globalLeveler.Set(target)
}

// CurrentLevel returns the current slog.Level from the LevelVar
func CurrentLevel() slog.Level {
	return globalLeveler.Level()
}

// Level mirrors slog.Level so callers do not need to import slog.
type Level int8

// Log level definitions.
const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return levelDebugStr
	case LevelInfo:
		return levelInfoStr
	case LevelWarn:
		return levelWarnStr
	case LevelError:
		return levelErrorStr
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name. Unknown names return LevelInfo and an
// error wrapping ErrInvalidLogLevel.
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case levelDebugStr:
		return LevelDebug, nil
	case levelInfoStr:
		return LevelInfo, nil
	case levelWarnStr, "WARNING":
		return LevelWarn, nil
	case levelErrorStr:
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, levelStr)
	}
}
