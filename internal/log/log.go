// Package log provides leveled, categorized diagnostics for universe-core.
// The package-level functions write to a default logger that is disabled
// until Init or SetDefault is called; components that need an injectable
// sink take a *Logger.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name ("debug", "info", "warn", "error") to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

// Category groups related log messages.
type Category string

const (
	CatItem   Category = "item"   // Item loading and construction
	CatDB     Category = "db"     // Database operations
	CatCache  Category = "cache"  // Type catalog cache
	CatConfig Category = "config" // Configuration loading/saving
	CatImport Category = "import" // Dump imports
)

// Logger writes one line per entry:
//
//	2006-01-02T15:04:05 [ERROR] [item] message key=value key2=value2
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	writer   io.Writer
	enabled  bool
	minLevel Level
	now      func() time.Time
}

// New creates a logger writing to w at or above minLevel.
func New(w io.Writer, minLevel Level) *Logger {
	return &Logger{
		writer:   w,
		enabled:  w != nil,
		minLevel: minLevel,
		now:      time.Now,
	}
}

// Discard returns a logger that drops every entry.
func Discard() *Logger {
	return New(nil, LevelError)
}

// Open creates a logger appending to the file at path.
func Open(path string, minLevel Level) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G304: path comes from config
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	l := New(f, minLevel)
	l.file = f
	return l, nil
}

// Close closes the underlying file, if the logger owns one.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.file.Close()
	l.file = nil
	l.writer = nil
	l.enabled = false
	return err
}

// SetEnabled toggles logging on/off.
func (l *Logger) SetEnabled(enabled bool) {
	l.mu.Lock()
	l.enabled = enabled && l.writer != nil
	l.mu.Unlock()
}

// SetMinLevel sets the minimum log level.
func (l *Logger) SetMinLevel(level Level) {
	l.mu.Lock()
	l.minLevel = level
	l.mu.Unlock()
}

// Debug logs at debug level.
func (l *Logger) Debug(cat Category, msg string, fields ...any) {
	l.log(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func (l *Logger) Info(cat Category, msg string, fields ...any) {
	l.log(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func (l *Logger) Warn(cat Category, msg string, fields ...any) {
	l.log(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func (l *Logger) Error(cat Category, msg string, fields ...any) {
	l.log(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func (l *Logger) ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	l.log(LevelError, cat, msg, fields...)
}

func (l *Logger) log(level Level, cat Category, msg string, fields ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || l.writer == nil || level < l.minLevel {
		return
	}

	var b strings.Builder
	b.WriteString(l.now().Format("2006-01-02T15:04:05"))
	fmt.Fprintf(&b, " [%s] [%s] %s", level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	// Orphan key with no value.
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	b.WriteByte('\n')

	_, _ = io.WriteString(l.writer, b.String())
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = Discard()
)

// Default returns the package-level logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the package-level logger. A nil logger disables it.
func SetDefault(l *Logger) {
	if l == nil {
		l = Discard()
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Init opens path as the default logger.
// Returns a cleanup function to close the log file.
func Init(path string, minLevel Level) (func(), error) {
	l, err := Open(path, minLevel)
	if err != nil {
		return nil, err
	}
	SetDefault(l)
	return func() {
		SetDefault(nil)
		_ = l.Close()
	}, nil
}

// Debug logs at debug level on the default logger.
func Debug(cat Category, msg string, fields ...any) { Default().Debug(cat, msg, fields...) }

// Info logs at info level on the default logger.
func Info(cat Category, msg string, fields ...any) { Default().Info(cat, msg, fields...) }

// Warn logs at warning level on the default logger.
func Warn(cat Category, msg string, fields ...any) { Default().Warn(cat, msg, fields...) }

// Error logs at error level on the default logger.
func Error(cat Category, msg string, fields ...any) { Default().Error(cat, msg, fields...) }

// ErrorErr logs an error with the error value on the default logger.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	Default().ErrorErr(cat, msg, err, fields...)
}
