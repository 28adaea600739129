package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelSuccess
	LevelError
)

var levelNames = map[LogLevel]string{
	LevelDebug:   "DEBUG",
	LevelInfo:    "INFO",
	LevelWarn:    "WARN",
	LevelError:   "ERROR",
	LevelSuccess: "SUCCESS",
}

var levelColors = map[LogLevel]*color.Color{
	LevelDebug:   color.New(color.FgCyan),
	LevelInfo:    color.New(color.FgGreen),
	LevelWarn:    color.New(color.FgYellow),
	LevelError:   color.New(color.FgRed),
	LevelSuccess: color.New(color.FgGreen, color.Bold),
}

var levelEmojis = map[LogLevel]string{
	LevelDebug:   "🐛",
	LevelInfo:    "ℹ️",
	LevelWarn:    "⚠️",
	LevelError:   "❌",
	LevelSuccess: "✅",
}

var callerColor = color.New(color.FgHiBlack)

// sink is the output state shared by every logger derived from the same root.
type sink struct {
	mu         sync.Mutex
	out        io.Writer
	minLevel   LogLevel
	showCaller bool
}

// Logger is the main logger struct
type Logger struct {
	sink    *sink
	prefix  string
	display string
}

// std is shared by all package loggers so a single --verbose flag reaches them.
var std = &sink{out: os.Stderr, minLevel: LevelInfo}

// DefaultLogger returns a logger bound to the shared process sink.
func DefaultLogger() *Logger {
	return &Logger{sink: std}
}

// SetLevel sets the minimum log level for this logger and every logger sharing its output.
func (l *Logger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.minLevel = level
}

// EnableCallerInfo enables/disables caller information for every logger sharing this output
func (l *Logger) EnableCallerInfo(enable bool) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.showCaller = enable
}

// Log logs a message at a specific level
func (l *Logger) Log(level LogLevel, msg string, args ...interface{}) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if level < l.sink.minLevel {
		return
	}

	var callerInfo string
	if l.sink.showCaller {
		_, file, line, ok := runtime.Caller(2)
		if ok {
			parts := strings.Split(file, "/")
			if len(parts) > 3 {
				file = strings.Join(parts[len(parts)-3:], "/")
			}
			callerInfo = fmt.Sprintf("%s:%d", file, line)
		}
	}

	var sb strings.Builder
	sb.WriteString(levelColors[level].Sprint(levelNames[level]))
	sb.WriteString(" ")
	sb.WriteString(levelEmojis[level])
	sb.WriteString(" ")
	switch {
	case l.display != "":
		sb.WriteString(l.display)
		sb.WriteString(" ")
	case l.prefix != "":
		sb.WriteString(l.prefix + "::")
		sb.WriteString(" ")
	}
	sb.WriteString(strings.TrimRight(fmt.Sprintf(msg, args...), "\n"))
	if callerInfo != "" {
		sb.WriteString(" ")
		sb.WriteString(callerColor.Sprintf("(%s)", callerInfo))
	}
	sb.WriteString("\n")

	fmt.Fprint(l.sink.out, sb.String())
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.Log(LevelDebug, msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	l.Log(LevelInfo, msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.Log(LevelWarn, msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...interface{}) {
	l.Log(LevelError, msg, args...)
}

// Success logs a success message
func (l *Logger) Success(msg string, args ...interface{}) {
	l.Log(LevelSuccess, msg, args...)
}

// WithPrefix returns a new Logger sharing this logger's output under a different package display name.
func (l *Logger) WithPrefix(prefix, display string) *Logger {
	return &Logger{
		sink:    l.sink,
		prefix:  prefix,
		display: display,
	}
}

// PackageLogger creates a logger with package-specific settings
func PackageLogger(pkgName string, displayName string) *Logger {
	return DefaultLogger().WithPrefix(pkgName, displayName)
}

// Timed logs the duration of a function execution
func (l *Logger) Timed(label string, fn func() error) error {
	start := time.Now()
	l.Debug("⏳ Starting %s...", label)
	err := fn()
	l.Debug("Finished %s in %v", label, time.Since(start))
	return err
}
