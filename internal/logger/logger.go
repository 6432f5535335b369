// Package logger provides the small leveled logging interface used across the
// analysis packages. Output goes through a standard library log.Logger.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type LogLevel int

const (
	// LogDebug - DEBUG log level
	LogDebug LogLevel = iota

	// LogInfo - INFO log level
	LogInfo

	// LogError - ERROR log level (does not call os.Exit!)
	LogError
)

var logLevelPrefix = map[LogLevel]string{
	LogDebug: "DEBUG",
	LogInfo:  "INFO",
	LogError: "ERROR",
}

func (l LogLevel) String() string {
	if p, ok := logLevelPrefix[l]; ok {
		return p
	}
	return fmt.Sprintf("LogLevel(%d)", int(l))
}

// ILogger is what components accept when they want to report progress.
type ILogger interface {
	Printf(level LogLevel, format string, a ...interface{})
	Debugf(format string, a ...interface{})
	Infof(format string, a ...interface{})
	Errorf(format string, a ...interface{})
}

// ParseLevel converts a config string (debug, info, error) to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogDebug, nil
	case "info", "":
		return LogInfo, nil
	case "error":
		return LogError, nil
	}
	return LogInfo, fmt.Errorf("unknown log level %q", s)
}

// New returns a logger writing to stderr and filtering below level.
func New(level LogLevel) *Logger {
	return NewWriter(os.Stderr, level)
}

// NewWriter returns a logger writing timestamped lines to w.
func NewWriter(w io.Writer, level LogLevel) *Logger {
	return &Logger{out: log.New(w, "", log.LstdFlags), level: level}
}

// Discard drops every line.
var Discard ILogger = discard{}

// OrNull returns l, or Discard if l is nil.
func OrNull(l ILogger) ILogger {
	if l == nil {
		return Discard
	}
	return l
}

func line(level LogLevel, format string, a []interface{}) string {
	return level.String() + ": " + fmt.Sprintf(format, a...)
}

// Logger writes lines at or above its level through a log.Logger.
type Logger struct {
	out   *log.Logger
	level LogLevel
}

func (l *Logger) Printf(level LogLevel, format string, a ...interface{}) {
	if level >= l.level {
		l.out.Print(line(level, format, a))
	}
}
func (l *Logger) Debugf(format string, a ...interface{}) { l.Printf(LogDebug, format, a...) }
func (l *Logger) Infof(format string, a ...interface{})  { l.Printf(LogInfo, format, a...) }
func (l *Logger) Errorf(format string, a ...interface{}) { l.Printf(LogError, format, a...) }

// Level is the lowest level written.
func (l *Logger) Level() LogLevel { return l.level }

// SetLevel changes the lowest level written.
func (l *Logger) SetLevel(level LogLevel) { l.level = level }

type discard struct{}

func (discard) Printf(LogLevel, string, ...interface{}) {}
func (discard) Debugf(string, ...interface{})           {}
func (discard) Infof(string, ...interface{})            {}
func (discard) Errorf(string, ...interface{})           {}

// MemLogger keeps formatted lines in memory. Tests use it to check what was reported.
type MemLogger struct {
	Lines []string
}

func (l *MemLogger) Printf(level LogLevel, format string, a ...interface{}) {
	l.Lines = append(l.Lines, line(level, format, a))
}
func (l *MemLogger) Debugf(format string, a ...interface{}) { l.Printf(LogDebug, format, a...) }
func (l *MemLogger) Infof(format string, a ...interface{})  { l.Printf(LogInfo, format, a...) }
func (l *MemLogger) Errorf(format string, a ...interface{}) { l.Printf(LogError, format, a...) }
