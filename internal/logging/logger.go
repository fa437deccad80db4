// Package logging provides a small leveled logger for filesystem
// diagnostics: a nil-safe Logger with Sublogger-based prefixing and
// github.com/fatih/color for level-appropriate colorization.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Logger logs at a configured Level with an optional dotted prefix built up
// through Sublogger. A nil *Logger is valid and logs nothing, so callers
// never need a nil-check before calling a method on one.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	prefix string
}

// Root is the default logger, writing to stderr at LevelInfo.
var Root = New(os.Stderr, LevelInfo)

// New creates a Logger writing to out at the given Level.
func New(out io.Writer, level Level) *Logger {
	return &Logger{out: out, level: level}
}

// Sublogger derives a child logger sharing this logger's output and level,
// with name appended to the dotted prefix.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}
	return &Logger{out: l.out, level: l.level, prefix: prefix}
}

func (l *Logger) enabled(level Level) bool {
	return l != nil && l.level >= level
}

func (l *Logger) emit(level Level, colorize func(format string, a ...interface{}) string, format string, args ...interface{}) {
	if !l.enabled(level) {
		return
	}
	line := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	line = colorize("%s", line)

	l.mu.Lock()
	defer l.mu.Unlock()
	log.New(l.out, "", log.LstdFlags).Output(3, line)
}

// Trace logs the most granular diagnostic detail (e.g. directory table
// mutations).
func (l *Logger) Trace(format string, args ...interface{}) {
	l.emit(LevelTrace, fmt.Sprintf, format, args...)
}

// Debug logs lookup- and lock-level detail.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.emit(LevelDebug, fmt.Sprintf, format, args...)
}

// Info logs create/delete/move-level execution summaries.
func (l *Logger) Info(format string, args ...interface{}) {
	l.emit(LevelInfo, fmt.Sprintf, format, args...)
}

// Warn logs recoverable anomalies (e.g. a move/copy lock back-off retry) in
// yellow.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit(LevelWarn, color.YellowString, format, args...)
}
