// In file: internal/logging/logger.go

// Package logging provides the assistant's append-only activity log. Every
// run writes to two files: a timestamped session log and a permanent
// cumulative log. Info-level records are mirrored to the console; debug
// records (full model traffic, conversation state) go to files only.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const separatorLine = "--------------------------------------------------------------------------------"

// Logger writes leveled, timestamped lines to the session file, the
// permanent file, and (for info and above) the console. All methods are
// nil-safe so components can run without a logger in tests.
type Logger struct {
	files   *log.Logger
	console *log.Logger

	sessionPath string
	closers     []io.Closer
}

// New opens the session and permanent log files under dir, creating the
// directory if needed. A nil console defaults to os.Stderr; pass io.Discard
// to silence console output.
func New(dir string, console io.Writer) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	sessionPath := filepath.Join(dir, fmt.Sprintf("assistant_%s.log", time.Now().Format("20060102_150405")))
	sessionFile, err := os.OpenFile(sessionPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open session log: %w", err)
	}

	permanentPath := filepath.Join(dir, "assistant.log")
	permanentFile, err := os.OpenFile(permanentPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		sessionFile.Close()
		return nil, fmt.Errorf("failed to open permanent log: %w", err)
	}

	if console == nil {
		console = os.Stderr
	}

	fileWriter := io.MultiWriter(sessionFile, permanentFile)
	return &Logger{
		files:       log.New(fileWriter, "", 0),
		console:     log.New(console, "", 0),
		sessionPath: sessionPath,
		closers:     []io.Closer{sessionFile, permanentFile},
	}, nil
}

// SessionPath returns the path of this run's session log file.
func (l *Logger) SessionPath() string {
	if l == nil {
		return ""
	}
	return l.sessionPath
}

// Close flushes and closes the underlying files.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	var firstErr error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (l *Logger) write(level, format string, args ...interface{}) {
	line := fmt.Sprintf("[%s] %s: %s", time.Now().Format("2006-01-02 15:04:05"), level, fmt.Sprintf(format, args...))
	l.files.Print(line)
	if level != "DEBUG" {
		l.console.Print(line)
	}
}

// Debugf logs to the files only.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.write("DEBUG", format, args...)
}

// Infof logs to the files and the console.
func (l *Logger) Infof(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.write("INFO", format, args...)
}

// Errorf logs to the files and the console.
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.write("ERROR", format, args...)
}

// Separator writes a divider line between turns in the file log.
func (l *Logger) Separator() {
	if l == nil {
		return
	}
	l.files.Print(separatorLine)
}

// Truncate shortens long content for readable log lines.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max]) + "... [truncated]"
}
