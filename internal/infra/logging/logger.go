// Package logging provides file-based logging for taskboard.
// It appends to <data dir>/logs/taskboard.log through logrus.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/runoshun/taskboard/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

const categoryField = "category"

// Logger wraps logrus.Logger with lazily opened file output.
// Fields are ordered to minimize memory padding.
type Logger struct {
	log     *logrus.Logger
	file    *os.File
	dataDir string
	mu      sync.Mutex
}

// New creates a new Logger that writes to the data directory's log file.
// If dataDir is empty, logging is disabled (returns a no-op logger).
func New(dataDir string, level logrus.Level) *Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetFormatter(lineFormatter{})
	log.SetLevel(level)
	return &Logger{
		log:     log,
		dataDir: dataDir,
	}
}

// NewWithWriter creates a Logger that writes to w instead of a file.
func NewWithWriter(w io.Writer, level logrus.Level) *Logger {
	l := New("", level)
	l.log.SetOutput(w)
	return l
}

// ParseLevel parses a log level string into logrus.Level.
func ParseLevel(levelStr string) logrus.Level {
	switch levelStr {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// lineFormatter renders entries as
// [2025-12-30 09:32:51] [INFO] [category] message
type lineFormatter struct{}

func (lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	category, _ := e.Data[categoryField].(string)
	return []byte(formatLog(e.Time, e.Level, category, e.Message)), nil
}

func formatLog(t time.Time, level logrus.Level, category, msg string) string {
	if category == "" {
		category = "general"
	}
	return fmt.Sprintf("[%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		category,
		msg,
	)
}

func levelToString(level logrus.Level) string {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return "DEBUG"
	case logrus.InfoLevel:
		return "INFO"
	case logrus.WarnLevel:
		return "WARN"
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ensureFile opens the log file on first use.
func (l *Logger) ensureFile() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return nil
	}

	path := domain.LogPath(l.dataDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	l.file = f
	l.log.SetOutput(f)
	return nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.log.SetOutput(io.Discard)
	return err
}

func (l *Logger) write(level logrus.Level, category, msg string) {
	if !l.log.IsLevelEnabled(level) {
		return
	}
	if l.dataDir != "" {
		if err := l.ensureFile(); err != nil {
			return
		}
	}
	l.log.WithField(categoryField, category).Log(level, msg)
}

// Info logs an info message.
func (l *Logger) Info(category, msg string) {
	l.write(logrus.InfoLevel, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(category, msg string) {
	l.write(logrus.DebugLevel, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(category, msg string) {
	l.write(logrus.WarnLevel, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(category, msg string) {
	l.write(logrus.ErrorLevel, category, msg)
}
