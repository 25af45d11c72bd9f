// Package logging provides the structured logger the language service
// threads through its pipeline. Indexing progress, watcher activity and
// failures all go through it; there is no package-level logger, every
// component receives one.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// LogLevel grades a message.
type LogLevel string

const (
	// DebugLevel traces per-document pipeline steps.
	DebugLevel LogLevel = "debug"
	// InfoLevel reports workspace-scale milestones.
	InfoLevel LogLevel = "info"
	// WarnLevel reports recoverable conditions, like a file that failed to
	// index.
	WarnLevel LogLevel = "warn"
	// ErrorLevel reports failures that degrade the service.
	ErrorLevel LogLevel = "error"
)

func (l LogLevel) priority() int {
	switch l {
	case DebugLevel:
		return 0
	case InfoLevel:
		return 1
	case WarnLevel:
		return 2
	case ErrorLevel:
		return 3
	default:
		// An unrecognized configured level falls back to info.
		return 1
	}
}

// Format selects the output rendering.
type Format string

const (
	// JSONFormat emits one JSON object per line, for log collectors.
	JSONFormat Format = "json"
	// HumanFormat emits a timestamped line for terminals.
	HumanFormat Format = "human"
)

// Config holds logger configuration.
type Config struct {
	Format Format
	Level  LogLevel
	Output io.Writer // defaults to stderr
}

// Logger provides structured logging. Output goes to stderr by default so
// stdout stays free for query results.
type Logger struct {
	config Config
	writer io.Writer
}

// NewLogger creates a logger from config.
func NewLogger(config Config) *Logger {
	writer := config.Output
	if writer == nil {
		writer = os.Stderr
	}
	return &Logger{config: config, writer: writer}
}

type logEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func (l *Logger) log(level LogLevel, message string, fields map[string]interface{}) {
	if level.priority() < l.config.Level.priority() {
		return
	}

	entry := logEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    fields,
	}

	if l.config.Format == JSONFormat {
		l.logJSON(entry)
	} else {
		l.logHuman(entry)
	}
}

func (l *Logger) logJSON(entry logEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to marshal log entry: %v\n", err)
		return
	}
	_, _ = fmt.Fprintln(l.writer, string(data))
}

func (l *Logger) logHuman(entry logEntry) {
	_, _ = fmt.Fprintf(l.writer, "%s [%s] %s", entry.Timestamp, entry.Level, entry.Message)

	if len(entry.Fields) > 0 {
		_, _ = fmt.Fprintf(l.writer, " |")
		for k, v := range entry.Fields {
			_, _ = fmt.Fprintf(l.writer, " %s=%v", k, v)
		}
	}
	_, _ = fmt.Fprintln(l.writer)
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, fields map[string]interface{}) {
	l.log(DebugLevel, message, fields)
}

// Info logs an info message.
func (l *Logger) Info(message string, fields map[string]interface{}) {
	l.log(InfoLevel, message, fields)
}

// Warn logs a warning.
func (l *Logger) Warn(message string, fields map[string]interface{}) {
	l.log(WarnLevel, message, fields)
}

// Error logs an error.
func (l *Logger) Error(message string, fields map[string]interface{}) {
	l.log(ErrorLevel, message, fields)
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *Logger {
	return NewLogger(Config{Format: HumanFormat, Level: ErrorLevel, Output: io.Discard})
}
