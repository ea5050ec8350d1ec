// Package logging provides a leveled logger backed by zerolog.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
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

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

// ParseLevel parses a log level string.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format selects the output encoding.
type Format string

const (
	FormatAuto    Format = "auto"    // console on a terminal, JSON otherwise
	FormatConsole Format = "console" // human readable
	FormatJSON    Format = "json"
)

// Logger is a leveled logger. The printf-style methods cover most call
// sites; Zerolog exposes the structured logger for request logging.
type Logger struct {
	mu     sync.Mutex
	level  Level
	format Format
	output io.Writer
	zl     zerolog.Logger
}

// New creates a new logger writing to stderr.
func New(level Level) *Logger {
	l := &Logger{
		level:  level,
		format: FormatAuto,
		output: os.Stderr,
	}
	l.rebuild()
	return l
}

// NewWithFormat creates a logger with an explicit output format.
func NewWithFormat(level Level, format Format) *Logger {
	l := &Logger{
		level:  level,
		format: format,
		output: os.Stderr,
	}
	l.rebuild()
	return l
}

// SetOutput sets the log output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	l.rebuild()
}

// rebuild must be called with mu held (or before the logger is shared).
func (l *Logger) rebuild() {
	var w io.Writer = l.output
	if l.useConsole() {
		w = zerolog.ConsoleWriter{Out: l.output, TimeFormat: "15:04:05.000"}
	}
	l.zl = zerolog.New(w).Level(l.level.zerolog()).With().Timestamp().Logger()
}

func (l *Logger) useConsole() bool {
	switch l.format {
	case FormatConsole:
		return true
	case FormatJSON:
		return false
	}
	f, ok := l.output.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Zerolog returns the underlying structured logger.
func (l *Logger) Zerolog() zerolog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.zl
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	zl := l.Zerolog()
	zl.Debug().Msgf(format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	zl := l.Zerolog()
	zl.Info().Msgf(format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	zl := l.Zerolog()
	zl.Warn().Msgf(format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	zl := l.Zerolog()
	zl.Error().Msgf(format, args...)
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	return &Logger{
		level:  LevelError + 1, // Higher than any level
		format: FormatJSON,
		output: io.Discard,
		zl:     zerolog.Nop(),
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
