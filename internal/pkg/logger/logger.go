package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger defines the interface for logging messages.
type Logger interface {
	Error(msg string, err error)
	Warn(msg string)
	Info(msg string)
	Debug(msg string)
}

type zeroLogger struct {
	logger zerolog.Logger
}

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// New creates a console logger writing to stdout at the given level
// ("debug", "info", "warn", "error"). An empty level means info.
func New(level string) (Logger, error) {
	return NewWithWriter(level, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: consoleTimeFormat})
}

// NewWithWriter creates a logger writing to w. Tests use it with a buffer.
func NewWithWriter(level string, w io.Writer) (Logger, error) {
	lvl := zerolog.InfoLevel
	if s := strings.TrimSpace(level); s != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(s))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	zl := zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		CallerWithSkipFrameCount(zerolog.CallerSkipFrameCount + 1).
		Logger()
	return &zeroLogger{logger: zl}, nil
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &zeroLogger{logger: zerolog.Nop()}
}

// Error logs an error message together with its cause.
func (l *zeroLogger) Error(msg string, err error) {
	ev := l.logger.Error()
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg(msg)
}

// Warn logs a warning message.
func (l *zeroLogger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

// Info logs an informational message.
func (l *zeroLogger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Debug logs a debug message.
func (l *zeroLogger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}
