package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger keeps the printf-style surface the rest of the tool uses and
// writes through zerolog's console writer.
type Logger struct {
	Debug bool
	zl    zerolog.Logger
}

func NewLogger(debug bool) *Logger {
	return NewLoggerTo(os.Stderr, debug)
}

func NewLoggerTo(w io.Writer, debug bool) *Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    w != os.Stderr && w != os.Stdout,
	}

	return &Logger{
		Debug: debug,
		zl:    zerolog.New(cw).Level(level).With().Timestamp().Logger(),
	}
}

// With returns a child logger that tags every line with key=value.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{
		Debug: l.Debug,
		zl:    l.zl.With().Str(key, value).Logger(),
	}
}

func msg(format string, args ...any) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.Debug {
		l.zl.Debug().Msg(msg(format, args...))
	}
}

func (l *Logger) Infof(format string, args ...any) {
	l.zl.Info().Msg(msg(format, args...))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.zl.Warn().Msg(msg(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.zl.Error().Msg(msg(format, args...))
}
