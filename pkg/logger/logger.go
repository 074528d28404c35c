// Package logger — тонкая обёртка над log/slog с printf-подобным API,
// которую получают все слои приложения.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger — интерфейс логгера, внедряемый в слои приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
}

type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger создаёт логгер, пишущий JSON в stdout.
// Уровень берётся из LOG_LEVEL (debug, info, warn, error), по умолчанию info.
func NewSlogLogger() Logger {
	return New(os.Stdout, ParseLevel(os.Getenv("LOG_LEVEL")))
}

// New создаёт логгер с заданным выводом и уровнем.
func New(w io.Writer, level slog.Level) Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &slogLogger{l: slog.New(h)}
}

// NewNop возвращает логгер, отбрасывающий все записи.
func NewNop() Logger {
	return New(io.Discard, slog.LevelError+1)
}

// ParseLevel переводит строковое имя уровня в slog.Level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (s *slogLogger) Debugf(format string, args ...any) {
	s.l.Debug(fmt.Sprintf(format, args...))
}

func (s *slogLogger) Infof(format string, args ...any) {
	s.l.Info(fmt.Sprintf(format, args...))
}

func (s *slogLogger) Warnf(format string, args ...any) {
	s.l.Warn(fmt.Sprintf(format, args...))
}

func (s *slogLogger) Errorf(err error, format string, args ...any) {
	if err != nil {
		s.l.Error(fmt.Sprintf(format, args...), slog.String("error", err.Error()))
		return
	}
	s.l.Error(fmt.Sprintf(format, args...))
}
