package logger

import (
	"io"
	"log/slog"

	"treasury_checker/internal/app/port"
)

// slogAdapter implements port.Logger. A nil logger means the package globals.
type slogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter returns a port.Logger writing through the global logger.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

// NewAdapter returns a port.Logger writing to l.
func NewAdapter(l *slog.Logger) port.Logger {
	return &slogAdapter{l: l}
}

// Discard returns a port.Logger that drops everything.
func Discard() port.Logger {
	return &slogAdapter{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (a *slogAdapter) Info(msg string, args ...any) {
	if a.l != nil {
		a.l.Info(msg, args...)
		return
	}
	Info(msg, args...)
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	if a.l != nil {
		a.l.Debug(msg, args...)
		return
	}
	Debug(msg, args...)
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	if a.l != nil {
		a.l.Warn(msg, args...)
		return
	}
	Warn(msg, args...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	if a.l != nil {
		a.l.Error(msg, args...)
		return
	}
	Error(msg, args...)
}
