// Package hooks provides production-ready Hook and Logger implementations.
package hooks

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Skryldev/jpeg-decoder/core"
)

// ── Structured logger adapter ─────────────────────────────────────────────────

// SlogLogger wraps the standard library slog.Logger to satisfy core.Logger.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger creates a logger backed by slog.
func NewSlogLogger(l *slog.Logger) *SlogLogger { return &SlogLogger{log: l} }

func (s *SlogLogger) Debug(msg string, fields ...interface{}) {
	s.log.Debug(msg, fields...)
}
func (s *SlogLogger) Info(msg string, fields ...interface{}) {
	s.log.Info(msg, fields...)
}
func (s *SlogLogger) Warn(msg string, fields ...interface{}) {
	s.log.Warn(msg, fields...)
}
func (s *SlogLogger) Error(msg string, fields ...interface{}) {
	s.log.Error(msg, fields...)
}

// ParseLevel maps a config log-level string onto a slog.Level.  Unknown
// values fall back to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewDefaultLogger creates a text-format SlogLogger writing to w at the
// given config log level.
func NewDefaultLogger(w io.Writer, level string) *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})))
}

// ── Logging hook ──────────────────────────────────────────────────────────────

// LoggingHook logs probe and decode events.
type LoggingHook struct {
	logger core.Logger
}

// NewLoggingHook creates a LoggingHook.
func NewLoggingHook(l core.Logger) *LoggingHook { return &LoggingHook{logger: l} }

func (h *LoggingHook) AfterProbe(_ context.Context, meta core.Metadata, err error) {
	if err != nil {
		h.logger.Error("probe.error", "error", err.Error())
		return
	}
	h.logger.Debug("probe.done",
		"width", meta.Width,
		"height", meta.Height,
		"color", meta.Color,
	)
}

func (h *LoggingHook) BeforeDecode(_ context.Context, meta core.Metadata) {
	h.logger.Debug("decode.start",
		"width", meta.Width,
		"height", meta.Height,
		"color", meta.Color,
	)
}

func (h *LoggingHook) AfterDecode(_ context.Context, meta core.Metadata, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("decode.error",
			"duration_ms", d.Milliseconds(),
			"error", err.Error(),
		)
		return
	}
	h.logger.Debug("decode.done",
		"duration_ms", d.Milliseconds(),
		"bytes", meta.TotalBytes(),
	)
}

var _ core.Hook = (*LoggingHook)(nil)
