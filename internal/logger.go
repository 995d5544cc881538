package internal

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/dukerupert/sweethome/internal/domain"
)

// ServiceName tags every log line.
const ServiceName = "sweethome-storefront"

// ParseLogLevel maps LOG_LEVEL values to slog levels. An empty value is info.
func ParseLogLevel(level string) (slog.Level, bool) {
	switch level {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// NewLogger returns a JSON logger in prod and a text logger otherwise.
// Error values are logged as a group carrying the message and the
// application error code and operation, so a log line can be matched to the
// status the visitor saw.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	var h slog.Handler

	var l = new(slog.LevelVar) // Info by default
	lvl, ok := ParseLogLevel(level)
	if !ok {
		slog.Default().Warn("Invalid log level. Using default level: info", slog.String("value", level))
	}
	l.Set(lvl)

	switch env {
	case "prod":
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: l,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.String("time", a.Value.Time().Format(time.RFC3339Nano))
				}
				return errorAttr(a)
			},
		})
	default:
		h = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: l,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				return errorAttr(a)
			},
		})
	}

	return slog.New(h).With(slog.String("service", ServiceName))
}

// errorAttr expands an error value into {message, code, op}.
func errorAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindAny {
		return a
	}
	err, ok := a.Value.Any().(error)
	if !ok || err == nil {
		return a
	}

	attrs := []any{
		slog.String("message", err.Error()),
		slog.String("code", domain.ErrorCode(err)),
	}
	if op := domain.ErrorOp(err); op != "" {
		attrs = append(attrs, slog.String("op", op))
	}
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		attrs = append(attrs, slog.Bool("timeout", true))
	}
	return slog.Group(a.Key, attrs...)
}
