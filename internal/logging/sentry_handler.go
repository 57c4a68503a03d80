package logging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
)

// SentryHandler forwards ERROR+ records to Sentry. It is only installed
// when a DSN is configured.
type SentryHandler struct {
	hub   *sentry.Hub
	attrs []slog.Attr
}

func NewSentryHandler(hub *sentry.Hub) *SentryHandler {
	return &SentryHandler{hub: hub}
}

func (h *SentryHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *SentryHandler) Handle(_ context.Context, record slog.Record) error {
	hub := h.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		var cause string
		tag := func(a slog.Attr) bool {
			switch a.Key {
			case "user_id":
				scope.SetUser(sentry.User{ID: a.Value.String()})
			case "error":
				cause = a.Value.String()
			default:
				scope.SetTag(a.Key, a.Value.String())
			}
			return true
		}
		for _, a := range h.attrs {
			tag(a)
		}
		record.Attrs(tag)

		if cause != "" {
			hub.CaptureException(fmt.Errorf("%s: %s", record.Message, cause))
			return
		}
		hub.CaptureMessage(record.Message)
	})
	return nil
}

func (h *SentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &SentryHandler{hub: h.hub, attrs: merged}
}

func (h *SentryHandler) WithGroup(string) slog.Handler {
	return h
}
