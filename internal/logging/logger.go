package logging

import (
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output to stdout.
func Setup() {
	slog.SetDefault(slog.New(StdoutHandler()))
}

func StdoutHandler() slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}

// Install replaces the default logger with one that fans out to stdout and
// every extra handler.
func Install(extra ...slog.Handler) {
	handlers := append([]slog.Handler{StdoutHandler()}, extra...)
	slog.SetDefault(slog.New(NewMultiHandler(handlers...)))
}
