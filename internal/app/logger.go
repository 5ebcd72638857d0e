package app

import (
	"io"
	"log/slog"
)

// newLogger builds an isolated slog.Logger writing to outW. The level and
// format arrive as the resolved config strings; an empty or unknown level
// means info, and any format other than "json" selects the text handler.
// The global default logger is never touched, so tests and the bootstrap
// logger stay independent.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if levelStr != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(levelStr)); err == nil {
			level = parsed
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
