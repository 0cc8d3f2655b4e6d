package main

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/saylorsolutions/hooter/slogx"
)

// newLogger writes human-readable logs to console, and optionally JSON logs to file.
func newLogger(console io.Writer, file io.Writer, level slog.Level) *slog.Logger {
	handlers := []slog.Handler{
		log.NewWithOptions(console, log.Options{
			Prefix: "hootorder",
			Level:  log.Level(level),
		}),
	}
	if file != nil {
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(slogx.MergeHandlers(handlers...))
}
