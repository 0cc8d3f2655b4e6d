package slogx

import (
	"context"
	"errors"
	"log/slog"
)

var _ slog.Handler = (*handlerJoiner)(nil)

type handlerJoiner struct {
	a, b slog.Handler
}

func (h *handlerJoiner) Enabled(ctx context.Context, level slog.Level) bool {
	return h.a.Enabled(ctx, level) || h.b.Enabled(ctx, level)
}

// Handle passes the record to every handler that accepts its level.
func (h *handlerJoiner) Handle(ctx context.Context, record slog.Record) error {
	var aerr, berr error
	if h.a.Enabled(ctx, record.Level) {
		aerr = h.a.Handle(ctx, record.Clone())
	}
	if h.b.Enabled(ctx, record.Level) {
		berr = h.b.Handle(ctx, record.Clone())
	}
	return errors.Join(aerr, berr)
}

func (h *handlerJoiner) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handlerJoiner{a: h.a.WithAttrs(attrs), b: h.b.WithAttrs(attrs)}
}

func (h *handlerJoiner) WithGroup(name string) slog.Handler {
	return &handlerJoiner{a: h.a.WithGroup(name), b: h.b.WithGroup(name)}
}

// MergeHandlers fans records out to every given handler.
// Nil handlers are skipped, and if only one remains it's returned as is.
func MergeHandlers(handlers ...slog.Handler) slog.Handler {
	var merged slog.Handler
	for _, h := range handlers {
		switch {
		case h == nil:
			continue
		case merged == nil:
			merged = h
		default:
			merged = &handlerJoiner{a: merged, b: h}
		}
	}
	if merged == nil {
		return slog.DiscardHandler
	}
	return merged
}
