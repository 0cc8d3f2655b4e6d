package slogx

import (
	"context"
	"log/slog"
	"maps"
	"slices"
)

var _ slog.Handler = (*DedupeHandler)(nil)

// DedupeHandler keeps a single value per attribute key, so loggers derived repeatedly with the same keys don't repeat them in output.
// The most recently added value wins. Keys are qualified with the current group.
type DedupeHandler struct {
	group string
	seen  map[string]int // qualified key -> index in attrs
	attrs []slog.Attr
	impl  slog.Handler
}

// NewDedupeHandler wraps impl. It panics if impl is nil.
func NewDedupeHandler(impl slog.Handler) slog.Handler {
	if impl == nil {
		panic("nil implementing handler")
	}
	if existing, ok := impl.(*DedupeHandler); ok {
		return existing
	}
	return &DedupeHandler{
		seen: map[string]int{},
		impl: impl,
	}
}

func (h *DedupeHandler) qualify(key string) string {
	if len(h.group) == 0 {
		return key
	}
	return h.group + "." + key
}

func (h *DedupeHandler) clone() *DedupeHandler {
	return &DedupeHandler{
		group: h.group,
		seen:  maps.Clone(h.seen),
		attrs: slices.Clone(h.attrs),
		impl:  h.impl,
	}
}

func (h *DedupeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.impl.Enabled(ctx, level)
}

func (h *DedupeHandler) Handle(ctx context.Context, record slog.Record) error {
	merged := h
	if record.NumAttrs() > 0 {
		attrs := make([]slog.Attr, 0, record.NumAttrs())
		record.Attrs(func(attr slog.Attr) bool {
			attrs = append(attrs, attr)
			return true
		})
		record = slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
		merged = h.WithAttrs(attrs).(*DedupeHandler)
	}
	return merged.impl.WithAttrs(merged.attrs).Handle(ctx, record)
}

func (h *DedupeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	cp := h.clone()
	for _, attr := range attrs {
		attr.Key = cp.qualify(attr.Key)
		if i, ok := cp.seen[attr.Key]; ok {
			cp.attrs[i] = attr
			continue
		}
		cp.seen[attr.Key] = len(cp.attrs)
		cp.attrs = append(cp.attrs, attr)
	}
	return cp
}

func (h *DedupeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	cp := h.clone()
	cp.group = cp.qualify(name)
	return cp
}
