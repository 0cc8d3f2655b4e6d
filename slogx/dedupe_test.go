package slogx

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBuffered(buf *bytes.Buffer) *slog.Logger {
	return slog.New(NewDedupeHandler(slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}

func TestDedupeHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := newBuffered(&buf)
	log = log.With("event", "a")
	log = log.With("event", "a.nested")
	log = log.With("depth", 1, "event", "a.nested.again")
	log.Info("Test")
	handler := log.Handler().(*DedupeHandler)
	assert.Equal(t, 1, strings.Count(buf.String(), "event="))
	assert.Contains(t, buf.String(), "event=a.nested.again")
	assert.Len(t, handler.attrs, 2)
	assert.Len(t, handler.seen, 2)
}

func TestDedupeHandler_RecordAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := newBuffered(&buf).With("event", "outer")
	log.Info("Test", "event", "inner")
	assert.Equal(t, 1, strings.Count(buf.String(), "event="))
	assert.Contains(t, buf.String(), "event=inner")
}

func TestDedupeHandler_Immutable(t *testing.T) {
	var buf bytes.Buffer
	base := newBuffered(&buf).With("event", "base")
	_ = base.With("event", "derived")
	base.Info("Test")
	assert.Contains(t, buf.String(), "event=base", "Deriving a logger must not change its parent")
}

func TestDedupeHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	log := newBuffered(&buf)
	log = log.With("testkey", 1)
	log = log.With("testkey", 2)
	log = log.WithGroup("group")
	log = log.With("groupkey", 1)
	log = log.With("groupkey", 2)
	log.Info("Test")
	handler := log.Handler().(*DedupeHandler)
	assert.Equal(t, 1, strings.Count(buf.String(), "testkey"))
	assert.Equal(t, 1, strings.Count(buf.String(), "group.groupkey"))
	assert.Len(t, handler.attrs, 2)
}

func TestDedupeHandler_Rewrap(t *testing.T) {
	h := NewDedupeHandler(slog.DiscardHandler)
	assert.Same(t, h, NewDedupeHandler(h), "Wrapping twice must not nest")
}

func TestDedupeHandler_NilImpl(t *testing.T) {
	assert.Panics(t, func() {
		NewDedupeHandler(nil)
	})
}
