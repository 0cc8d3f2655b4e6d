// Package slogx provides [slog.Handler] wrappers: one that keeps only the latest value of repeated attributes, and one that fans records out to several handlers.
package slogx
