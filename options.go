package hooter

import (
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/saylorsolutions/hooter/engine"
)

// EffectHandler performs a custom effect yielded by a coroutine handler.
// Use [engine.Fatal] to fail the yielding handler instead of delivering the error to it.
type EffectHandler = engine.EffectHandler[*Event]

// Frame is the state of a running handler, as seen by an [EffectHandler].
type Frame = engine.Frame[*Event]

type config struct {
	events   map[string]Mode
	strict   bool
	logger   *slog.Logger
	tracer   trace.Tracer
	effects  map[string]EffectHandler
	now      func() time.Time
	maxDepth int
}

// Option configures a [Dispatcher].
type Option func(*config) error

// WithEvents registers events with their modes when the [Dispatcher] is created.
func WithEvents(events map[string]Mode) Option {
	return func(c *config) error {
		if c.events == nil {
			c.events = make(map[string]Mode, len(events))
		}
		for name, mode := range events {
			c.events[name] = mode
		}
		return nil
	}
}

// WithStrictEvents makes tooting an unregistered event a validation error.
func WithStrictEvents(strict bool) Option {
	return func(c *config) error {
		c.strict = strict
		return nil
	}
}

// WithLogger sets the logger for registration and dispatch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return errors.Join(ErrValidation, errors.New("nil logger"))
		}
		c.logger = logger
		return nil
	}
}

// WithTracer creates a span for each dispatch.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) error {
		if tracer == nil {
			return errors.Join(ErrValidation, errors.New("nil tracer"))
		}
		c.tracer = tracer
		return nil
	}
}

// WithEffectHandler handles effects of the given kind.
// Built-in kinds may be replaced.
func WithEffectHandler(kind string, handler EffectHandler) Option {
	return func(c *config) error {
		if kind == "" || handler == nil {
			return validationError("effect handler needs a kind and a function")
		}
		if c.effects == nil {
			c.effects = map[string]EffectHandler{}
		}
		c.effects[kind] = handler
		return nil
	}
}

// WithClock overrides how event times are stamped.
func WithClock(now func() time.Time) Option {
	return func(c *config) error {
		if now == nil {
			return errors.Join(ErrValidation, errors.New("nil clock"))
		}
		c.now = now
		return nil
	}
}

// WithMaxDepth limits how deeply events may be tooted from handlers.
// Zero means no limit.
func WithMaxDepth(depth int) Option {
	return func(c *config) error {
		if depth < 0 {
			return validationError("negative max depth %d", depth)
		}
		c.maxDepth = depth
		return nil
	}
}
