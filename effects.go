package hooter

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/saylorsolutions/hooter/engine"
)

const (
	KindToot = "toot"
	KindHook = "hook"
	KindFork = "fork"
)

type (
	Effect    = engine.Effect
	Awaitable = engine.Awaitable
	AwaitFunc = engine.AwaitFunc
	Task      = engine.Task
)

// TootEffect dispatches a nested event and resumes with its result.
// A failed dispatch is delivered to the coroutine as an error, and the coroutine decides whether to fail with it.
type TootEffect struct {
	Event UserEvent
	Args  []any
}

func (TootEffect) Effect() string { return KindToot }

// Toot dispatches the named event from inside a coroutine.
func Toot(name string, args ...any) Effect {
	return TootEffect{Event: UserEvent{Name: name}, Args: args}
}

// TootWith dispatches the named event with a callback from inside a coroutine.
func TootWith(name string, cb any, args ...any) Effect {
	return TootEffect{Event: UserEvent{Name: name, Callback: cb}, Args: args}
}

// TootEvent dispatches ev from inside a coroutine.
func TootEvent(ev UserEvent, args ...any) Effect {
	return TootEffect{Event: ev, Args: args}
}

// HookEffect registers a handler and resumes with the new [*Handler].
type HookEffect struct {
	Pattern string
	Fn      any
	Options []HookOption
}

func (HookEffect) Effect() string { return KindHook }

func Hook(pattern string, fn any, opts ...HookOption) Effect {
	return HookEffect{Pattern: pattern, Fn: fn, Options: opts}
}

func HookStart(pattern string, fn any, opts ...HookOption) Effect {
	return HookEffect{Pattern: pattern, Fn: fn, Options: prepend(AtStart(), opts)}
}

func HookEnd(pattern string, fn any, opts ...HookOption) Effect {
	return HookEffect{Pattern: pattern, Fn: fn, Options: prepend(AtEnd(), opts)}
}

func HookPre(pattern string, fn any, opts ...HookOption) Effect {
	return HookEffect{Pattern: pattern, Fn: fn, Options: prepend(Pre(), opts)}
}

func HookPost(pattern string, fn any, opts ...HookOption) Effect {
	return HookEffect{Pattern: pattern, Fn: fn, Options: prepend(Post(), opts)}
}

// ForkEffect runs Fn in the background for the current event, and resumes immediately with its [*Task].
type ForkEffect struct {
	Mode Mode
	Fn   any
	Args []any
}

func (ForkEffect) Effect() string { return KindFork }

// Fork runs fn in the background under mode. An empty mode is [ModeAuto].
func Fork(mode Mode, fn any, args ...any) Effect {
	return ForkEffect{Mode: mode, Fn: fn, Args: args}
}

// Next runs the rest of the chain with args and resumes with its result.
func Next(args ...any) Effect {
	return engine.Next(args...)
}

// Proceed runs the rest of the chain with the current arguments and resumes with its result.
func Proceed() Effect {
	return engine.Proceed()
}

// Await resumes with the settled value of a. It's a [ErrModeViolation] in sync mode.
func Await(a Awaitable) Effect {
	return engine.Await(a)
}

// Throw fails the dispatch with err.
func Throw(err error) Effect {
	return engine.Throw(err)
}

// surfaceOf is the surface the yielding handler was hooked through.
func surfaceOf(f *Frame, fallback surface) surface {
	if h, ok := f.Step().(*Handler); ok && h.via != nil {
		return h.via
	}
	return fallback
}

func mismatch(eff Effect) error {
	return engine.Fatal(fmt.Errorf("%w: %T for kind %q", ErrUnsupportedEffect, eff, eff.Effect()))
}

func (d *Dispatcher) handleToot(ctx context.Context, eff Effect, f *Frame) (any, error) {
	toot, ok := engine.As[TootEffect](eff)
	if !ok {
		return nil, mismatch(eff)
	}
	return surfaceOf(f, d).toot(ctx, tootRequest{
		name:   toot.Event.Name,
		fields: toot.Event.Fields,
		cb:     toot.Event.Callback,
		args:   toot.Args,
	})
}

func (d *Dispatcher) handleHook(_ context.Context, eff Effect, f *Frame) (any, error) {
	hook, ok := engine.As[HookEffect](eff)
	if !ok {
		return nil, mismatch(eff)
	}
	return surfaceOf(f, d).hook(hook.Pattern, hook.Fn, hook.Options)
}

func (d *Dispatcher) handleFork(ctx context.Context, eff Effect, f *Frame) (any, error) {
	fork, ok := engine.As[ForkEffect](eff)
	if !ok {
		return nil, mismatch(eff)
	}
	mode := fork.Mode
	if mode == "" {
		mode = ModeAuto
	}
	if !mode.Valid() {
		return nil, validationError("invalid fork mode %q", mode)
	}
	ev := f.Event()
	h, err := surfaceOf(f, d).detached(ev.Name(), fork.Fn, []HookOption{Named("fork")})
	if err != nil {
		return nil, err
	}
	trace.SpanFromContext(ctx).AddEvent("hooter.fork", trace.WithAttributes(
		attribute.String("hooter.event", ev.Name()),
		attribute.String("hooter.mode", string(mode)),
	))
	d.logger.Debug("Forking handler", "event", ev.Name(), "mode", mode)
	return d.engine.Start(ctx, mode, ev, []engine.Step[*Event]{h}, fork.Args), nil
}
