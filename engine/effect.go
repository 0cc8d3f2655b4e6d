package engine

import (
	"context"
	"fmt"
)

const (
	KindNext  = "next"
	KindAwait = "await"
	KindThrow = "throw"
)

// Effect describes work a coroutine asks the engine to perform.
type Effect interface {
	// Effect returns the kind used to find a handler.
	Effect() string
}

// EffectHandler performs an effect on behalf of the step in f.
type EffectHandler[E any] func(ctx context.Context, eff Effect, f *Frame[E]) (any, error)

// Awaitable is a value that settles later.
type Awaitable interface {
	Await(ctx context.Context) (any, error)
}

// AwaitFunc adapts a function to [Awaitable].
type AwaitFunc func(ctx context.Context) (any, error)

func (fn AwaitFunc) Await(ctx context.Context) (any, error) {
	return fn(ctx)
}

// NextEffect runs the rest of the chain and resumes with its result.
type NextEffect struct {
	Args []any
	// Same passes the current step's arguments instead of Args.
	Same bool
}

func (NextEffect) Effect() string { return KindNext }

// Next runs the rest of the chain with args.
func Next(args ...any) Effect {
	return NextEffect{Args: args}
}

// Proceed runs the rest of the chain with the current step's arguments.
func Proceed() Effect {
	return NextEffect{Same: true}
}

// AwaitEffect waits for Value to settle and resumes with its result.
type AwaitEffect struct {
	Value Awaitable
}

func (AwaitEffect) Effect() string { return KindAwait }

// Await waits for a to settle.
func Await(a Awaitable) Effect {
	return AwaitEffect{Value: a}
}

// ThrowEffect fails the current chain with Err.
type ThrowEffect struct {
	Err error
}

func (ThrowEffect) Effect() string { return KindThrow }

// Throw fails the current chain with err.
func Throw(err error) Effect {
	return ThrowEffect{Err: err}
}

// As extracts an effect of type T, accepting both T and *T.
func As[T Effect](eff Effect) (T, bool) {
	switch v := any(eff).(type) {
	case T:
		return v, true
	case *T:
		if v != nil {
			return *v, true
		}
	}
	var zero T
	return zero, false
}

func mismatch(eff Effect) error {
	return Fatal(fmt.Errorf("%w: %T for kind %q", ErrUnsupportedEffect, eff, eff.Effect()))
}

func handleNext[E any](ctx context.Context, eff Effect, f *Frame[E]) (any, error) {
	next, ok := As[NextEffect](eff)
	if !ok {
		return nil, mismatch(eff)
	}
	args := next.Args
	if next.Same {
		args = f.args
	}
	return f.proceed(ctx, args)
}

func handleAwait[E any](ctx context.Context, eff Effect, f *Frame[E]) (any, error) {
	await, ok := As[AwaitEffect](eff)
	if !ok {
		return nil, mismatch(eff)
	}
	if await.Value == nil {
		return nil, Fatal(ErrNilAwaitable)
	}
	if f.run.mode == ModeSync {
		return nil, Fatal(fmt.Errorf("%w: await effect in sync mode", ErrModeViolation))
	}
	return await.Value.Await(ctx)
}

func handleThrow[E any](_ context.Context, eff Effect, f *Frame[E]) (any, error) {
	throw, ok := As[ThrowEffect](eff)
	if !ok {
		return nil, mismatch(eff)
	}
	if throw.Err == nil {
		return nil, Fatal(ErrNilThrow)
	}
	f.status = StatusFailed
	return nil, Fatal(throw.Err)
}
