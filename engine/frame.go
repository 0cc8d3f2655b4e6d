package engine

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"runtime/debug"
	"slices"
)

// Frame is the execution record of one step in a running chain.
type Frame[E any] struct {
	run       *run[E]
	index     int
	step      Step[E]
	args      []any
	status    Status
	delegated bool
}

// Event returns the event the chain is running for.
func (f *Frame[E]) Event() E {
	return f.run.ev
}

// Step returns the step this frame is running.
func (f *Frame[E]) Step() Step[E] {
	return f.step
}

// Index is the position of the step in its chain.
func (f *Frame[E]) Index() int {
	return f.index
}

// Args returns a copy of the arguments the step was called with.
func (f *Frame[E]) Args() []any {
	return slices.Clone(f.args)
}

// Mode is the resolved mode of the chain.
func (f *Frame[E]) Mode() Mode {
	return f.run.mode
}

func (f *Frame[E]) Status() Status {
	return f.status
}

func (f *Frame[E]) execute(ctx context.Context) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			result, err = nil, &PanicError{Value: p, Stack: debug.Stack()}
		}
		if err != nil {
			f.status = StatusFailed
			f.run.eng.logger.Debug("Step failed", "index", f.index, "timing", f.step.Timing(), "error", err)
			err = f.run.eng.annotate(f.run.ev, f.step, err)
			return
		}
		f.status = StatusCompleted
	}()

	f.status = StatusRunning
	switch f.step.Timing() {
	case TimingPost:
		rest, err := f.proceed(ctx, f.args)
		if err != nil {
			return nil, err
		}
		return f.invoke(ctx, []any{rest})
	case TimingPre:
		val, err := f.invoke(ctx, f.args)
		if err != nil || f.delegated {
			return val, err
		}
		return f.proceed(ctx, nextArgs(val, f.args))
	default:
		return f.invoke(ctx, f.args)
	}
}

// proceed runs the steps after this one. It can only happen once per frame.
func (f *Frame[E]) proceed(ctx context.Context, args []any) (any, error) {
	if f.delegated {
		return nil, ErrNextConsumed
	}
	f.delegated = true
	return f.run.exec(ctx, f.index+1, args)
}

func (f *Frame[E]) invoke(ctx context.Context, args []any) (any, error) {
	var (
		routine = f.step.Routine()
		val     any
		err     error
	)
	switch routine.kind {
	case KindPlain:
		val, err = routine.plain(ctx, f.run.ev, args)
	case KindCoroutine:
		val, err = f.drive(ctx, routine.body, args)
	default:
		return nil, ErrEmptyRoutine
	}
	if err != nil {
		return nil, err
	}
	return f.settle(ctx, val)
}

// settle applies the chain mode to a step result that hasn't settled yet.
func (f *Frame[E]) settle(ctx context.Context, val any) (any, error) {
	pending, ok := val.(Awaitable)
	if !ok {
		return val, nil
	}
	switch f.run.mode {
	case ModeSync:
		return nil, fmt.Errorf("%w: step %d returned %T in sync mode", ErrModeViolation, f.index, val)
	case ModeAsync:
		return pending.Await(ctx)
	default:
		return val, nil
	}
}

// drive is the trampoline for a coroutine body.
func (f *Frame[E]) drive(ctx context.Context, body Body[E], args []any) (any, error) {
	var (
		result  any
		bodyErr error
		co      = &Co{mode: f.run.mode}
	)
	next, stop := iter.Pull(func(yield func(Effect) bool) {
		co.yield = yield
		result, bodyErr = body(ctx, f.run.ev, args, co)
	})
	defer stop()

	for {
		f.status = StatusRunning
		eff, ok := next()
		if !ok {
			break
		}
		f.status = StatusSuspended
		val, err := f.run.eng.perform(ctx, eff, f)
		var fatal *fatalError
		if errors.As(err, &fatal) {
			return nil, fatal.err
		}
		co.resume, co.err = val, err
	}
	return result, bodyErr
}

func nextArgs(val any, args []any) []any {
	switch v := val.(type) {
	case nil:
		return args
	case Args:
		return v
	case []any:
		return v
	default:
		return []any{v}
	}
}
