package engine

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
)

// Config configures an [Engine].
type Config[E any] struct {
	// Logger receives step and task diagnostics. Output is discarded if nil.
	Logger *slog.Logger
	// Annotate is applied to every error returned from a failed step.
	// It's expected to be idempotent, since an error can pass through several nested steps.
	Annotate func(ev E, step Step[E], err error) error
	// Effects adds or replaces effect handlers by kind.
	Effects map[string]EffectHandler[E]
}

// Engine runs chains of steps for events of type E.
// It's safe for concurrent use once created.
type Engine[E any] struct {
	logger   *slog.Logger
	annotate func(E, Step[E], error) error
	effects  map[string]EffectHandler[E]
}

// New creates an [Engine] with the built-in effects plus any in conf.
func New[E any](conf Config[E]) *Engine[E] {
	eng := &Engine[E]{
		logger:   conf.Logger,
		annotate: conf.Annotate,
		effects: map[string]EffectHandler[E]{
			KindNext:  handleNext[E],
			KindAwait: handleAwait[E],
			KindThrow: handleThrow[E],
		},
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.DiscardHandler)
	}
	if eng.annotate == nil {
		eng.annotate = func(_ E, _ Step[E], err error) error { return err }
	}
	maps.Copy(eng.effects, conf.Effects)
	return eng
}

// Run executes steps in order for ev, starting with args, and returns the result of the last step that ran.
// Running zero steps returns nil.
func (e *Engine[E]) Run(ctx context.Context, mode Mode, ev E, steps []Step[E], args []any) (any, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	r := &run[E]{
		eng:   e,
		ev:    ev,
		mode:  Resolve(mode, steps),
		steps: steps,
	}
	return r.exec(ctx, 0, args)
}

// Start runs steps like [Engine.Run] in a new goroutine and returns a handle to the result.
// The chain isn't cancelled when ctx is, but values from ctx are still visible to it.
func (e *Engine[E]) Start(ctx context.Context, mode Mode, ev E, steps []Step[E], args []any) *Task {
	t := newTask()
	ctx = context.WithoutCancel(ctx)
	go func() {
		result, err := e.Run(ctx, mode, ev, steps, args)
		if err != nil {
			e.logger.Warn("Background chain failed", "error", err)
		}
		t.settle(result, err)
	}()
	return t
}

func (e *Engine[E]) perform(ctx context.Context, eff Effect, f *Frame[E]) (any, error) {
	if eff == nil {
		return nil, Fatal(&UnsupportedEffectError{})
	}
	handle, ok := e.effects[eff.Effect()]
	if !ok {
		return nil, Fatal(&UnsupportedEffectError{Kind: eff.Effect()})
	}
	return handle(ctx, eff, f)
}

type run[E any] struct {
	eng   *Engine[E]
	ev    E
	mode  Mode
	steps []Step[E]
}

func (r *run[E]) exec(ctx context.Context, from int, args []any) (any, error) {
	var result any
	for i := from; i < len(r.steps); i++ {
		f := &Frame[E]{
			run:   r,
			index: i,
			step:  r.steps[i],
			args:  args,
		}
		if err := ctx.Err(); err != nil {
			return nil, r.eng.annotate(r.ev, f.step, err)
		}
		val, err := f.execute(ctx)
		if err != nil {
			return nil, err
		}
		result = val
		if f.delegated {
			break
		}
	}
	return result, nil
}
