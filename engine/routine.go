package engine

import "context"

// Plain is a routine that runs to completion without yielding.
type Plain[E any] func(ctx context.Context, ev E, args []any) (any, error)

// Body is a coroutine routine. It suspends by calling [Co.Yield].
type Body[E any] func(ctx context.Context, ev E, args []any, co *Co) (any, error)

// Args is a Pre step result used verbatim as the rest-of-chain arguments.
type Args []any

// Kind tells plain routines apart from coroutines.
type Kind int

const (
	KindPlain Kind = iota + 1
	KindCoroutine
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindCoroutine:
		return "coroutine"
	default:
		return "none"
	}
}

// Routine is either a [Plain] function or a coroutine [Body].
// The variant is fixed when the routine is created.
type Routine[E any] struct {
	kind  Kind
	plain Plain[E]
	body  Body[E]
}

// PlainRoutine wraps fn as a [Routine].
func PlainRoutine[E any](fn Plain[E]) Routine[E] {
	if fn == nil {
		return Routine[E]{}
	}
	return Routine[E]{kind: KindPlain, plain: fn}
}

// CoroutineRoutine wraps fn as a [Routine].
func CoroutineRoutine[E any](fn Body[E]) Routine[E] {
	if fn == nil {
		return Routine[E]{}
	}
	return Routine[E]{kind: KindCoroutine, body: fn}
}

func (r Routine[E]) Kind() Kind {
	return r.kind
}

// IsZero reports whether r has no function.
func (r Routine[E]) IsZero() bool {
	return r.kind == 0
}

// Step is a unit of a chain.
type Step[E any] interface {
	Routine() Routine[E]
	Timing() Timing
}
