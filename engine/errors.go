package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMode       = errors.New("invalid mode")
	ErrModeViolation     = errors.New("mode violation")
	ErrUnsupportedEffect = errors.New("unsupported effect")
	ErrAborted           = errors.New("coroutine aborted")
	ErrNextConsumed      = errors.New("rest of chain already run")
	ErrEmptyRoutine      = errors.New("empty routine")
	ErrNilAwaitable      = errors.New("nothing to await")
	ErrNilThrow          = errors.New("throw effect without an error")
)

// UnsupportedEffectError is returned when no handler is registered for an effect kind.
type UnsupportedEffectError struct {
	Kind string
}

func (e *UnsupportedEffectError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("%s: nil effect", ErrUnsupportedEffect)
	}
	return fmt.Sprintf("%s: %q", ErrUnsupportedEffect, e.Kind)
}

func (e *UnsupportedEffectError) Is(target error) bool {
	return target == ErrUnsupportedEffect
}

// PanicError is returned when a step panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("step panicked: %v", e.Value)
}

type fatalError struct {
	err error
}

func (e *fatalError) Error() string {
	return e.err.Error()
}

func (e *fatalError) Unwrap() error {
	return e.err
}

// Fatal marks an effect handler error as terminating the yielding step instead of being delivered to it.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}
