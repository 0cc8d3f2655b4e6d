package hooter

import (
	"errors"
	"fmt"

	"github.com/saylorsolutions/hooter/engine"
	"github.com/saylorsolutions/hooter/order"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrDuplicateRegistration = errors.New("event already registered")
	ErrUnresolvableOrdering  = order.ErrUnresolvable
	ErrMissingSource         = errors.New("scope has no source dispatcher")
	ErrForbiddenEvent        = fmt.Errorf("%w: event not allowed", ErrValidation)
	ErrMaxDepth              = errors.New("maximum dispatch depth exceeded")
	ErrModeViolation         = engine.ErrModeViolation
	ErrUnsupportedEffect     = engine.ErrUnsupportedEffect
)

// OrderingError identifies the handlers whose declared dependencies contradict each other.
type OrderingError = order.CycleError[*Handler]

// UnsupportedEffectError is returned when a coroutine yields an effect with no handler.
type UnsupportedEffectError = engine.UnsupportedEffectError

// PanicError is returned when a handler panics.
type PanicError = engine.PanicError

// HandlerError annotates a failure with the event that was being dispatched.
// An error is annotated once, so an error that crosses nested dispatches keeps the event it originated in.
type HandlerError struct {
	Event   *Event
	Handler *Handler
	Err     error
}

func (e *HandlerError) Error() string {
	if e.Handler == nil {
		return fmt.Sprintf("event %q: %v", e.Event.Name(), e.Err)
	}
	return fmt.Sprintf("event %q: handler %s: %v", e.Event.Name(), e.Handler, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

func annotate(ev *Event, step engine.Step[*Event], err error) error {
	var existing *HandlerError
	if errors.As(err, &existing) {
		return err
	}
	h, _ := step.(*Handler)
	return &HandlerError{Event: ev, Handler: h, Err: err}
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
