package args

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedType = errors.New("unexpected argument type")
	ErrNotEnough      = errors.New("not enough arguments")
)

// Get is the most basic way to read an argument, and is most useful when there are only 1 or 2 of them.
// False is returned if pos is out of range, or the argument is nil or not a T.
func Get[T any](args []any, pos int) (T, bool) {
	var zero T
	if pos < 0 || pos >= len(args) || args[pos] == nil {
		return zero, false
	}
	val, ok := args[pos].(T)
	if !ok {
		return zero, false
	}
	return val, true
}

// Assertion checks constraints of a single argument.
// The pos parameter is informational and usually should not be the subject of an assertion.
type Assertion func(pos int, arg any) error

// And chains assertions into one [Assertion].
// Execution stops at the first error.
func (a Assertion) And(other Assertion, more ...Assertion) Assertion {
	return func(pos int, arg any) error {
		if err := a(pos, arg); err != nil {
			return err
		}
		if err := other(pos, arg); err != nil {
			return err
		}
		for _, next := range more {
			if err := next(pos, arg); err != nil {
				return err
			}
		}
		return nil
	}
}

// AnyPass passes if any of the assertions pass.
// If they all fail, all of their errors are returned.
func AnyPass(assertions ...Assertion) Assertion {
	return func(pos int, arg any) error {
		var errs []error
		for _, assertion := range assertions {
			err := assertion(pos, arg)
			if err == nil {
				return nil
			}
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	}
}

// IsType asserts that an argument is a T.
func IsType[T any]() Assertion {
	return func(pos int, arg any) error {
		if _, ok := arg.(T); !ok {
			var expected T
			return fmt.Errorf("%w: argument %d should be %T, but got %T", ErrUnexpectedType, pos, expected, arg)
		}
		return nil
	}
}

func notNil() Assertion {
	return func(pos int, arg any) error {
		if arg == nil {
			return fmt.Errorf("%w: argument %d is nil", ErrUnexpectedType, pos)
		}
		return nil
	}
}

// Store asserts that an argument is a non-nil T and stores it in target.
func Store[T any](target *T) Assertion {
	if target == nil {
		return func(pos int, _ any) error {
			return fmt.Errorf("target for argument %d is a nil pointer", pos)
		}
	}
	return notNil().And(IsType[T](), func(_ int, arg any) error {
		*target = arg.(T)
		return nil
	})
}

// Optional applies ifPresent only when the argument is not nil.
func Optional(ifPresent Assertion) Assertion {
	return func(pos int, arg any) error {
		if arg == nil {
			return nil
		}
		return ifPresent(pos, arg)
	}
}

// Spec creates a function that applies each assertion to the argument at the same position.
// A nil assertion skips its argument, and arguments past the last assertion are not checked.
// Missing arguments are treated as nil, unless there are fewer than minArgs, which fails immediately without running any assertion.
// All assertion errors are joined into the returned error.
func Spec(minArgs int, assertions ...Assertion) func(args []any) error {
	return func(args []any) error {
		if len(args) < minArgs {
			return fmt.Errorf("%w: expected at least %d, got %d", ErrNotEnough, minArgs, len(args))
		}
		var errs []error
		for i, assertion := range assertions {
			if assertion == nil {
				continue
			}
			var arg any
			if i < len(args) {
				arg = args[i]
			}
			if err := assertion(i, arg); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}

// Map stores the first argument in target, which is common for single argument events.
func Map[T any](target *T, args []any) error {
	return Spec(1, Store(target))(args)
}
