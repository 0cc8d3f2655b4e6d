package cli

import (
	"fmt"
)

// UsageError signals that the command was invoked incorrectly, and its usage should be shown.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	if e.Err == nil {
		return "usage error"
	}
	return "usage error: " + e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// NewUsageError creates a [UsageError] wrapping [fmt.Errorf] of format and args.
func NewUsageError(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}
