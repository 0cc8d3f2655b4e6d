package cli

import (
	"errors"
)

var (
	ErrArgMap = errors.New("unable to map arguments")
)

// MustGet unwraps a [pflag.FlagSet] getter, panicking if the flag isn't defined with that type.
func MustGet[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MapArgs assigns positional args to targets in order.
// Fewer than required args is a [UsageError]. Extra args are left alone.
func MapArgs(args []string, required int, targets ...*string) error {
	if required > len(targets) {
		return errors.Join(ErrArgMap, errors.New("more arguments required than targets given"))
	}
	if len(args) < required {
		return NewUsageError("%w: expected at least %d arguments, got %d", ErrArgMap, required, len(args))
	}
	for i, target := range targets {
		if i >= len(args) {
			break
		}
		if target == nil {
			return errors.Join(ErrArgMap, errors.New("nil target"))
		}
		*target = args[i]
	}
	return nil
}
