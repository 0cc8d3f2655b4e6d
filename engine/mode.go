package engine

import "fmt"

// Mode controls how a chain treats suspended results.
type Mode string

const (
	// ModeAuto resolves to ModeSync if every step is plain, and ModeAsync otherwise.
	ModeAuto Mode = "auto"
	// ModeAsIs applies no coercion. Awaitable results are returned untouched, and awaits are allowed.
	ModeAsIs Mode = "asIs"
	// ModeSync forbids awaiting. Awaitable results and await effects are a mode violation.
	ModeSync Mode = "sync"
	// ModeAsync awaits Awaitable results and allows await effects.
	ModeAsync Mode = "async"
)

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeAuto, ModeAsIs, ModeSync, ModeAsync:
		return true
	default:
		return false
	}
}

// ParseMode validates s as a [Mode].
// An empty string is [ModeAuto].
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeAuto, nil
	}
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	return m, nil
}

// Resolve returns the effective mode for running steps under m.
func Resolve[E any](m Mode, steps []Step[E]) Mode {
	if m != ModeAuto {
		return m
	}
	for _, step := range steps {
		if step.Routine().Kind() == KindCoroutine {
			return ModeAsync
		}
	}
	return ModeSync
}

// Timing controls where a step runs relative to the rest of the chain.
type Timing int

const (
	// TimingDefault runs the step, then continues the chain with the same arguments.
	TimingDefault Timing = iota
	// TimingPre runs the step first, and its result becomes the arguments for the rest of the chain.
	// A []any result replaces the arguments and a nil result keeps them. Return [Args] to pass
	// a single []any or nil argument.
	TimingPre
	// TimingPost runs the rest of the chain first, and the step receives its result as the only argument.
	TimingPost
)

func (t Timing) String() string {
	switch t {
	case TimingDefault:
		return "default"
	case TimingPre:
		return "pre"
	case TimingPost:
		return "post"
	default:
		return fmt.Sprintf("Timing(%d)", int(t))
	}
}

// Status is the lifecycle state of a step or task.
type Status int32

const (
	StatusPending Status = iota
	StatusRunning
	StatusSuspended
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSuspended:
		return "suspended"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int32(s))
	}
}
