package hooter

import (
	"context"
	"fmt"
	"slices"

	"github.com/saylorsolutions/hooter/engine"
	"github.com/saylorsolutions/hooter/order"
)

// HandlerFunc is a plain handler. Its result becomes the dispatch result if it's the last to run.
type HandlerFunc func(ctx context.Context, ev *Event, args []any) (any, error)

// CoroutineFunc is a handler that can yield effects with co.
type CoroutineFunc func(ctx context.Context, ev *Event, args []any, co *Co) (any, error)

type (
	Co      = engine.Co
	Routine = engine.Routine[*Event]
	Timing  = engine.Timing
)

const (
	TimingDefault = engine.TimingDefault
	TimingPre     = engine.TimingPre
	TimingPost    = engine.TimingPost
)

// Priority places a handler ahead of or behind every other handler of the same event.
type Priority int

const (
	PriorityNormal Priority = iota
	PriorityStart
	PriorityEnd
)

func (p Priority) String() string {
	switch p {
	case PriorityNormal:
		return "normal"
	case PriorityStart:
		return "start"
	case PriorityEnd:
		return "end"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// ParsePriority accepts the names returned by [Priority.String]. An empty string is [PriorityNormal].
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "", "normal":
		return PriorityNormal, nil
	case "start":
		return PriorityStart, nil
	case "end":
		return PriorityEnd, nil
	default:
		return 0, validationError("unknown priority %q", s)
	}
}

// ParseTiming accepts the names returned by [engine.Timing.String]. An empty string is [TimingDefault].
func ParseTiming(s string) (Timing, error) {
	switch s {
	case "", "default":
		return TimingDefault, nil
	case "pre":
		return TimingPre, nil
	case "post":
		return TimingPost, nil
	default:
		return 0, validationError("unknown timing %q", s)
	}
}

// Plain wraps fn as a [Routine].
func Plain(fn HandlerFunc) Routine {
	return engine.PlainRoutine(engine.Plain[*Event](fn))
}

// Coroutine wraps fn as a [Routine].
func Coroutine(fn CoroutineFunc) Routine {
	return engine.CoroutineRoutine(engine.Body[*Event](fn))
}

func toRoutine(fn any) (Routine, error) {
	var r Routine
	switch f := fn.(type) {
	case Routine:
		r = f
	case HandlerFunc:
		r = Plain(f)
	case func(context.Context, *Event, []any) (any, error):
		r = Plain(f)
	case engine.Plain[*Event]:
		r = engine.PlainRoutine(f)
	case CoroutineFunc:
		r = Coroutine(f)
	case func(context.Context, *Event, []any, *Co) (any, error):
		r = Coroutine(f)
	case engine.Body[*Event]:
		r = engine.CoroutineRoutine(f)
	default:
		return Routine{}, validationError("unsupported handler type %T", fn)
	}
	if r.IsZero() {
		return Routine{}, validationError("nil handler")
	}
	return r, nil
}

type hookConfig struct {
	name     string
	tags     []string
	before   []string
	after    []string
	priority Priority
	timing   Timing
}

// HookOption configures a handler as it's hooked.
type HookOption func(*hookConfig) error

func validTags(kind string, tags []string) error {
	for _, tag := range tags {
		if tag == "" {
			return validationError("empty %s tag", kind)
		}
	}
	return nil
}

// WithTags gives the handler tags that other handlers can order themselves against.
func WithTags(tags ...string) HookOption {
	return func(conf *hookConfig) error {
		if err := validTags("handler", tags); err != nil {
			return err
		}
		conf.tags = append(conf.tags, tags...)
		return nil
	}
}

// GoesBefore makes the handler run before handlers carrying any of tags.
func GoesBefore(tags ...string) HookOption {
	return func(conf *hookConfig) error {
		if err := validTags("goes-before", tags); err != nil {
			return err
		}
		conf.before = append(conf.before, tags...)
		return nil
	}
}

// GoesAfter makes the handler run after handlers carrying any of tags.
func GoesAfter(tags ...string) HookOption {
	return func(conf *hookConfig) error {
		if err := validTags("goes-after", tags); err != nil {
			return err
		}
		conf.after = append(conf.after, tags...)
		return nil
	}
}

// Named sets a label used in logs and errors.
func Named(name string) HookOption {
	return func(conf *hookConfig) error {
		conf.name = name
		return nil
	}
}

// AtStart runs the handler before handlers without a priority.
func AtStart() HookOption {
	return WithPriority(PriorityStart)
}

// AtEnd runs the handler after handlers without a priority.
func AtEnd() HookOption {
	return WithPriority(PriorityEnd)
}

func WithPriority(p Priority) HookOption {
	return func(conf *hookConfig) error {
		if p < PriorityNormal || p > PriorityEnd {
			return validationError("unknown priority %v", p)
		}
		conf.priority = p
		return nil
	}
}

// Args is returned by a Pre handler to set the rest-of-chain arguments exactly,
// including a single []any or nil argument.
type Args = engine.Args

// Pre makes the handler's result the arguments for the rest of the chain.
// A []any result replaces the arguments, nil keeps them, and anything else becomes the only argument.
func Pre() HookOption {
	return WithTiming(TimingPre)
}

// Post runs the handler after the rest of the chain, passing it the rest of the chain's result.
func Post() HookOption {
	return WithTiming(TimingPost)
}

func WithTiming(t Timing) HookOption {
	return func(conf *hookConfig) error {
		if t < TimingDefault || t > TimingPost {
			return validationError("unknown timing %v", t)
		}
		conf.timing = t
		return nil
	}
}

// Handler is a registered routine.
// The same function hooked twice is two distinct handlers.
type Handler struct {
	id         string
	key        string
	name       string
	routine    Routine
	timing     Timing
	priority   Priority
	owner      any
	tags       []string
	goesBefore []string
	goesAfter  []string
	via        surface
	root       *Dispatcher
}

var (
	_ engine.Step[*Event] = (*Handler)(nil)
	_ order.Item          = (*Handler)(nil)
)

func (h *Handler) ID() string {
	return h.id
}

// Key is the pattern the handler was hooked with.
func (h *Handler) Key() string {
	return h.key
}

func (h *Handler) Name() string {
	return h.name
}

func (h *Handler) Kind() engine.Kind {
	return h.routine.Kind()
}

func (h *Handler) Routine() Routine {
	return h.routine
}

func (h *Handler) Timing() Timing {
	return h.timing
}

func (h *Handler) Priority() Priority {
	return h.priority
}

// Owner is the owner of the [Scope] the handler was hooked through, or nil.
func (h *Handler) Owner() any {
	return h.owner
}

func (h *Handler) Tags() []string {
	return slices.Clone(h.tags)
}

// GoesBefore includes the global tag for [PriorityStart] handlers.
func (h *Handler) GoesBefore() []string {
	return slices.Clone(h.goesBefore)
}

// GoesAfter includes the global tag for [PriorityEnd] handlers.
func (h *Handler) GoesAfter() []string {
	return slices.Clone(h.goesAfter)
}

// Unhook removes the handler from its dispatcher.
// Dispatches already in progress are not affected.
func (h *Handler) Unhook() {
	if h.root == nil {
		return
	}
	h.root.unhook(h)
}

func (h *Handler) String() string {
	if h.name != "" {
		return h.name
	}
	return fmt.Sprintf("%s(%s)", h.key, h.id[:8])
}
