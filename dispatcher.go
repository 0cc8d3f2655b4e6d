package hooter

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/saylorsolutions/hooter/engine"
	"github.com/saylorsolutions/hooter/order"
	"github.com/saylorsolutions/hooter/slogx"
	"github.com/saylorsolutions/hooter/store"
	"github.com/saylorsolutions/hooter/syncx"
	"github.com/saylorsolutions/hooter/wildcard"
)

// surface is what handlers are hooked and events tooted through.
// A handler's effects are performed through the surface it was hooked with.
type surface interface {
	hook(pattern string, fn any, opts []HookOption) (*Handler, error)
	toot(ctx context.Context, req tootRequest) (any, error)
	detached(key string, fn any, opts []HookOption) (*Handler, error)
}

type tootRequest struct {
	name   string
	fields map[string]any
	cb     any
	args   []any
	owner  any
	strict bool
	via    surface
}

// Dispatcher owns the event registry and the handler registry.
// It's safe for concurrent use.
type Dispatcher struct {
	mux      sync.RWMutex
	events   map[string]EventDescriptor
	handlers *store.Store[*Handler]
	engine   *engine.Engine[*Event]
	strict   bool
	maxDepth int
	logger   *slog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

var _ surface = (*Dispatcher)(nil)

// New creates a [Dispatcher].
func New(opts ...Option) (*Dispatcher, error) {
	conf := &config{
		logger: slog.New(slog.DiscardHandler),
		tracer: noop.NewTracerProvider().Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		if err := opt(conf); err != nil {
			return nil, err
		}
	}

	logger := slog.New(slogx.NewDedupeHandler(conf.logger.Handler()))
	handlers, err := store.New[*Handler](store.WithLogger(logger.With("component", "registry")))
	if err != nil {
		return nil, err
	}
	d := &Dispatcher{
		events:   map[string]EventDescriptor{},
		handlers: handlers,
		strict:   conf.strict,
		maxDepth: conf.maxDepth,
		logger:   logger,
		tracer:   conf.tracer,
		now:      conf.now,
	}
	effects := map[string]EffectHandler{
		KindToot: d.handleToot,
		KindHook: d.handleHook,
		KindFork: d.handleFork,
	}
	maps.Copy(effects, conf.effects)
	d.engine = engine.New(engine.Config[*Event]{
		Logger:   logger.With("component", "engine"),
		Annotate: annotate,
		Effects:  effects,
	})

	for _, name := range slices.Sorted(maps.Keys(conf.events)) {
		if err := d.RegisterEvent(name, conf.events[name]); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// RegisterEvent declares an event and the mode its handlers run in.
// Registering a name twice is an error.
func (d *Dispatcher) RegisterEvent(name string, mode Mode, tags ...string) error {
	if !wildcard.Valid(name) {
		return validationError("invalid event name %q", name)
	}
	if !mode.Valid() {
		return validationError("invalid mode %q for event %q", mode, name)
	}
	if err := validTags("event", tags); err != nil {
		return err
	}
	d.mux.Lock()
	defer d.mux.Unlock()
	if _, ok := d.events[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateRegistration, name)
	}
	d.events[name] = EventDescriptor{Name: name, Mode: mode, Tags: slices.Clone(tags)}
	d.logger.Debug("Registered event", "event", name, "mode", mode)
	return nil
}

// Event returns the descriptor of a registered event.
func (d *Dispatcher) Event(name string) (EventDescriptor, bool) {
	return syncx.RLockFuncTOk(&d.mux, func() (EventDescriptor, bool) {
		desc, ok := d.events[name]
		desc.Tags = slices.Clone(desc.Tags)
		return desc, ok
	})
}

// Events returns every registered event, sorted by name.
func (d *Dispatcher) Events() []EventDescriptor {
	return syncx.RLockFuncT(&d.mux, func() []EventDescriptor {
		out := make([]EventDescriptor, 0, len(d.events))
		for _, name := range slices.Sorted(maps.Keys(d.events)) {
			desc := d.events[name]
			desc.Tags = slices.Clone(desc.Tags)
			out = append(out, desc)
		}
		return out
	})
}

// Hook registers fn for events matching pattern.
// fn may be a [HandlerFunc], a [CoroutineFunc], a function with either signature, or a [Routine].
func (d *Dispatcher) Hook(pattern string, fn any, opts ...HookOption) (*Handler, error) {
	return d.hook(pattern, fn, opts)
}

// HookStart is [Dispatcher.Hook] with [AtStart].
func (d *Dispatcher) HookStart(pattern string, fn any, opts ...HookOption) (*Handler, error) {
	return d.hook(pattern, fn, prepend(AtStart(), opts))
}

// HookEnd is [Dispatcher.Hook] with [AtEnd].
func (d *Dispatcher) HookEnd(pattern string, fn any, opts ...HookOption) (*Handler, error) {
	return d.hook(pattern, fn, prepend(AtEnd(), opts))
}

// HookPre is [Dispatcher.Hook] with [Pre].
func (d *Dispatcher) HookPre(pattern string, fn any, opts ...HookOption) (*Handler, error) {
	return d.hook(pattern, fn, prepend(Pre(), opts))
}

// HookPost is [Dispatcher.Hook] with [Post].
func (d *Dispatcher) HookPost(pattern string, fn any, opts ...HookOption) (*Handler, error) {
	return d.hook(pattern, fn, prepend(Post(), opts))
}

// HookResult registers a handler that records the result of the handlers after it.
func (d *Dispatcher) HookResult(pattern string, opts ...HookOption) (*ResultHandler, error) {
	return hookResult(d, pattern, opts)
}

// Handlers finds registered handlers, in the order they would run.
// A nil needle returns every handler, a string returns handlers with a pattern overlapping it, and a [*Handler] returns itself if it's registered.
func (d *Dispatcher) Handlers(needle any) ([]*Handler, error) {
	switch n := needle.(type) {
	case nil:
		return d.handlers.All()
	case string:
		if !wildcard.Valid(n) {
			return nil, validationError("invalid pattern %q", n)
		}
		return d.handlers.Match(n)
	case *Handler:
		if n != nil && d.handlers.Has(n) {
			return []*Handler{n}, nil
		}
		return []*Handler{}, nil
	default:
		return nil, validationError("unsupported needle type %T", needle)
	}
}

// Unhook removes a [*Handler], or every handler with a pattern overlapping a string.
func (d *Dispatcher) Unhook(needle any) error {
	switch n := needle.(type) {
	case string:
		if !wildcard.Valid(n) {
			return validationError("invalid pattern %q", n)
		}
		removed := d.handlers.RemoveMatching(n)
		d.logger.Debug("Unhooked handlers", "pattern", n, "count", removed)
		return nil
	case *Handler:
		if n == nil {
			return validationError("nil handler")
		}
		d.unhook(n)
		return nil
	default:
		return validationError("unsupported needle type %T", needle)
	}
}

// UnhookAll removes every handler.
func (d *Dispatcher) UnhookAll() {
	removed := d.handlers.Clear()
	d.logger.Debug("Unhooked all handlers", "count", removed)
}

func (d *Dispatcher) unhook(h *Handler) {
	if d.handlers.Remove(h) {
		d.logger.Debug("Unhooked handler", "handler", h.String())
	}
}

// Toot dispatches the named event to every matching handler and returns the result of the last handler to run.
func (d *Dispatcher) Toot(ctx context.Context, name string, args ...any) (any, error) {
	return d.toot(ctx, tootRequest{name: name, args: args})
}

// TootWith is [Dispatcher.Toot] with a callback that runs after every matching handler.
func (d *Dispatcher) TootWith(ctx context.Context, name string, cb any, args ...any) (any, error) {
	if cb == nil {
		return nil, validationError("nil callback")
	}
	return d.toot(ctx, tootRequest{name: name, cb: cb, args: args})
}

// TootEvent dispatches a [UserEvent].
func (d *Dispatcher) TootEvent(ctx context.Context, ev UserEvent, args ...any) (any, error) {
	return d.toot(ctx, tootRequest{name: ev.Name, fields: ev.Fields, cb: ev.Callback, args: args})
}

// TootFunc returns a function that toots the named event.
func (d *Dispatcher) TootFunc(name string) func(ctx context.Context, args ...any) (any, error) {
	return func(ctx context.Context, args ...any) (any, error) {
		return d.Toot(ctx, name, args...)
	}
}

// Bind creates a [Scope] that stamps owner on everything hooked or tooted through it.
// Handlers hooked on the dispatcher itself have a nil owner, so a scope bound to nil lists them as its own.
func (d *Dispatcher) Bind(owner any, opts ...ScopeOption) *Scope {
	s := &Scope{root: d, owner: owner}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (d *Dispatcher) hook(pattern string, fn any, opts []HookOption) (*Handler, error) {
	return d.register(d, nil, pattern, fn, opts)
}

func (d *Dispatcher) toot(ctx context.Context, req tootRequest) (any, error) {
	req.strict = d.strict
	req.via = d
	return d.dispatch(ctx, req)
}

func (d *Dispatcher) detached(key string, fn any, opts []HookOption) (*Handler, error) {
	return d.newHandler(d, nil, key, fn, opts)
}

func (d *Dispatcher) register(via surface, owner any, pattern string, fn any, opts []HookOption) (*Handler, error) {
	h, err := d.newHandler(via, owner, pattern, fn, opts)
	if err != nil {
		return nil, err
	}
	d.handlers.Add(h)
	d.logger.Debug("Hooked handler", "pattern", pattern, "handler", h.String(), "priority", h.priority, "timing", h.timing)
	return h, nil
}

func (d *Dispatcher) newHandler(via surface, owner any, pattern string, fn any, opts []HookOption) (*Handler, error) {
	if !wildcard.Valid(pattern) {
		return nil, validationError("invalid pattern %q", pattern)
	}
	routine, err := toRoutine(fn)
	if err != nil {
		return nil, err
	}
	conf := new(hookConfig)
	for _, opt := range opts {
		if err := opt(conf); err != nil {
			return nil, err
		}
	}
	h := &Handler{
		id:         uuid.NewString(),
		key:        pattern,
		name:       conf.name,
		routine:    routine,
		timing:     conf.timing,
		priority:   conf.priority,
		owner:      owner,
		tags:       slices.Clone(conf.tags),
		goesBefore: slices.Clone(conf.before),
		goesAfter:  slices.Clone(conf.after),
		via:        via,
		root:       d,
	}
	switch conf.priority {
	case PriorityStart:
		h.goesBefore = append(h.goesBefore, order.Global)
	case PriorityEnd:
		h.goesAfter = append(h.goesAfter, order.Global)
	}
	return h, nil
}

func (d *Dispatcher) newEvent(ctx context.Context, req tootRequest) (*Event, error) {
	if !wildcard.Valid(req.name) {
		return nil, validationError("invalid event name %q", req.name)
	}
	desc, registered := d.Event(req.name)
	if !registered && req.strict {
		return nil, validationError("event %q is not registered", req.name)
	}
	ev := &Event{
		id:     uuid.NewString(),
		name:   req.name,
		mode:   ModeAuto,
		args:   slices.Clone(req.args),
		fields: maps.Clone(req.fields),
		owner:  req.owner,
		time:   d.now(),
	}
	if registered {
		ev.mode = desc.Mode
		ev.tags = desc.Tags
	}
	if parent, ok := EventFrom(ctx); ok {
		ev.parent = parent
	}
	if req.cb != nil {
		cb, err := req.via.detached(req.name, req.cb, []HookOption{Named("callback")})
		if err != nil {
			return nil, err
		}
		ev.callback = cb
	}
	return ev, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, req tootRequest) (result any, err error) {
	depth := Depth(ctx) + 1
	if d.maxDepth > 0 && depth > d.maxDepth {
		return nil, fmt.Errorf("%w: %q at depth %d", ErrMaxDepth, req.name, depth)
	}
	ev, err := d.newEvent(ctx, req)
	if err != nil {
		return nil, err
	}

	logger := d.logger
	if info, ok := dispatchFrom(ctx); ok && info.logger != nil {
		logger = info.logger
	}
	logger = logger.With("event", ev.Name(), "depth", depth)

	// The matched handlers are fixed for this dispatch, even if handlers are hooked or unhooked while it runs.
	handlers, err := d.handlers.Match(ev.Name())
	if err != nil {
		logger.Warn("Unable to order handlers", "error", err)
		return nil, err
	}
	steps := make([]engine.Step[*Event], 0, len(handlers)+1)
	for _, h := range handlers {
		steps = append(steps, h)
	}
	if ev.callback != nil {
		steps = append(steps, ev.callback)
	}
	if len(steps) == 0 {
		logger.Debug("No handlers for event")
		return nil, nil
	}

	ctx, span := d.startSpan(ctx, ev, len(steps))
	defer func() {
		endSpan(span, err)
	}()
	ctx = withDispatch(ctx, dispatch{event: ev, depth: depth, logger: logger})
	logger.Debug("Dispatching event", "id", ev.ID(), "mode", ev.Mode(), "handlers", len(steps))
	result, err = d.engine.Run(ctx, ev.Mode(), ev, steps, slices.Clone(ev.args))
	if err != nil {
		logger.Debug("Dispatch failed", "error", err)
		return nil, err
	}
	return result, nil
}

func prepend(opt HookOption, opts []HookOption) []HookOption {
	return append([]HookOption{opt}, opts...)
}
