package hooter

import (
	"context"
	"fmt"
	"maps"
	"reflect"
)

// Scope is a view of a [Dispatcher] that stamps an owner on the handlers hooked and the events tooted through it.
// It holds no handlers of its own.
type Scope struct {
	root   *Dispatcher
	owner  any
	deny   map[string]struct{}
	allow  map[string]struct{}
	strict *bool
}

var _ surface = (*Scope)(nil)

// ScopeOption configures a [Scope].
type ScopeOption func(*Scope)

// Deny rejects toots of the given event names with [ErrForbiddenEvent].
func Deny(names ...string) ScopeOption {
	return func(s *Scope) {
		s.deny = addNames(s.deny, names)
	}
}

// Allow rejects toots of any event name not given here with [ErrForbiddenEvent].
func Allow(names ...string) ScopeOption {
	return func(s *Scope) {
		s.allow = addNames(s.allow, names)
	}
}

// StrictEvents overrides the dispatcher's policy on tooting unregistered events.
func StrictEvents(strict bool) ScopeOption {
	return func(s *Scope) {
		s.strict = &strict
	}
}

func addNames(set map[string]struct{}, names []string) map[string]struct{} {
	if set == nil {
		set = make(map[string]struct{}, len(names))
	}
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Owner is the identity stamped by this scope.
func (s *Scope) Owner() any {
	return s.owner
}

// Dispatcher returns the dispatcher the scope forwards to, or nil.
func (s *Scope) Dispatcher() *Dispatcher {
	return s.root
}

// Permits reports whether the scope may toot name.
func (s *Scope) Permits(name string) bool {
	if _, denied := s.deny[name]; denied {
		return false
	}
	if len(s.allow) == 0 {
		return true
	}
	_, ok := s.allow[name]
	return ok
}

func (s *Scope) Hook(pattern string, fn any, opts ...HookOption) (*Handler, error) {
	return s.hook(pattern, fn, opts)
}

func (s *Scope) HookStart(pattern string, fn any, opts ...HookOption) (*Handler, error) {
	return s.hook(pattern, fn, prepend(AtStart(), opts))
}

func (s *Scope) HookEnd(pattern string, fn any, opts ...HookOption) (*Handler, error) {
	return s.hook(pattern, fn, prepend(AtEnd(), opts))
}

func (s *Scope) HookPre(pattern string, fn any, opts ...HookOption) (*Handler, error) {
	return s.hook(pattern, fn, prepend(Pre(), opts))
}

func (s *Scope) HookPost(pattern string, fn any, opts ...HookOption) (*Handler, error) {
	return s.hook(pattern, fn, prepend(Post(), opts))
}

func (s *Scope) HookResult(pattern string, opts ...HookOption) (*ResultHandler, error) {
	return hookResult(s, pattern, opts)
}

// Handlers lists the handlers hooked through any scope with the same owner, filtered like [Dispatcher.Handlers].
// A nil owner matches the handlers hooked directly on the dispatcher.
func (s *Scope) Handlers(needle any) ([]*Handler, error) {
	if s.root == nil {
		return nil, ErrMissingSource
	}
	all, err := s.root.Handlers(needle)
	if err != nil {
		return nil, err
	}
	owned := make([]*Handler, 0, len(all))
	for _, h := range all {
		if sameOwner(h.owner, s.owner) {
			owned = append(owned, h)
		}
	}
	return owned, nil
}

// Unhook forwards to [Dispatcher.Unhook], so a pattern removes overlapping handlers of every owner.
func (s *Scope) Unhook(needle any) error {
	if s.root == nil {
		return ErrMissingSource
	}
	return s.root.Unhook(needle)
}

func (s *Scope) Toot(ctx context.Context, name string, args ...any) (any, error) {
	return s.toot(ctx, tootRequest{name: name, args: args})
}

func (s *Scope) TootWith(ctx context.Context, name string, cb any, args ...any) (any, error) {
	if cb == nil {
		return nil, validationError("nil callback")
	}
	return s.toot(ctx, tootRequest{name: name, cb: cb, args: args})
}

func (s *Scope) TootEvent(ctx context.Context, ev UserEvent, args ...any) (any, error) {
	return s.toot(ctx, tootRequest{name: ev.Name, fields: ev.Fields, cb: ev.Callback, args: args})
}

func (s *Scope) TootFunc(name string) func(ctx context.Context, args ...any) (any, error) {
	return func(ctx context.Context, args ...any) (any, error) {
		return s.Toot(ctx, name, args...)
	}
}

// Bind creates a scope with a different owner, keeping the restrictions of this one.
func (s *Scope) Bind(owner any, opts ...ScopeOption) *Scope {
	child := &Scope{
		root:   s.root,
		owner:  owner,
		deny:   maps.Clone(s.deny),
		allow:  maps.Clone(s.allow),
		strict: s.strict,
	}
	for _, opt := range opts {
		opt(child)
	}
	return child
}

// sameOwner compares owners without panicking on owners that aren't comparable.
func sameOwner(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	// Maps, slices and funcs are the same owner when they share a pointer.
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ta.Kind() {
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	default:
		return false
	}
}

func (s *Scope) hook(pattern string, fn any, opts []HookOption) (*Handler, error) {
	if s.root == nil {
		return nil, ErrMissingSource
	}
	return s.root.register(s, s.owner, pattern, fn, opts)
}

func (s *Scope) toot(ctx context.Context, req tootRequest) (any, error) {
	if s.root == nil {
		return nil, ErrMissingSource
	}
	if !s.Permits(req.name) {
		return nil, fmt.Errorf("%w: %q", ErrForbiddenEvent, req.name)
	}
	req.owner = s.owner
	req.strict = s.root.strict
	if s.strict != nil {
		req.strict = *s.strict
	}
	req.via = s
	return s.root.dispatch(ctx, req)
}

func (s *Scope) detached(key string, fn any, opts []HookOption) (*Handler, error) {
	if s.root == nil {
		return nil, ErrMissingSource
	}
	return s.root.newHandler(s, s.owner, key, fn, opts)
}
