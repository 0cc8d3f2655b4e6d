package hooter

import (
	"context"
	"slices"
	"sync"

	"github.com/saylorsolutions/hooter/syncx"
)

// Observer receives each value captured by a [ResultHandler].
type Observer func(result any)

// ResultHandler is a Post handler that records the result of the handlers that run after it.
// The result passes through unchanged.
type ResultHandler struct {
	*Handler

	mux       sync.RWMutex
	value     any
	set       bool
	observers []Observer
}

func hookResult(via surface, pattern string, opts []HookOption) (*ResultHandler, error) {
	rh := new(ResultHandler)
	h, err := via.hook(pattern, HandlerFunc(rh.capture), append(slices.Clone(opts), Post()))
	if err != nil {
		return nil, err
	}
	rh.Handler = h
	return rh, nil
}

func (r *ResultHandler) capture(_ context.Context, _ *Event, args []any) (any, error) {
	var result any
	if len(args) > 0 {
		result = args[0]
	}
	observers := syncx.LockFuncT(&r.mux, func() []Observer {
		r.value, r.set = result, true
		return slices.Clone(r.observers)
	})
	for _, obs := range observers {
		obs(result)
	}
	return result, nil
}

// Value returns the latest captured result, and whether anything has been captured yet.
func (r *ResultHandler) Value() (any, bool) {
	return syncx.RLockFuncTOk(&r.mux, func() (any, bool) {
		return r.value, r.set
	})
}

// Observe calls obs with every result captured from now on.
func (r *ResultHandler) Observe(obs Observer) {
	if obs == nil {
		return
	}
	syncx.LockFunc(&r.mux, func() {
		r.observers = append(r.observers, obs)
	})
}
