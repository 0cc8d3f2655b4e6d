package hooter

import (
	"context"
	"log/slog"
)

type dispatchKey struct{}

type dispatch struct {
	event  *Event
	depth  int
	logger *slog.Logger
}

func withDispatch(ctx context.Context, info dispatch) context.Context {
	return context.WithValue(ctx, dispatchKey{}, info)
}

func dispatchFrom(ctx context.Context) (dispatch, bool) {
	info, ok := ctx.Value(dispatchKey{}).(dispatch)
	return info, ok
}

// EventFrom returns the event being dispatched when ctx was passed to a handler.
func EventFrom(ctx context.Context) (*Event, bool) {
	info, ok := dispatchFrom(ctx)
	if !ok {
		return nil, false
	}
	return info.event, true
}

// Depth returns how many dispatches are in progress in ctx, counting the current one.
// It's 0 outside of a handler.
func Depth(ctx context.Context) int {
	info, _ := dispatchFrom(ctx)
	return info.depth
}
