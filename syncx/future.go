package syncx

import (
	"context"
	"sync"
	"time"
)

// Future is a value and error that are settled at a later time, at most once.
// Once settled, every call to [Future.Await] returns the same result.
// The zero value is not usable, create one with [NewFuture] or [Settled].
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

// NewFuture creates an unsettled [Future].
func NewFuture[T any]() *Future[T] {
	return &Future[T]{
		done: make(chan struct{}),
	}
}

// Settled creates a [Future] that is already settled with the given result.
func Settled[T any](val T, err error) *Future[T] {
	f := NewFuture[T]()
	f.Settle(val, err)
	return f
}

// Resolve settles the [Future] with a value and no error.
func (f *Future[T]) Resolve(val T) bool {
	return f.Settle(val, nil)
}

// Reject settles the [Future] with an error.
func (f *Future[T]) Reject(err error) bool {
	var zero T
	return f.Settle(zero, err)
}

// Settle sets the result of the [Future] and wakes all waiters.
// Only the first call has any effect, and true is returned only for that call.
func (f *Future[T]) Settle(val T, err error) bool {
	settled := false
	f.once.Do(func() {
		f.val = val
		f.err = err
		close(f.done)
		settled = true
	})
	return settled
}

// Done returns a channel that is closed once the [Future] is settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsSettled reports whether the result is available without blocking.
func (f *Future[T]) IsSettled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the [Future] is settled or ctx is done.
// If ctx finishes first, the zero value is returned with the context's error.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		// Prefer a result that raced with cancellation.
		if f.IsSettled() {
			return f.val, f.err
		}
		var zero T
		return zero, ctx.Err()
	}
}

// AwaitTimeout is [Future.Await] with a time limit.
// A non-positive timeout waits indefinitely.
func (f *Future[T]) AwaitTimeout(timeout time.Duration) (T, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return f.Await(ctx)
}
