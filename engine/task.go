package engine

import (
	"context"
	"sync/atomic"

	"github.com/saylorsolutions/hooter/syncx"
)

// Task is a handle to a chain running in the background.
type Task struct {
	future *syncx.Future[any]
	status atomic.Int32
}

var _ Awaitable = (*Task)(nil)

func newTask() *Task {
	t := &Task{future: syncx.NewFuture[any]()}
	t.status.Store(int32(StatusRunning))
	return t
}

func (t *Task) settle(result any, err error) {
	if err != nil {
		t.status.Store(int32(StatusFailed))
	} else {
		t.status.Store(int32(StatusCompleted))
	}
	t.future.Settle(result, err)
}

// Await blocks until the task finishes or ctx is done.
func (t *Task) Await(ctx context.Context) (any, error) {
	return t.future.Await(ctx)
}

// Done is closed when the task finishes.
func (t *Task) Done() <-chan struct{} {
	return t.future.Done()
}

// Status is [StatusRunning] until the task finishes.
func (t *Task) Status() Status {
	return Status(t.status.Load())
}
