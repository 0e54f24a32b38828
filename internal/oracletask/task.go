// Package oracletask implements the cancellable oracle task abstraction
// (spec component C7): a single-result computation that can be requested to
// cancel, and whose result can be joined by multiple callers.
//
// Grounded on the original implementation's task::cancellable_task trait
// and its adaptors (free_cancellable_task.rs for already-resolved values,
// function_cancellable_task.rs for spawned closures).
package oracletask

import (
	"context"

	psync "github.com/jonathan-lemos/parasect/internal/sync"
)

// Task is a cancellable single-result computation.
//
// RequestCancellation is non-blocking, idempotent, and best-effort: a task
// that has already produced a result is unaffected by a later call.
// Join blocks until the task delivers a result or is cancelled before
// completion, in which case it returns ok=false. Join must be safe to call
// from multiple goroutines, all observing the same outcome.
type Task[R any] interface {
	RequestCancellation()
	Join(ctx context.Context) (result R, ok bool)
}

// asyncValueTask adapts an AsyncValue[*R] to the Task contract: nil stands
// for "cancelled, no result" at the type level, matching the original's use
// of AsyncValue<Option<T>>.
type asyncValueTask[R any] struct {
	av *psync.AsyncValue[*R]
}

// FromAsyncValue wraps av so it satisfies Task. Sending nil on av is
// equivalent to cancellation; sending a non-nil pointer resolves the task.
func FromAsyncValue[R any](av *psync.AsyncValue[*R]) Task[R] {
	return &asyncValueTask[R]{av: av}
}

func (t *asyncValueTask[R]) RequestCancellation() {
	t.av.Send(nil)
}

func (t *asyncValueTask[R]) Join(ctx context.Context) (R, bool) {
	type outcome struct {
		v  *R
		ok bool
	}
	ch := make(chan outcome, 1)
	go func() { v := t.av.Wait(); ch <- outcome{v: v, ok: true} }()

	select {
	case <-ctx.Done():
		var zero R
		return zero, false
	case o := <-ch:
		if o.v == nil {
			var zero R
			return zero, false
		}
		return *o.v, true
	}
}

// FromValue returns a Task that is already resolved to v. Useful for tests
// and for oracles whose answer is known synchronously.
func FromValue[R any](v R) Task[R] {
	av := psync.FromValue(&v)
	return FromAsyncValue[R](av)
}

// FromFunc spawns fn on its own goroutine and returns a Task whose result is
// whatever fn returns. fn is expected to observe ctx for cooperative
// cancellation; RequestCancellation on the returned Task cancels ctx.
//
// If runCtx is already cancelled by the time fn returns, the result is
// discarded in favor of "no result" rather than forwarded. fn may have
// returned a zero or partial value on its way out after noticing
// cancellation, and a cancellation requested concurrently with fn's natural
// completion must not be able to race a real answer onto the underlying
// write-once AsyncValue: both paths converge on the same "no result" send,
// so which one wins is immaterial.
func FromFunc[R any](ctx context.Context, fn func(context.Context) R) Task[R] {
	runCtx, cancel := context.WithCancel(ctx)
	av := psync.NewAsyncValue[*R]()

	go func() {
		v := fn(runCtx)
		if runCtx.Err() != nil {
			av.Send(nil)
			return
		}
		av.Send(&v)
	}()

	return &funcTask[R]{av: av, cancel: cancel}
}

type funcTask[R any] struct {
	av     *psync.AsyncValue[*R]
	cancel context.CancelFunc
}

// RequestCancellation cancels the context passed to fn and, if fn has not
// already delivered a value, resolves the task to "no result". Because the
// underlying AsyncValue is write-once, this is a no-op once fn has already
// sent its real answer; if fn is still in flight, fn's own completion also
// resolves to "no result" once it observes the cancelled context (see
// FromFunc), so the two sends can race harmlessly.
func (t *funcTask[R]) RequestCancellation() {
	t.cancel()
	t.av.Send(nil)
}

func (t *funcTask[R]) Join(ctx context.Context) (R, bool) {
	type outcome struct {
		v *R
	}
	ch := make(chan outcome, 1)
	go func() { ch <- outcome{v: t.av.Wait()} }()

	select {
	case <-ctx.Done():
		var zero R
		return zero, false
	case o := <-ch:
		if o.v == nil {
			var zero R
			return zero, false
		}
		return *o.v, true
	}
}
