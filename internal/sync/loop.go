package sync

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// LoopBehavior is the return type of a Loop handler: whether the loop
// should keep processing messages or stop after the current one.
type LoopBehavior int

const (
	// ContinueLoop tells the loop to keep reading from its input channel.
	ContinueLoop LoopBehavior = iota
	// StopLoop tells the loop to exit after the current message.
	StopLoop
)

// Loop is a background goroutine bound to an input channel and a handler.
// It reads messages until the handler returns StopLoop, the input channel
// closes, or Cancel is called. Cancel is idempotent and best-effort: a
// message already being handled runs to completion.
//
// Grounded on the original implementation's threading::background_loop
// module (a thread selecting between a 1-slot cancel channel and the input
// receiver), adapted to a goroutine selecting on two channels.
type Loop[T any] struct {
	cancel chan struct{}
	done   chan struct{}
	once   atomic.Bool
}

// Spawn starts a new Loop reading from in and invoking handler for each
// message. It returns immediately; the loop runs on its own goroutine.
func Spawn[T any](in <-chan T, handler func(T) LoopBehavior) *Loop[T] {
	l := &Loop[T]{
		cancel: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(l.done)
		for {
			select {
			case <-l.cancel:
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				if handler(v) == StopLoop {
					return
				}
			}
		}
	}()

	return l
}

// RunScoped starts a loop the same way Spawn does, and registers its
// completion with g so the caller's errgroup.Group joins it automatically —
// the caller only needs to call Cancel (or let the input channel close) and
// is not responsible for a separate Wait. The loop never itself fails the
// group: its goroutine always returns a nil error.
func RunScoped[T any](g *errgroup.Group, in <-chan T, handler func(T) LoopBehavior) *Loop[T] {
	l := Spawn(in, handler)
	g.Go(func() error {
		l.Wait()
		return nil
	})
	return l
}

// Cancel requests that the loop stop after its current message, if any.
// It is safe to call multiple times and from multiple goroutines.
func (l *Loop[T]) Cancel() {
	if l.once.CompareAndSwap(false, true) {
		close(l.cancel)
	}
}

// Wait blocks until the loop's goroutine has returned.
func (l *Loop[T]) Wait() {
	<-l.done
}

// Running reports whether the loop's goroutine is still active.
func (l *Loop[T]) Running() bool {
	select {
	case <-l.done:
		return false
	default:
		return true
	}
}
