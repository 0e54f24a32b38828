package sync

import gosync "sync"

// FanOut broadcasts a single input stream to any number of subscribers.
// Subscribe returns a fresh channel that sees every message published after
// the call; messages published before a subscription are not replayed.
// Delivery order to each subscriber matches publish order.
//
// Each subscriber gets its own unbounded internal queue so a slow reader
// cannot block delivery to other subscribers or block Publish itself; this
// mirrors the design trade-off documented by the original implementation's
// fan module (bounded capacity would let one stalled consumer wedge every
// other consumer and the publisher).
type FanOut[T any] struct {
	mu   gosync.Mutex
	subs map[int]*subscriber[T]
	next int
}

type subscriber[T any] struct {
	out chan T

	mu     gosync.Mutex
	buf    []T
	signal chan struct{}
}

// NewFanOut creates an empty FanOut ready to accept subscribers and
// publications.
func NewFanOut[T any]() *FanOut[T] {
	return &FanOut[T]{subs: make(map[int]*subscriber[T])}
}

// Subscription is a handle returned by Subscribe. Read from C to receive
// messages; call Unsubscribe when done to release the internal queue.
type Subscription[T any] struct {
	C           <-chan T
	unsubscribe func()
}

// Unsubscribe stops delivery to this subscriber and releases its queue.
func (s Subscription[T]) Unsubscribe() {
	s.unsubscribe()
}

// Subscribe registers a new subscriber and returns a channel delivering
// every message published from this point forward.
func (f *FanOut[T]) Subscribe() Subscription[T] {
	sub := &subscriber[T]{out: make(chan T), signal: make(chan struct{}, 1)}

	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = sub
	f.mu.Unlock()

	stop := make(chan struct{})
	go sub.pump(stop)

	return Subscription[T]{
		C: sub.out,
		unsubscribe: func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
			close(stop)
		},
	}
}

// pump drains the unbounded buffer into the bounded output channel,
// decoupling the producer (Publish, via enqueue) from the consumer's read
// rate.
func (s *subscriber[T]) pump(stop <-chan struct{}) {
	for {
		s.mu.Lock()
		for len(s.buf) == 0 {
			s.mu.Unlock()
			select {
			case <-stop:
				return
			case <-s.signal:
			}
			s.mu.Lock()
		}
		v := s.buf[0]
		s.buf = s.buf[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-stop:
			return
		}
	}
}

func (s *subscriber[T]) enqueue(v T) {
	s.mu.Lock()
	s.buf = append(s.buf, v)
	s.mu.Unlock()
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// Publish delivers v to every subscriber currently registered.
func (f *FanOut[T]) Publish(v T) {
	f.mu.Lock()
	subs := make([]*subscriber[T], 0, len(f.subs))
	for _, s := range f.subs {
		subs = append(subs, s)
	}
	f.mu.Unlock()

	for _, s := range subs {
		s.enqueue(v)
	}
}
