// Package rangequeue implements the bisecting range queue (spec component
// C6): it produces a sequence of split points for a root interval and
// supports logical removal of subtrees that are no longer candidates.
//
// Grounded directly on the original implementation's
// range::bisecting_range_queue module. Nodes are held in a concurrent map
// keyed by a canonical string form of the interval (interval.Interval holds
// *big.Int pointers and is not a valid Go map key by value), mirroring the
// original's DashMap<NumericRange, Arc<RwLock<Node>>> keyed by interval
// value.
package rangequeue

import (
	"math/big"
	"sync"

	"github.com/jonathan-lemos/parasect/interval"
)

func add1(n *big.Int) *big.Int { return new(big.Int).Add(n, big.NewInt(1)) }
func sub1(n *big.Int) *big.Int { return new(big.Int).Sub(n, big.NewInt(1)) }

type node struct {
	mu          sync.RWMutex
	rng         interval.Interval
	left, right *node
	invalidated bool
}

// Queue produces split points for a root interval and tracks which
// subintervals remain candidates.
type Queue struct {
	frontier chan interval.Interval

	nodesMu sync.Mutex
	nodes   map[string]*node

	lengthMu sync.Mutex
	length   int

	onInvalidation chan<- interval.Interval
}

// Option configures a Queue at construction time.
type Option func(*Queue)

// WithInvalidationObserver arranges for the queue to publish one message per
// interval marked invalidated. The channel must be unbounded, or drained by
// a receiver that does not itself call Dequeue, to avoid deadlock (the
// dequeue path and the invalidate path can be called from different
// goroutines holding no locks in common, but a full bounded channel would
// block Invalidate, which in turn would block the controller's event loop).
func WithInvalidationObserver(ch chan<- interval.Interval) Option {
	return func(q *Queue) { q.onInvalidation = ch }
}

// New creates a Queue over root. If root is empty the queue starts (and
// remains) empty.
func New(root interval.Interval, opts ...Option) *Queue {
	q := &Queue{
		frontier: make(chan interval.Interval, 1<<20), // effectively unbounded
		nodes:    make(map[string]*node),
	}
	for _, opt := range opts {
		opt(q)
	}

	if !root.IsEmpty() {
		q.nodes[root.Key()] = &node{rng: root}
		q.frontier <- root
		q.length = 1
	}

	return q
}

func (q *Queue) popNextValid() (interval.Interval, *node, bool) {
	for {
		q.lengthMu.Lock()
		if q.length == 0 {
			q.lengthMu.Unlock()
			return interval.Interval{}, nil, false
		}
		q.lengthMu.Unlock()

		var rng interval.Interval
		select {
		case r, ok := <-q.frontier:
			if !ok {
				return interval.Interval{}, nil, false
			}
			rng = r
		default:
			// Another caller took the last queued interval between the
			// length check above and this receive.
			return interval.Interval{}, nil, false
		}

		q.lengthMu.Lock()
		q.length--
		q.lengthMu.Unlock()

		q.nodesMu.Lock()
		n := q.nodes[rng.Key()]
		q.nodesMu.Unlock()
		if n == nil {
			panic("rangequeue: dequeued a range without a matching node")
		}

		n.mu.RLock()
		invalidated := n.invalidated
		n.mu.RUnlock()
		if invalidated {
			continue
		}

		return rng, n, true
	}
}

func (q *Queue) append(rng interval.Interval) *node {
	if rng.IsEmpty() {
		return nil
	}

	child := &node{rng: rng}

	q.nodesMu.Lock()
	q.nodes[rng.Key()] = child
	q.nodesMu.Unlock()

	q.frontier <- rng

	q.lengthMu.Lock()
	q.length++
	q.lengthMu.Unlock()

	return child
}

// Dequeue pops the next valid (non-invalidated) interval and splits it into
// a midpoint and the left/right sub-intervals flanking it, or returns
// ok=false when no valid intervals remain. Either sub-interval may be
// empty.
func (q *Queue) Dequeue() (mid *big.Int, left, right interval.Interval, ok bool) {
	rng, n, found := q.popNextValid()
	if !found {
		return nil, interval.Interval{}, interval.Interval{}, false
	}

	midpoint := rng.Midpoint()

	left = interval.New(rng.First(), sub1(midpoint))
	right = interval.New(add1(midpoint), rng.Last())

	n.mu.Lock()
	n.left = q.append(left)
	n.right = q.append(right)
	n.mu.Unlock()

	return midpoint, left, right, true
}

// Invalidate marks the node for rng, and every descendant produced from it,
// as invalidated. Invalidating an empty interval is a no-op. Invalidating
// an interval this queue never produced (neither its root nor a
// sub-interval returned by Dequeue) is a programmer error and panics, per
// the component contract.
func (q *Queue) Invalidate(rng interval.Interval) {
	if rng.IsEmpty() {
		return
	}

	q.nodesMu.Lock()
	root, ok := q.nodes[rng.Key()]
	q.nodesMu.Unlock()
	if !ok {
		panic("rangequeue: Invalidate called with a range not previously returned by Dequeue")
	}

	stack := []*node{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cur.mu.Lock()
		alreadyInvalidated := cur.invalidated
		cur.invalidated = true
		left, right, rng := cur.left, cur.right, cur.rng
		cur.mu.Unlock()

		if q.onInvalidation != nil && !alreadyInvalidated {
			q.onInvalidation <- rng
		}

		if left != nil {
			stack = append(stack, left)
		}
		if right != nil {
			stack = append(stack, right)
		}
	}
}

// IsInvalidated reports whether rng has been invalidated. An empty interval
// is always considered invalidated. Panics if rng is neither this queue's
// root nor a sub-interval returned by its Dequeue.
func (q *Queue) IsInvalidated(rng interval.Interval) bool {
	if rng.IsEmpty() {
		return true
	}

	q.nodesMu.Lock()
	n, ok := q.nodes[rng.Key()]
	q.nodesMu.Unlock()
	if !ok {
		panic("rangequeue: IsInvalidated called with a range not previously returned by Dequeue")
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.invalidated
}
