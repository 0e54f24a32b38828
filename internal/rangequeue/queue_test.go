package rangequeue

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonathan-lemos/parasect/interval"
)

func drainAll(q *Queue) map[int64]struct{} {
	seen := make(map[int64]struct{})
	for {
		mid, _, _, ok := q.Dequeue()
		if !ok {
			return seen
		}
		seen[mid.Int64()] = struct{}{}
	}
}

func TestDequeueProducesAllElements(t *testing.T) {
	q := New(interval.FromInt(1, 10))
	seen := drainAll(q)

	want := make(map[int64]struct{})
	for i := int64(1); i <= 10; i++ {
		want[i] = struct{}{}
	}
	require.Equal(t, want, seen)
}

func TestDequeueFirstSplit(t *testing.T) {
	q := New(interval.FromInt(0, 10))

	mid, left, right, ok := q.Dequeue()
	require.True(t, ok)
	require.Equal(t, big.NewInt(5), mid)
	require.True(t, left.Equal(interval.FromInt(0, 4)))
	require.True(t, right.Equal(interval.FromInt(6, 10)))
}

func TestInvalidateOnlyHitsOthers(t *testing.T) {
	q := New(interval.FromInt(0, 10))
	q.Dequeue()

	q.Invalidate(interval.FromInt(6, 10))

	seen := drainAll(q)
	want := map[int64]struct{}{0: {}, 1: {}, 2: {}, 3: {}, 4: {}}
	require.Equal(t, want, seen)
}

func TestInvalidateRecursesToDescendants(t *testing.T) {
	q := New(interval.FromInt(0, 10))

	_, a, _, ok1 := q.Dequeue()
	require.True(t, ok1)
	_, a2, _, ok2 := q.Dequeue()
	require.True(t, ok2)

	q.Invalidate(a)

	drainAll(q)

	require.True(t, q.IsInvalidated(a))
	require.True(t, q.IsInvalidated(a2))
}

func TestInvalidationObserverEmitsPerInterval(t *testing.T) {
	ch := make(chan interval.Interval, 8)
	q := New(interval.FromInt(0, 10), WithInvalidationObserver(ch))

	_, a, _, _ := q.Dequeue()
	q.Invalidate(a)

	_, a2, _, _ := q.Dequeue()
	q.Invalidate(a2)

	require.True(t, (<-ch).Equal(a))
	require.True(t, (<-ch).Equal(a2))
}

func TestInvalidateEmptyIsNoop(t *testing.T) {
	q := New(interval.FromInt(0, 10))
	require.NotPanics(t, func() { q.Invalidate(interval.Empty()) })
}

func TestIsInvalidatedOnEmptyIsTrue(t *testing.T) {
	q := New(interval.FromInt(0, 10))
	require.True(t, q.IsInvalidated(interval.Empty()))
}

func TestInvalidateForeignIntervalPanics(t *testing.T) {
	q := New(interval.FromInt(0, 10))
	require.Panics(t, func() { q.Invalidate(interval.FromInt(100, 200)) })
}

func TestBinarySearchConverges(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 50; trial++ {
		b := int64(1 + rng.Intn(100))
		a := int64(1 + rng.Intn(int(b)))

		ch := make(chan interval.Interval, 4096)
		q := New(interval.FromInt64(0, b), WithInvalidationObserver(ch))

		var result *big.Int
		for {
			mid, left, right, ok := q.Dequeue()
			if !ok {
				break
			}
			switch {
			case mid.Int64() < a:
				q.Invalidate(left)
			case mid.Int64() > a:
				q.Invalidate(right)
			default:
				result = mid
			}
			if result != nil {
				break
			}
		}

		require.NotNil(t, result)
		require.Equal(t, a, result.Int64())

	drain:
		for {
			select {
			case rejected := <-ch:
				require.False(t, rejected.Contains(big.NewInt(a)))
			default:
				break drain
			}
		}
	}
}
