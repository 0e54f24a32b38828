// Package interval implements the arbitrary-precision inclusive integer
// interval consumed by the parasect search core (spec component C5).
//
// An Interval is immutable once constructed: every operation that would
// change its bounds returns a new value. The canonical empty interval has
// low > high; callers should use Empty() or IsEmpty() rather than comparing
// endpoints directly.
package interval

import "math/big"

// Interval is an inclusive range [Lo, Hi] of arbitrary-precision integers.
// The zero value is not a valid Interval; use Empty() or New.
type Interval struct {
	lo, hi *big.Int
}

// Empty returns the canonical empty interval.
func Empty() Interval {
	return Interval{lo: big.NewInt(0), hi: big.NewInt(-1)}
}

// New returns the inclusive interval [lo, hi]. If lo > hi the result is the
// canonical empty interval, matching the convention that empty intervals
// carry no meaningful endpoints.
func New(lo, hi *big.Int) Interval {
	if lo.Cmp(hi) > 0 {
		return Empty()
	}
	return Interval{lo: new(big.Int).Set(lo), hi: new(big.Int).Set(hi)}
}

// FromInt64 is a convenience constructor for ordinary machine integers.
func FromInt64(lo, hi int64) Interval {
	return New(big.NewInt(lo), big.NewInt(hi))
}

// FromInt is a convenience constructor for ordinary machine integers.
func FromInt(lo, hi int) Interval {
	return FromInt64(int64(lo), int64(hi))
}

// IsEmpty reports whether the interval contains no points.
func (iv Interval) IsEmpty() bool {
	return iv.lo == nil || iv.hi == nil || iv.lo.Cmp(iv.hi) > 0
}

// First returns the lowest point in the interval, or nil if it is empty.
func (iv Interval) First() *big.Int {
	if iv.IsEmpty() {
		return nil
	}
	return new(big.Int).Set(iv.lo)
}

// Last returns the highest point in the interval, or nil if it is empty.
func (iv Interval) Last() *big.Int {
	if iv.IsEmpty() {
		return nil
	}
	return new(big.Int).Set(iv.hi)
}

// Contains reports whether n lies within the interval.
func (iv Interval) Contains(n *big.Int) bool {
	if iv.IsEmpty() {
		return false
	}
	return n.Cmp(iv.lo) >= 0 && n.Cmp(iv.hi) <= 0
}

// ClipFirst returns the interval with its first n elements removed
// (i.e. [lo+n, hi]). A negative or zero n returns the interval unchanged.
func (iv Interval) ClipFirst(n *big.Int) Interval {
	if iv.IsEmpty() || n.Sign() <= 0 {
		return iv
	}
	return New(new(big.Int).Add(iv.lo, n), iv.hi)
}

// ClipLast returns the interval with its last n elements removed
// (i.e. [lo, hi-n]). A negative or zero n returns the interval unchanged.
func (iv Interval) ClipLast(n *big.Int) Interval {
	if iv.IsEmpty() || n.Sign() <= 0 {
		return iv
	}
	return New(iv.lo, new(big.Int).Sub(iv.hi, n))
}

// Intersect returns the intersection of iv and other.
func (iv Interval) Intersect(other Interval) Interval {
	if iv.IsEmpty() || other.IsEmpty() {
		return Empty()
	}
	lo := iv.lo
	if other.lo.Cmp(lo) > 0 {
		lo = other.lo
	}
	hi := iv.hi
	if other.hi.Cmp(hi) < 0 {
		hi = other.hi
	}
	return New(lo, hi)
}

// Midpoint returns floor((lo+hi)/2), truncated toward negative infinity,
// matching the bisecting range queue's split rule. Panics if iv is empty.
func (iv Interval) Midpoint() *big.Int {
	if iv.IsEmpty() {
		panic("interval: Midpoint called on empty interval")
	}
	sum := new(big.Int).Add(iv.lo, iv.hi)
	mid, rem := new(big.Int).QuoRem(sum, big.NewInt(2), new(big.Int))
	// Go's big.Int.QuoRem truncates toward zero; adjust for floor division
	// when the sum is odd and negative so the midpoint is pushed to the
	// left half by parity, as the spec requires.
	if rem.Sign() != 0 && sum.Sign() < 0 {
		mid.Sub(mid, big.NewInt(1))
	}
	return mid
}

// Key returns a canonical, comparable string form of the interval, suitable
// for use as a map key (interval.Interval itself holds *big.Int pointers
// and is not comparable by value in Go).
func (iv Interval) Key() string {
	if iv.IsEmpty() {
		return "empty"
	}
	return iv.lo.String() + ":" + iv.hi.String()
}

// String implements fmt.Stringer.
func (iv Interval) String() string {
	if iv.IsEmpty() {
		return "∅"
	}
	return "[" + iv.lo.String() + ", " + iv.hi.String() + "]"
}

// Equal reports whether iv and other denote the same set of points.
func (iv Interval) Equal(other Interval) bool {
	if iv.IsEmpty() || other.IsEmpty() {
		return iv.IsEmpty() == other.IsEmpty()
	}
	return iv.lo.Cmp(other.lo) == 0 && iv.hi.Cmp(other.hi) == 0
}
