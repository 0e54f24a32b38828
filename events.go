package parasect

import (
	"fmt"
	"math/big"

	"github.com/jonathan-lemos/parasect/interval"
)

// Answer is the oracle's non-fatal classification of a probed point.
type Answer int

const (
	// Good means the property under test still holds at the probed point.
	Good Answer = iota
	// Bad means the property has failed by the probed point.
	Bad
)

func (a Answer) String() string {
	switch a {
	case Good:
		return "Good"
	case Bad:
		return "Bad"
	default:
		return fmt.Sprintf("Answer(%d)", int(a))
	}
}

// Result is the oracle's verdict for a single probe: either it answered
// (Continue) or it asked the whole search to abort (Stop). Stop is fatal.
type Result interface {
	isResult()
	String() string
}

// ContinueResult is a non-fatal oracle answer for one probe.
type ContinueResult struct {
	Answer Answer
}

func (ContinueResult) isResult() {}

func (r ContinueResult) String() string { return r.Answer.String() }

// StopResult is a fatal oracle abort; Reason is surfaced verbatim to the
// caller, prefixed to identify it as an oracle error.
type StopResult struct {
	Reason string
}

func (StopResult) isResult() {}

func (r StopResult) String() string { return fmt.Sprintf("Aborting (%s)", r.Reason) }

// WorkerMessageKind tags the lifecycle stage a WorkerMessage reports.
type WorkerMessageKind int

const (
	// Started reports that a worker has begun probing Point.
	Started WorkerMessageKind = iota
	// Completed reports that the oracle produced Result for Point.
	Completed
	// Cancelled reports that the probe at Point was cancelled before the
	// oracle produced a result.
	Cancelled
)

// WorkerMessage records one lifecycle event of a single probe. Within a
// given probe, a Started message strictly precedes its matching Completed
// or Cancelled message; across probes no ordering is guaranteed.
type WorkerMessage struct {
	WorkerID int
	Point    *big.Int
	Left     interval.Interval
	Right    interval.Interval
	Kind     WorkerMessageKind
	// Result is populated only when Kind == Completed.
	Result Result
}

// Event is a structured record emitted by the controller for external UI or
// logging collaborators (spec component C10). Implementations are
// WorkerMessageEvent, RangeInvalidatedEvent, and ParasectCancelledEvent.
type Event interface {
	isEvent()
}

// WorkerMessageEvent wraps a single worker lifecycle message.
type WorkerMessageEvent struct {
	Message WorkerMessage
}

func (WorkerMessageEvent) isEvent() {}

// RangeInvalidatedEvent is emitted each time the controller invalidates a
// subinterval, tagged with the answer that justified the elimination.
type RangeInvalidatedEvent struct {
	Range  interval.Interval
	Answer Answer
}

func (RangeInvalidatedEvent) isEvent() {}

// ParasectCancelledEvent is emitted once, on fatal shutdown, carrying the
// first-recorded failure reason.
type ParasectCancelledEvent struct {
	Reason string
}

func (ParasectCancelledEvent) isEvent() {}
