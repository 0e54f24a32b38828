// Package parasect implements parallel bisection search ("parasect"): given
// an inclusive integer range and an oracle that classifies a point as Good
// or Bad, it finds the unique point where the oracle's answer transitions
// from Good to Bad, assuming the oracle is monotonic over the range.
//
// Entry point
//   - Run(ctx, cfg): drives the search to completion and returns the
//     transition point, or an error if the oracle aborted the search or
//     the monotonicity assumption was violated.
//
// Construct a Config with NewConfig(rng, payload, opts...); the With*
// functions configure parallelism, logging, metrics, and an optional event
// sink for progress observability.
//
// Concurrency
// Run probes multiple points at once, up to MaxParallelism, cancelling any
// in-flight probe once another probe's result has already made it moot.
// The worker and bookkeeping goroutines Run starts are joined before Run
// returns. Each oracle call runs on a goroutine of its own, and Run does not
// wait for that goroutine when the probe is cancelled, so a payload that is
// slow to observe its context can still be running after Run returns.
//
// Defaults
// Unless overridden, a Config built with NewConfig uses:
//   - MaxParallelism: runtime.NumCPU()
//   - Logger: a no-op zerolog.Logger
//   - Metrics: an in-memory metrics.Provider
//   - EventSink: nil (no events published)
package parasect
