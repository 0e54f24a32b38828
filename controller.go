package parasect

import (
	"context"
	"fmt"
	"math/big"
	gosync "sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan-lemos/parasect/internal/rangequeue"
	psync "github.com/jonathan-lemos/parasect/internal/sync"
	"github.com/jonathan-lemos/parasect/interval"
)

// globalBounds tracks the tightest known straddle of the transition point
// across all workers and enforces the monotonicity assumption every probe
// relies on. Grounded on the original implementation's ParasectController
// latest_good/earliest_bad RwLock<IBig> pair and its
// check_good_does_not_exceed_bad.
type globalBounds struct {
	mu          gosync.RWMutex
	latestGood  *big.Int
	earliestBad *big.Int
}

func (b *globalBounds) recordGood(point *big.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.latestGood == nil || point.Cmp(b.latestGood) > 0 {
		b.latestGood = new(big.Int).Set(point)
	}
	return b.checkLocked()
}

func (b *globalBounds) recordBad(point *big.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.earliestBad == nil || point.Cmp(b.earliestBad) < 0 {
		b.earliestBad = new(big.Int).Set(point)
	}
	return b.checkLocked()
}

// checkLocked enforces latestGood < earliestBad. Callers must hold b.mu.
func (b *globalBounds) checkLocked() error {
	if b.latestGood != nil && b.earliestBad != nil && b.latestGood.Cmp(b.earliestBad) >= 0 {
		return &InconsistencyError{Reason: fmt.Sprintf(
			"observed a good result at %s which is not less than the observed bad result at %s",
			b.latestGood.String(), b.earliestBad.String(),
		)}
	}
	return nil
}

// Run is the controller (spec component C9): it drives a parallel
// bisection search over cfg.Range, probing points through cfg.Payload until
// the unique transition point is found, and returns it.
//
// Run spawns cfg.MaxParallelism workers plus its own bookkeeping goroutines
// under errgroup.Group scopes, so the workers and the bookkeeping goroutines
// are joined before Run returns — mirroring the original implementation's
// thread::scope in ParasectController::run. The goroutine that runs each
// oracle call (oracletask.FromFunc) and the delivery goroutine of each
// invalidation subscription are not waited for: a cancelled probe's
// payload can still be returning after Run has returned.
func Run(ctx context.Context, cfg Config) (*big.Int, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	logger := cfg.Logger.With().Str("component", "parasect").Str("run_id", cfg.RunID.String()).Logger()
	logger.Debug().
		Str("range", cfg.Range.String()).
		Int("max_parallelism", cfg.MaxParallelism).
		Msg("starting parasect run")

	queue := rangequeue.New(cfg.Range)
	invalidations := psync.NewFanOut[interval.Interval]()
	bounds := &globalBounds{}
	results := newResultMap()
	messages := make(chan WorkerMessage, cfg.MaxParallelism*4)

	probesStarted := cfg.Metrics.Counter("parasect_probes_started")
	probesCancelled := cfg.Metrics.Counter("parasect_probes_cancelled")
	probeLatency := cfg.Metrics.Histogram("parasect_probe_latency_seconds")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(runCtx)
	workerGroup, workerCtx := errgroup.WithContext(groupCtx)

	for i := 0; i < cfg.MaxParallelism; i++ {
		w := &worker{
			id:              i,
			queue:           queue,
			payload:         cfg.Payload,
			out:             messages,
			invalidations:   invalidations,
			probesStarted:   probesStarted,
			probesCancelled: probesCancelled,
			probeLatency:    probeLatency,
		}
		workerGroup.Go(func() error {
			w.run(workerCtx)
			return nil
		})
	}

	group.Go(func() error {
		_ = workerGroup.Wait()
		close(messages)
		return nil
	})

	var answer *big.Int

	group.Go(func() error {
		var resolveErr error

		for msg := range messages {
			if resolveErr != nil {
				continue
			}
			if err := handleMessage(&cfg, queue, bounds, results, invalidations, msg); err != nil {
				resolveErr = err
				cancel()
			}
		}

		if resolveErr != nil {
			return resolveErr
		}

		// The workers can also stop short because the caller's ctx was
		// cancelled out from under the search, rather than because the
		// search concluded. Report that directly instead of the
		// misleading "every point looked the same" inconsistency.
		if err := ctx.Err(); err != nil {
			return err
		}

		// Reconstruct the answer from the result map rather than from
		// globalBounds directly: bounds only exists to let handleMessage
		// abort early on a monotonicity violation mid-run, while the
		// result map is the authoritative, diagnosable record of every
		// completed probe (spec's "result map" resource).
		a, err := ProcessResultMap(results.snapshot())
		if err != nil {
			return err
		}
		answer = a
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	logger.Debug().Str("answer", answer.String()).Msg("parasect run converged")
	return answer, nil
}

// handleMessage applies one WorkerMessage to the shared state: it publishes
// the corresponding Event, and for a Completed probe, either narrows the
// search (Continue) or reports a fatal abort (Stop). Grounded on the
// original implementation's ParasectController::handle_message.
func handleMessage(
	cfg *Config,
	queue *rangequeue.Queue,
	bounds *globalBounds,
	results *resultMap,
	invalidations *psync.FanOut[interval.Interval],
	msg WorkerMessage,
) error {
	emitEvent(cfg, WorkerMessageEvent{Message: msg})

	if msg.Kind != Completed {
		return nil
	}

	results.insert(msg.Point, msg.Result)

	switch r := msg.Result.(type) {
	case ContinueResult:
		switch r.Answer {
		case Good:
			if err := bounds.recordGood(msg.Point); err != nil {
				emitEvent(cfg, ParasectCancelledEvent{Reason: err.(*InconsistencyError).Reason})
				return err
			}
			invalidate(cfg, queue, invalidations, msg.Left, Good)
		case Bad:
			if err := bounds.recordBad(msg.Point); err != nil {
				emitEvent(cfg, ParasectCancelledEvent{Reason: err.(*InconsistencyError).Reason})
				return err
			}
			invalidate(cfg, queue, invalidations, msg.Right, Bad)
		}
		return nil

	case StopResult:
		emitEvent(cfg, ParasectCancelledEvent{Reason: r.Reason})
		return &PayloadError{Reason: r.Reason}

	default:
		return nil
	}
}

// invalidate eliminates rng from further consideration, publishing an
// invalidation broadcast (so in-flight probes in rng can cancel early) and
// an Event, unless rng has already been eliminated.
func invalidate(cfg *Config, queue *rangequeue.Queue, invalidations *psync.FanOut[interval.Interval], rng interval.Interval, answer Answer) {
	if queue.IsInvalidated(rng) {
		return
	}
	queue.Invalidate(rng)
	invalidations.Publish(rng)
	emitEvent(cfg, RangeInvalidatedEvent{Range: rng, Answer: answer})
}

// emitEvent publishes ev to cfg.EventSink without blocking the search; a
// full or absent sink silently drops the event.
func emitEvent(cfg *Config, ev Event) {
	if cfg.EventSink == nil {
		return
	}
	select {
	case cfg.EventSink <- ev:
	default:
	}
}
