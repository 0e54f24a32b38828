package parasect

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan-lemos/parasect/internal/oracletask"
	"github.com/jonathan-lemos/parasect/internal/rangequeue"
	psync "github.com/jonathan-lemos/parasect/internal/sync"
	"github.com/jonathan-lemos/parasect/interval"
	"github.com/jonathan-lemos/parasect/metrics"
)

// worker is the spec's Worker component (C8). It repeatedly pulls the next
// candidate point from queue, probes it through payload, and reports
// lifecycle messages on out. Grounded on the original implementation's
// parasect::worker::Worker::process_while_remaining.
type worker struct {
	id            int
	queue         *rangequeue.Queue
	payload       PayloadFunc
	out           chan<- WorkerMessage
	invalidations *psync.FanOut[interval.Interval]

	probesStarted   metrics.Counter
	probesCancelled metrics.Counter
	probeLatency    metrics.Histogram
}

// run drains the queue, one point at a time, until it is exhausted or ctx
// is cancelled.
func (w *worker) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		point, left, right, ok := w.queue.Dequeue()
		if !ok {
			return
		}

		w.probe(ctx, point, left, right)
	}
}

// probe runs a single oracle call for point. It watches the shared
// invalidation broadcast while the oracle is in flight and cancels early if
// another worker's result has already eliminated point — the original's
// skip_if_in_range cancel hint, reimplemented here as a scoped subscriber
// loop (spec components C3/C4) instead of a polling timer.
func (w *worker) probe(ctx context.Context, point *big.Int, left, right interval.Interval) {
	w.out <- WorkerMessage{WorkerID: w.id, Point: point, Left: left, Right: right, Kind: Started}
	if w.probesStarted != nil {
		w.probesStarted.Add(1)
	}

	probeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sub := w.invalidations.Subscribe()
	task := oracletask.FromFunc(probeCtx, func(taskCtx context.Context) (r Result) {
		defer func() {
			if rec := recover(); rec != nil {
				r = StopResult{Reason: fmt.Sprintf("oracle panicked: %v", rec)}
			}
		}()
		return w.payload(taskCtx, point)
	})

	hintGroup, _ := errgroup.WithContext(probeCtx)
	hintLoop := psync.RunScoped(hintGroup, sub.C, func(invalidated interval.Interval) psync.LoopBehavior {
		if invalidated.Contains(point) {
			task.RequestCancellation()
			return psync.StopLoop
		}
		return psync.ContinueLoop
	})

	started := time.Now()
	result, ok := task.Join(ctx)
	if w.probeLatency != nil {
		w.probeLatency.Record(time.Since(started).Seconds())
	}

	hintLoop.Cancel()
	_ = hintGroup.Wait()
	sub.Unsubscribe()

	if !ok {
		if w.probesCancelled != nil {
			w.probesCancelled.Add(1)
		}
		w.out <- WorkerMessage{WorkerID: w.id, Point: point, Left: left, Right: right, Kind: Cancelled}
		return
	}

	w.out <- WorkerMessage{WorkerID: w.id, Point: point, Left: left, Right: right, Kind: Completed, Result: result}
}
