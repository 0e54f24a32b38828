package parasect

import (
	"context"
	"math/big"
	"runtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan-lemos/parasect/interval"
	"github.com/jonathan-lemos/parasect/metrics"
)

// PayloadFunc is the oracle: given a point in the search range, it decides
// whether the property under test still holds there. It must observe ctx
// for cancellation — the controller cancels in-flight probes that have been
// superseded by another probe's result.
type PayloadFunc func(ctx context.Context, point *big.Int) Result

// Config holds the full configuration for a parasect run. Construct it with
// NewConfig and the With* options rather than building it directly, so
// defaults stay centralized.
type Config struct {
	// Range is the interval to search. An empty range is rejected.
	Range interval.Interval

	// Payload is the oracle invoked for each probed point.
	Payload PayloadFunc

	// MaxParallelism bounds how many probes the controller runs
	// concurrently. Zero or negative selects runtime.NumCPU().
	MaxParallelism int

	// EventSink, if non-nil, receives a copy of every Event the run
	// produces. The controller never blocks indefinitely on a full sink;
	// see WithEventSink.
	EventSink chan<- Event

	// RunID tags a run's log lines; events do not carry it. Auto-generated
	// by NewConfig if left zero.
	RunID uuid.UUID

	Logger  zerolog.Logger
	Metrics metrics.Provider
}

// defaultConfig centralizes the defaults applied before any Option runs.
func defaultConfig() Config {
	return Config{
		MaxParallelism: runtime.NumCPU(),
		RunID:          uuid.New(),
		Logger:         zerolog.Nop(),
		Metrics:        metrics.NewBasicProvider(),
	}
}

// validateConfig checks the invariants Run relies on, filling in any
// defaults an Option left unset.
func validateConfig(cfg *Config) error {
	if cfg.Range.IsEmpty() {
		return errEmptyRange()
	}
	if cfg.Payload == nil {
		return &InconsistencyError{Reason: "no payload function configured"}
	}
	if cfg.MaxParallelism <= 0 {
		cfg.MaxParallelism = runtime.NumCPU()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewBasicProvider()
	}
	return nil
}
