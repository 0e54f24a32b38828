package parasect

import (
	"github.com/rs/zerolog"

	"github.com/jonathan-lemos/parasect/interval"
	"github.com/jonathan-lemos/parasect/metrics"
)

// Option configures a Config. Use NewConfig(rng, payload, opts...) to build
// one rather than constructing Config directly, so defaults stay
// centralized.
type Option func(*Config)

// WithMaxParallelism bounds the number of probes run concurrently. The
// default is runtime.NumCPU().
func WithMaxParallelism(n int) Option {
	return func(cfg *Config) { cfg.MaxParallelism = n }
}

// WithEventSink arranges for Run to publish a copy of every Event onto ch.
// A full channel does not block the search: Run drops the event and moves
// on, so ch should be large enough, or drained promptly, for the consumer's
// purposes.
func WithEventSink(ch chan<- Event) Option {
	return func(cfg *Config) { cfg.EventSink = ch }
}

// WithLogger overrides the default no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *Config) { cfg.Logger = logger }
}

// WithMetrics overrides the default in-memory metrics.Provider.
func WithMetrics(provider metrics.Provider) Option {
	return func(cfg *Config) { cfg.Metrics = provider }
}

// NewConfig builds a Config over rng using payload as the oracle, applying
// opts in order.
func NewConfig(rng interval.Interval, payload PayloadFunc, opts ...Option) Config {
	cfg := defaultConfig()
	cfg.Range = rng
	cfg.Payload = payload
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
