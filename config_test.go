package parasect_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonathan-lemos/parasect"
	"github.com/jonathan-lemos/parasect/interval"
	"github.com/jonathan-lemos/parasect/metrics"
)

func noopPayload(_ context.Context, _ *big.Int) parasect.Result {
	return parasect.ContinueResult{Answer: parasect.Bad}
}

func TestNewConfigAppliesDefaults(t *testing.T) {
	cfg := parasect.NewConfig(interval.FromInt(1, 10), noopPayload)

	require.True(t, cfg.Range.Equal(interval.FromInt(1, 10)))
	require.Greater(t, cfg.MaxParallelism, 0)
	require.NotNil(t, cfg.Metrics)
	require.Nil(t, cfg.EventSink)
}

func TestOptionsOverrideDefaults(t *testing.T) {
	sink := make(chan parasect.Event, 1)
	cfg := parasect.NewConfig(
		interval.FromInt(1, 10),
		noopPayload,
		parasect.WithMaxParallelism(2),
		parasect.WithEventSink(sink),
		parasect.WithMetrics(metrics.NewNoopProvider()),
	)

	require.Equal(t, 2, cfg.MaxParallelism)
	require.NotNil(t, cfg.EventSink)
}
