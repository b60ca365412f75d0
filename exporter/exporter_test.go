package exporter_test

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/casualjim/trancepoint/events"
	"github.com/casualjim/trancepoint/exporter"
	"github.com/casualjim/trancepoint/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulti(t *testing.T) {
	var calls atomic.Int32
	ok := exporter.Func(func(_ context.Context, evts []events.Event) error {
		calls.Add(int32(len(evts)))
		return nil
	})
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	failA := exporter.Func(func(context.Context, []events.Event) error { return errA })
	failB := exporter.Func(func(context.Context, []events.Event) error { return errB })

	t.Run("delivers to every exporter", func(t *testing.T) {
		calls.Store(0)
		err := exporter.Multi(ok, nil, ok).Export(context.Background(), fixtures.EventSequence())
		require.NoError(t, err)
		assert.Equal(t, int32(4), calls.Load())
	})

	t.Run("keeps going after failures", func(t *testing.T) {
		calls.Store(0)
		err := exporter.Multi(failA, ok, failB).Export(context.Background(), fixtures.EventSequence())
		require.Error(t, err)
		assert.ErrorIs(t, err, errA)
		assert.ErrorIs(t, err, errB)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("nop", func(t *testing.T) {
		assert.NoError(t, exporter.Nop.Export(context.Background(), fixtures.EventSequence()))
	})
}

func TestDebug(t *testing.T) {
	var buf bytes.Buffer
	d := exporter.Debug(&buf, false)

	require.NoError(t, d.Export(context.Background(), []events.Event{fixtures.ErrorEvent()}))
	out := buf.String()
	assert.Contains(t, out, "evt_003")
	assert.Contains(t, out, "ValueError: invalid input")
	assert.NotContains(t, out, "\x1b[", "colors are disabled")

	t.Run("stops on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, d.Export(ctx, fixtures.EventSequence()), context.Canceled)
	})
}
