package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("registers collectors", func(t *testing.T) {
		reg := prometheus.NewPedanticRegistry()
		m, err := New(reg)
		require.NoError(t, err)

		m.EventsEnqueued.Add(3)
		m.Dropped(ReasonQueueFull, 2)

		assert.Equal(t, 3.0, testutil.ToFloat64(m.EventsEnqueued))
		assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsDropped.WithLabelValues(ReasonQueueFull)))

		count, err := testutil.GatherAndCount(reg, "trancepoint_events_enqueued_total", "trancepoint_events_dropped_total")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("shares collectors on one registry", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		first, err := New(reg)
		require.NoError(t, err)
		second, err := New(reg)
		require.NoError(t, err)

		first.EventsSent.Inc()
		second.EventsSent.Inc()
		assert.Equal(t, 2.0, testutil.ToFloat64(first.EventsSent))
	})

	t.Run("nop is usable", func(t *testing.T) {
		m := Nop()
		assert.NotPanics(t, func() {
			m.BatchesFailed.Inc()
			m.Dropped(ReasonExportFailed, 1)
			m.QueueDepth.Set(4)
		})
	})
}
