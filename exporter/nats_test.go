//go:build integration

package exporter_test

import (
	"context"
	"testing"
	"time"

	"github.com/casualjim/trancepoint/events"
	"github.com/casualjim/trancepoint/exporter"
	"github.com/casualjim/trancepoint/internal/fixtures"
	"github.com/casualjim/trancepoint/pkg/uuidx"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNATSExporter(t *testing.T) {
	subject := "trancepoint.test." + uuidx.NewString()
	e, err := exporter.Connect(nats.DefaultURL, subject)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	sub, err := nats.Connect(nats.DefaultURL)
	require.NoError(t, err)
	t.Cleanup(sub.Close)

	received := make(chan *nats.Msg, 4)
	s, err := sub.ChanSubscribe(subject, received)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Unsubscribe() })
	require.NoError(t, sub.Flush())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.Export(ctx, fixtures.EventSequence()))

	for _, want := range fixtures.EventSequence() {
		select {
		case msg := <-received:
			got, err := events.Unmarshal(msg.Data)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		case <-ctx.Done():
			t.Fatal("timed out waiting for published events")
		}
	}
}
