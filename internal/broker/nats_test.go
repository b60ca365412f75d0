//go:build integration

package broker

import (
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

func TestNATSBroker(t *testing.T) {
	runAcceptanceTests(t, func(t *testing.T) Broker {
		nc, err := nats.Connect(nats.DefaultURL)
		require.NoError(t, err)
		t.Cleanup(func() { nc.Close() })
		return NATS(nc)
	})
}
