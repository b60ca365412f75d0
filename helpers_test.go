package trancepoint

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/casualjim/trancepoint/config"
	"github.com/casualjim/trancepoint/events"
	"github.com/casualjim/trancepoint/internal/fixtures"
	"github.com/stretchr/testify/require"
)

func testConfig(srv *fixtures.IngestServer) config.Config {
	cfg := fixtures.ValidConfig()
	cfg.APIEndpoint = srv.URL
	return cfg
}

func testOptions(options ...Option) []Option {
	return append([]Option{
		WithLogger(NewLogger(io.Discard, true)),
		WithRetryBackoff(time.Millisecond),
	}, options...)
}

// newTestClient is the SyncEventClient wired to an IngestServer.
func newTestClient(t *testing.T, cfg config.Config, options ...Option) *SyncEventClient {
	t.Helper()
	client, err := NewSyncEventClient(cfg, testOptions(options...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// startEvents returns n valid START events of one trace.
func startEvents(n int) []events.Event {
	out := make([]events.Event, n)
	for i := range out {
		evt := fixtures.StartEvent()
		evt.EventID = fmt.Sprintf("evt_%03d", i)
		out[i] = evt
	}
	return out
}

// recordingExporter keeps every exported batch.
type recordingExporter struct {
	mu      sync.Mutex
	batches [][]events.Event
	err     error
}

func (r *recordingExporter) Export(_ context.Context, evts []events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch := make([]events.Event, len(evts))
	copy(batch, evts)
	r.batches = append(r.batches, batch)
	return r.err
}

func (r *recordingExporter) Batches() [][]events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]events.Event, len(r.batches))
	copy(out, r.batches)
	return out
}

func (r *recordingExporter) Events() []events.Event {
	var out []events.Event
	for _, b := range r.Batches() {
		out = append(out, b...)
	}
	return out
}

// recordingRecorder collects events enqueued by a tracer.
type recordingRecorder struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recordingRecorder) Enqueue(evt events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return r.err
}

func (r *recordingRecorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}
