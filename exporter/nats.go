package exporter

import (
	"context"
	"fmt"
	"time"

	"github.com/casualjim/trancepoint/events"
	"github.com/casualjim/trancepoint/internal/broker"
	"github.com/casualjim/trancepoint/pkg/natsx"
	"github.com/nats-io/nats.go"
)

const defaultFlushTimeout = 5 * time.Second

// NATSExporter publishes every event of a batch to one NATS subject.
type NATSExporter struct {
	conn    *nats.Conn
	topic   broker.Topic
	subject string
	owned   bool
}

// NATS publishes to subject over an existing connection. The connection stays
// owned by the caller.
func NATS(conn *nats.Conn, subject string) *NATSExporter {
	return &NATSExporter{
		conn:    conn,
		topic:   broker.NATS(conn).Topic(context.Background(), subject),
		subject: subject,
	}
}

// Connect dials url and returns an exporter that owns the connection.
func Connect(url, subject string, opts ...nats.Option) (*NATSExporter, error) {
	conn, err := natsx.NewClient(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	e := NATS(conn, subject)
	e.owned = true
	return e, nil
}

// Subject is the subject events are published to.
func (e *NATSExporter) Subject() string {
	return e.subject
}

func (e *NATSExporter) Export(ctx context.Context, evts []events.Event) error {
	for _, evt := range evts {
		if err := e.topic.Publish(ctx, evt); err != nil {
			return fmt.Errorf("failed to publish event %s: %w", evt.EventID, err)
		}
	}
	if _, ok := ctx.Deadline(); ok {
		return e.conn.FlushWithContext(ctx)
	}
	return e.conn.FlushTimeout(defaultFlushTimeout)
}

// Close drains the connection when the exporter created it.
func (e *NATSExporter) Close() error {
	if !e.owned {
		return nil
	}
	return e.conn.Drain()
}
