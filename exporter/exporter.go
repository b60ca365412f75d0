// Package exporter contains the destinations event batches can be delivered to.
//
// The HTTP destination lives in the root package as SyncEventClient; this
// package adds NATS, a debug printer and fan-out.
package exporter

import (
	"context"

	"github.com/casualjim/trancepoint/events"
	"go.uber.org/multierr"
)

// Exporter delivers a batch of events. Implementations must be safe for
// concurrent use.
type Exporter interface {
	Export(context.Context, []events.Event) error
}

// Func adapts a function to an Exporter.
type Func func(context.Context, []events.Event) error

func (f Func) Export(ctx context.Context, evts []events.Event) error {
	return f(ctx, evts)
}

// Nop drops every batch.
var Nop Exporter = Func(func(context.Context, []events.Event) error { return nil })

type multi []Exporter

// Multi delivers every batch to all exporters, even when some of them fail.
// The returned error combines the individual failures.
func Multi(exporters ...Exporter) Exporter {
	out := make(multi, 0, len(exporters))
	for _, e := range exporters {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (m multi) Export(ctx context.Context, evts []events.Event) error {
	var errs error
	for _, e := range m {
		errs = multierr.Append(errs, e.Export(ctx, evts))
	}
	return errs
}
