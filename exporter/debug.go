package exporter

import (
	"context"
	"io"
	"sync"

	"github.com/casualjim/trancepoint/events"
	"github.com/k0kubun/pp/v3"
)

// DebugExporter pretty prints every event instead of shipping it.
type DebugExporter struct {
	mu      sync.Mutex
	w       io.Writer
	printer *pp.PrettyPrinter
}

// Debug prints to w, with colors only when color is true.
func Debug(w io.Writer, color bool) *DebugExporter {
	printer := pp.New()
	printer.SetColoringEnabled(color)
	printer.SetExportedOnly(true)
	return &DebugExporter{w: w, printer: printer}
}

func (d *DebugExporter) Export(ctx context.Context, evts []events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, evt := range evts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := d.printer.Fprintln(d.w, evt); err != nil {
			return err
		}
	}
	return nil
}
