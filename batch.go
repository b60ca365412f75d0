package trancepoint

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/casualjim/trancepoint/config"
	"github.com/casualjim/trancepoint/events"
	"github.com/casualjim/trancepoint/exporter"
	"github.com/casualjim/trancepoint/internal/metrics"
	"github.com/casualjim/trancepoint/pkg/slogx"
	"go.uber.org/multierr"
)

// BatchClient queues events in memory and hands them to an exporter in
// batches, from a single background worker. Enqueue never blocks the caller.
type BatchClient struct {
	cfg           config.Config
	exporter      exporter.Exporter
	logger        *slog.Logger
	metrics       *metrics.Client
	exportTimeout time.Duration

	mu     sync.Mutex
	queue  []events.Event
	closed bool

	ticker    *clock.Ticker
	wake      chan struct{}
	flushReq  chan chan error
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewBatchClient starts the background worker of a batcher delivering to exp.
// A disabled config yields a batcher that accepts and discards everything.
func NewBatchClient(cfg config.Config, exp exporter.Exporter, options ...Option) (*BatchClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := newSettings(cfg.Debug, options)
	if err != nil {
		return nil, err
	}
	m, err := metrics.New(s.registerer)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		exp = exporter.Nop
	}

	b := &BatchClient{
		cfg:           cfg,
		exporter:      exp,
		logger:        s.logger.With(slogx.LoggerName("trancepoint.batcher")),
		metrics:       m,
		exportTimeout: s.exportTimeout,
		wake:          make(chan struct{}, 1),
		flushReq:      make(chan chan error),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	if !cfg.Enabled {
		close(b.done)
		return b, nil
	}
	// created before the worker starts so that ticks of a mocked clock are never missed
	if iv := cfg.FlushInterval(); iv > 0 {
		b.ticker = s.clock.Ticker(iv)
	}
	go b.run()
	return b, nil
}

// Enqueue adds evt to the queue. It returns ErrQueueFull when max_queue_size
// events are already waiting and ErrClosed after Close; the event is dropped
// in both cases.
func (b *BatchClient) Enqueue(evt events.Event) error {
	if !b.cfg.Enabled {
		return nil
	}
	evt = evt.Truncate(b.cfg.MaxTextLength)
	if err := evt.Validate(); err != nil {
		b.metrics.Dropped(metrics.ReasonInvalid, 1)
		return err
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.metrics.Dropped(metrics.ReasonClosed, 1)
		return ErrClosed
	}
	if len(b.queue) >= b.cfg.MaxQueueSize {
		b.mu.Unlock()
		b.metrics.Dropped(metrics.ReasonQueueFull, 1)
		b.logger.Warn("dropping event, queue is full", slogx.TraceID(evt.TraceID), slogx.EventType(evt.EventType))
		return ErrQueueFull
	}
	b.queue = append(b.queue, evt)
	pending := len(b.queue)
	b.mu.Unlock()

	b.metrics.EventsEnqueued.Inc()
	b.metrics.QueueDepth.Set(float64(pending))
	if pending >= b.cfg.BatchSize {
		select {
		case b.wake <- struct{}{}:
		default:
		}
	}
	return nil
}

// Pending is the number of queued events.
func (b *BatchClient) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Flush exports every queued event and waits until the exporter returned.
func (b *BatchClient) Flush(ctx context.Context) error {
	if !b.cfg.Enabled {
		return nil
	}
	reply := make(chan error, 1)
	select {
	case b.flushReq <- reply:
	case <-b.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the worker and exports what is still queued. Calling Close more
// than once is safe; only the first call does any work.
func (b *BatchClient) Close(ctx context.Context) error {
	var err error
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		b.mu.Unlock()
		if !b.cfg.Enabled {
			return
		}

		close(b.stop)
		select {
		case <-b.done:
		case <-ctx.Done():
			err = ctx.Err()
			b.discard(metrics.ReasonClosed)
			return
		}
		err = b.export(ctx, true)
	})
	return err
}

func (b *BatchClient) run() {
	defer close(b.done)
	var tick <-chan time.Time
	if b.ticker != nil {
		defer b.ticker.Stop()
		tick = b.ticker.C
	}

	for {
		select {
		case <-b.stop:
			return
		case <-b.wake:
			_ = b.export(context.Background(), false)
		case <-tick:
			_ = b.export(context.Background(), true)
		case reply := <-b.flushReq:
			reply <- b.export(context.Background(), true)
		}
	}
}

// export hands full batches to the exporter; with all set, the last partial
// batch goes out as well.
func (b *BatchClient) export(ctx context.Context, all bool) error {
	var errs error
	for {
		batch := b.take(all)
		if len(batch) == 0 {
			return errs
		}
		if err := b.exportBatch(ctx, batch); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
}

func (b *BatchClient) take(all bool) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.cfg.BatchSize
	if len(b.queue) < n {
		if !all {
			return nil
		}
		n = len(b.queue)
	}
	if n == 0 {
		return nil
	}
	batch := make([]events.Event, n)
	copy(batch, b.queue)
	b.queue = b.queue[n:]
	if len(b.queue) == 0 {
		b.queue = nil
	}
	b.metrics.QueueDepth.Set(float64(len(b.queue)))
	return batch
}

// discard empties the queue, counting its events as dropped for reason.
func (b *BatchClient) discard(reason string) {
	b.mu.Lock()
	n := len(b.queue)
	b.queue = nil
	b.metrics.QueueDepth.Set(0)
	b.mu.Unlock()
	if n == 0 {
		return
	}
	b.metrics.Dropped(reason, n)
	b.logger.Warn("discarded queued events", slogx.Count("events", n), slog.String("reason", reason))
}

func (b *BatchClient) exportBatch(ctx context.Context, batch []events.Event) error {
	ctx, cancel := context.WithTimeout(ctx, b.exportTimeout)
	defer cancel()

	if err := b.exporter.Export(ctx, batch); err != nil {
		b.metrics.Dropped(metrics.ReasonExportFailed, len(batch))
		b.logger.Warn("failed to export batch", slogx.Count("events", len(batch)), slogx.Error(err))
		return err
	}
	b.logger.Debug("exported batch", slogx.Count("events", len(batch)))
	return nil
}
