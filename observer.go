package trancepoint

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/casualjim/trancepoint/config"
	"github.com/casualjim/trancepoint/exporter"
	"github.com/fatih/color"
	"go.uber.org/multierr"
)

// NewExporter builds the exporter named by cfg.Exporter. The returned closer
// releases its connections and must be called once the exporter is no longer
// used. A disabled config yields exporter.Nop.
func NewExporter(cfg config.Config, options ...Option) (exporter.Exporter, io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if !cfg.Enabled {
		return exporter.Nop, nopCloser{}, nil
	}

	switch cfg.Exporter {
	case config.ExporterNATS:
		exp, err := exporter.Connect(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			return nil, nil, err
		}
		return exp, exp, nil
	case config.ExporterDebug:
		s, err := newSettings(cfg.Debug, options)
		if err != nil {
			return nil, nil, err
		}
		return exporter.Debug(s.debugOutput, !color.NoColor), nopCloser{}, nil
	default:
		client, err := NewSyncEventClient(cfg, options...)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Observer wires a tracer to a batcher and the configured exporter.
type Observer struct {
	*Tracer

	cfg      config.Config
	batcher  *BatchClient
	exporter io.Closer
	logger   *slog.Logger
}

// New builds the complete pipeline described by cfg.
func New(cfg config.Config, options ...Option) (*Observer, error) {
	s, err := newSettings(cfg.Debug, options)
	if err != nil {
		return nil, err
	}
	exp, closer, err := NewExporter(cfg, options...)
	if err != nil {
		return nil, err
	}
	batcher, err := NewBatchClient(cfg, exp, options...)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	tracer, err := NewTracer(batcher, options...)
	if err != nil {
		_ = batcher.Close(context.Background())
		_ = closer.Close()
		return nil, err
	}

	s.logger.Debug("observer started",
		slog.String("exporter", cfg.Exporter),
		slog.Bool("enabled", cfg.Enabled),
		slog.String("api_key", config.MaskAPIKey(cfg.APIKey)),
	)
	return &Observer{
		Tracer:   tracer,
		cfg:      cfg,
		batcher:  batcher,
		exporter: closer,
		logger:   s.logger,
	}, nil
}

// Config is the configuration the observer was built with.
func (o *Observer) Config() config.Config {
	return o.cfg
}

// Batcher is the batch client events are queued on.
func (o *Observer) Batcher() *BatchClient {
	return o.batcher
}

// Flush exports every queued event.
func (o *Observer) Flush(ctx context.Context) error {
	return o.batcher.Flush(ctx)
}

// Close flushes the queue and releases the exporter.
func (o *Observer) Close(ctx context.Context) error {
	err := o.batcher.Close(ctx)
	if cerr := o.exporter.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("failed to close exporter: %w", cerr))
	}
	return err
}
