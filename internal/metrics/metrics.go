// Package metrics exposes the client's delivery counters as prometheus collectors.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "trancepoint"

// Drop reasons.
const (
	ReasonQueueFull    = "queue_full"
	ReasonExportFailed = "export_failed"
	ReasonInvalid      = "invalid"
	ReasonClosed       = "closed"
)

// Client groups the collectors shared by the http client and the batcher.
type Client struct {
	EventsEnqueued prometheus.Counter
	EventsDropped  *prometheus.CounterVec
	EventsSent     prometheus.Counter
	BatchesSent    prometheus.Counter
	BatchesFailed  prometheus.Counter
	Retries        prometheus.Counter
	ExportDuration prometheus.Histogram
	QueueDepth     prometheus.Gauge
}

// New builds the collectors and registers them on reg when it is not nil.
// Collectors that are already registered are reused, so several clients can
// share one registry.
func New(reg prometheus.Registerer) (*Client, error) {
	m := &Client{
		EventsEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_enqueued_total",
			Help:      "Events accepted into the batch queue.",
		}),
		EventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Events discarded before delivery, by reason.",
		}, []string{"reason"}),
		EventsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_sent_total",
			Help:      "Events delivered to the exporter.",
		}),
		BatchesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_sent_total",
			Help:      "Batches delivered to the exporter.",
		}),
		BatchesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_failed_total",
			Help:      "Batches that could not be delivered.",
		}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_retries_total",
			Help:      "Retried ingestion requests.",
		}),
		ExportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_duration_seconds",
			Help:      "Time spent delivering one batch, retries included.",
			Buckets:   prometheus.DefBuckets,
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Events waiting in the batch queue.",
		}),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.EventsEnqueued, err = register(reg, m.EventsEnqueued); err != nil {
		return nil, err
	}
	if m.EventsDropped, err = register(reg, m.EventsDropped); err != nil {
		return nil, err
	}
	if m.EventsSent, err = register(reg, m.EventsSent); err != nil {
		return nil, err
	}
	if m.BatchesSent, err = register(reg, m.BatchesSent); err != nil {
		return nil, err
	}
	if m.BatchesFailed, err = register(reg, m.BatchesFailed); err != nil {
		return nil, err
	}
	if m.Retries, err = register(reg, m.Retries); err != nil {
		return nil, err
	}
	if m.ExportDuration, err = register(reg, m.ExportDuration); err != nil {
		return nil, err
	}
	if m.QueueDepth, err = register(reg, m.QueueDepth); err != nil {
		return nil, err
	}
	return m, nil
}

// Nop returns unregistered collectors.
func Nop() *Client {
	m, _ := New(nil)
	return m
}

// Dropped counts n events discarded for reason.
func (m *Client) Dropped(reason string, n int) {
	m.EventsDropped.WithLabelValues(reason).Add(float64(n))
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
