package trancepoint

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fogfish/opts"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultRetryBackoff  = 200 * time.Millisecond
	defaultExportTimeout = 30 * time.Second
)

// settings are shared by every component; options that do not apply to a
// component are ignored by it.
type settings struct {
	httpClient    *http.Client
	logger        *slog.Logger
	registerer    prometheus.Registerer
	clock         clock.Clock
	backoff       time.Duration
	exportTimeout time.Duration
	debugOutput   io.Writer
}

// Option customizes clients, batchers and tracers.
type Option = opts.Option[settings]

var (
	// WithHTTPClient replaces the pooled http client built from the config.
	WithHTTPClient = opts.ForName[settings, *http.Client]("httpClient")

	// WithLogger sets the logger. Defaults to slog.Default(), or to a debug
	// console logger on stderr when the config enables debug.
	WithLogger = opts.ForName[settings, *slog.Logger]("logger")

	// WithRegisterer registers the client metrics on a prometheus registry.
	WithRegisterer = opts.ForName[settings, prometheus.Registerer]("registerer")

	// WithClock replaces the wall clock, used for timestamps and timed flushes.
	WithClock = opts.ForName[settings, clock.Clock]("clock")

	// WithRetryBackoff sets the first delay of the exponential retry backoff.
	WithRetryBackoff = opts.ForName[settings, time.Duration]("backoff")

	// WithExportTimeout bounds how long the batcher waits for one batch export.
	WithExportTimeout = opts.ForName[settings, time.Duration]("exportTimeout")

	// WithDebugOutput sets where the debug exporter prints events.
	WithDebugOutput = opts.ForName[settings, io.Writer]("debugOutput")
)

func newSettings(debug bool, options []Option) (settings, error) {
	s := settings{
		clock:         clock.New(),
		backoff:       defaultRetryBackoff,
		exportTimeout: defaultExportTimeout,
		debugOutput:   os.Stderr,
	}
	if err := opts.Apply(&s, options); err != nil {
		return settings{}, err
	}
	if s.logger == nil {
		if debug {
			s.logger = NewLogger(os.Stderr, true)
		} else {
			s.logger = slog.Default()
		}
	}
	return s, nil
}
