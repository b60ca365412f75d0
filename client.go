package trancepoint

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/casualjim/trancepoint/config"
	"github.com/casualjim/trancepoint/events"
	"github.com/casualjim/trancepoint/internal/metrics"
	"github.com/casualjim/trancepoint/pkg/slogx"
	"github.com/casualjim/trancepoint/pkg/uuidx"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

const (
	maxRetryAfter   = time.Minute
	maxResponseBody = 4 << 10
)

// SyncEventClient posts event batches to the ingestion endpoint and waits for
// the reply. It keeps one pooled http client for its whole lifetime and is
// safe for concurrent use.
type SyncEventClient struct {
	cfg        config.Config
	httpClient *http.Client
	logger     *slog.Logger
	clock      clock.Clock
	backoff    time.Duration
	limiter    *rate.Limiter
	metrics    *metrics.Client
	closed     atomic.Bool
}

// NewSyncEventClient validates cfg and builds a client for it.
func NewSyncEventClient(cfg config.Config, options ...Option) (*SyncEventClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := newSettings(cfg.Debug, options)
	if err != nil {
		return nil, err
	}
	m, err := metrics.New(s.registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	c := &SyncEventClient{
		cfg:        cfg,
		httpClient: s.httpClient,
		logger:     s.logger.With(slogx.LoggerName("trancepoint.client")),
		clock:      s.clock,
		backoff:    s.backoff,
		metrics:    m,
	}
	if c.httpClient == nil {
		c.httpClient = newHTTPClient(cfg)
	}
	if rps := cfg.MaxRequestsPerSecond; rps > 0 {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return c, nil
}

func newHTTPClient(cfg config.Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 20
	transport.MaxIdleConnsPerHost = 10
	transport.IdleConnTimeout = 90 * time.Second
	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout(),
	}
}

// Config returns the configuration the client was built with.
func (c *SyncEventClient) Config() config.Config {
	return c.cfg
}

// SendEvent delivers a single event.
func (c *SyncEventClient) SendEvent(ctx context.Context, evt events.Event) error {
	return c.SendEvents(ctx, []events.Event{evt})
}

// SendEvents delivers evts in batches of at most batch_size events. Every event
// is validated before anything is sent. The first batch that fails stops the
// delivery of the remaining ones.
func (c *SyncEventClient) SendEvents(ctx context.Context, evts []events.Event) error {
	if !c.cfg.Enabled {
		return nil
	}
	if c.closed.Load() {
		return ErrClosed
	}
	if len(evts) == 0 {
		return nil
	}

	batch := make([]events.Event, len(evts))
	for i, evt := range evts {
		evt = evt.Truncate(c.cfg.MaxTextLength)
		if err := evt.Validate(); err != nil {
			c.metrics.Dropped(metrics.ReasonInvalid, len(evts))
			return err
		}
		batch[i] = evt
	}

	for start := 0; start < len(batch); start += c.cfg.BatchSize {
		end := min(start+c.cfg.BatchSize, len(batch))
		if err := c.send(ctx, batch[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// Export implements exporter.Exporter.
func (c *SyncEventClient) Export(ctx context.Context, evts []events.Event) error {
	return c.SendEvents(ctx, evts)
}

// Close releases idle connections. Sends after Close return ErrClosed.
func (c *SyncEventClient) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *SyncEventClient) send(ctx context.Context, batch []events.Event) error {
	body, err := events.EncodeBatch(batch, sdkInfo(), c.clock.Now())
	if err != nil {
		return err
	}
	requestID := uuidx.NewRequestID()
	logger := c.logger.With(slog.String("request_id", requestID), slogx.Count("events", len(batch)))
	if c.cfg.Debug {
		logger.Debug("sending batch", slogx.ByteString("payload", body))
	}

	// the last Retry-After hint of the server replaces the next backoff step
	var hint time.Duration
	var mu sync.Mutex
	base := retry.WithMaxRetries(uint64(c.cfg.MaxRetries), retry.NewExponential(c.backoff))
	backoff := retry.BackoffFunc(func() (time.Duration, bool) {
		next, stop := base.Next()
		if stop {
			return 0, true
		}
		mu.Lock()
		defer mu.Unlock()
		if hint > 0 {
			next, hint = hint, 0
		}
		return next, false
	})

	started := time.Now()
	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			c.metrics.Retries.Inc()
			logger.Debug("retrying batch", slog.Int("attempt", attempt))
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		after, err := c.post(ctx, body, requestID)
		if after > 0 {
			mu.Lock()
			hint = after
			mu.Unlock()
		}
		return err
	})
	c.metrics.ExportDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		c.metrics.BatchesFailed.Inc()
		logger.Warn("failed to send batch", slog.Int("attempts", attempt), slogx.Error(err))
		return err
	}
	c.metrics.BatchesSent.Inc()
	c.metrics.EventsSent.Add(float64(len(batch)))
	logger.Debug("batch sent", slog.Int("attempts", attempt))
	return nil
}

// post sends one request. A positive duration is the server's Retry-After hint.
func (c *SyncEventClient) post(ctx context.Context, body []byte, requestID string) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.EventsURL(), bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, retry.RetryableError(fmt.Errorf("%w: failed to send batch: %w", ErrUnavailable, err))
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return 0, nil
	}
	serr := &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(respBody))}
	if !serr.Retryable() {
		return 0, serr
	}
	return parseRetryAfter(resp.Header.Get("Retry-After"), c.clock.Now()), retry.RetryableError(serr)
}

// parseRetryAfter understands both delay-seconds and HTTP-date values.
func parseRetryAfter(v string, now time.Time) time.Duration {
	if v == "" {
		return 0
	}
	var d time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(v); err == nil {
		d = at.Sub(now)
	}
	if d < 0 {
		return 0
	}
	return min(d, maxRetryAfter)
}
