package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/multierr"
)

// ErrInvalidConfig is wrapped by every *ValidationError.
var ErrInvalidConfig = errors.New("invalid config")

// FieldError describes one rejected field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError carries every FieldError found by Validate.
type ValidationError struct {
	err error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields()))
	for _, fe := range e.Fields() {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Sprintf("%s: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, multierr.Errors(e.err)...)
}

// Fields lists the rejected fields in the order they were checked.
func (e *ValidationError) Fields() []*FieldError {
	var out []*FieldError
	for _, err := range multierr.Errors(e.err) {
		var fe *FieldError
		if errors.As(err, &fe) {
			out = append(out, fe)
		}
	}
	return out
}

// Has reports whether field was rejected.
func (e *ValidationError) Has(field string) bool {
	for _, fe := range e.Fields() {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func invalid(field, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks every field and returns a *ValidationError listing all
// violations, or nil. The api key is only required while the client is enabled.
func (c Config) Validate() error {
	var errs error

	if c.Enabled {
		switch {
		case strings.TrimSpace(c.APIKey) == "":
			errs = multierr.Append(errs, invalid("api_key", "is required"))
		case !strings.HasPrefix(c.APIKey, APIKeyPrefix):
			errs = multierr.Append(errs, invalid("api_key", "must start with %q", APIKeyPrefix))
		}
	}

	errs = multierr.Append(errs, validateEndpoint(c.APIEndpoint))

	if c.BatchSize < MinBatchSize || c.BatchSize > MaxBatchSize {
		errs = multierr.Append(errs, invalid("batch_size", "must be between %d and %d, got %d", MinBatchSize, MaxBatchSize, c.BatchSize))
	}
	if c.FlushIntervalSeconds < 0 {
		errs = multierr.Append(errs, invalid("flush_interval_seconds", "must not be negative, got %d", c.FlushIntervalSeconds))
	}
	if c.TimeoutSeconds < 0 {
		errs = multierr.Append(errs, invalid("timeout_seconds", "must not be negative, got %d", c.TimeoutSeconds))
	}
	if c.MaxRetries < 0 {
		errs = multierr.Append(errs, invalid("max_retries", "must not be negative, got %d", c.MaxRetries))
	}
	if c.MaxQueueSize < c.BatchSize {
		errs = multierr.Append(errs, invalid("max_queue_size", "must be at least batch_size (%d), got %d", c.BatchSize, c.MaxQueueSize))
	}
	if c.MaxRequestsPerSecond < 0 {
		errs = multierr.Append(errs, invalid("max_requests_per_second", "must not be negative, got %g", c.MaxRequestsPerSecond))
	}
	if c.MaxTextLength < 0 {
		errs = multierr.Append(errs, invalid("max_text_length", "must not be negative, got %d", c.MaxTextLength))
	}

	switch c.Exporter {
	case ExporterHTTP, ExporterDebug:
	case ExporterNATS:
		if c.NATSURL == "" {
			errs = multierr.Append(errs, invalid("nats_url", "is required for the nats exporter"))
		}
		if c.NATSSubject == "" {
			errs = multierr.Append(errs, invalid("nats_subject", "is required for the nats exporter"))
		}
	default:
		errs = multierr.Append(errs, invalid("exporter", "must be one of %q, %q or %q, got %q", ExporterHTTP, ExporterNATS, ExporterDebug, c.Exporter))
	}

	if errs != nil {
		return &ValidationError{err: errs}
	}
	return nil
}

func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return invalid("api_endpoint", "is required")
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return invalid("api_endpoint", "must include the protocol (http:// or https://), got %q", endpoint)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return invalid("api_endpoint", "is not a valid url: %v", err)
	}
	if u.Host == "" {
		return invalid("api_endpoint", "must include a host, got %q", endpoint)
	}
	return nil
}
