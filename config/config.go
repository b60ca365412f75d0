// Package config holds the settings of the trancepoint client and the loaders
// that assemble them from defaults, a config file, a .env file and the process
// environment.
package config

import (
	"strings"
	"time"
)

// Exporter names.
const (
	ExporterHTTP  = "http"
	ExporterNATS  = "nats"
	ExporterDebug = "debug"
)

// Defaults.
const (
	DefaultAPIEndpoint          = "https://api.trancepoint.io"
	DefaultBatchSize            = 50
	DefaultFlushIntervalSeconds = 5
	DefaultTimeoutSeconds       = 10
	DefaultMaxRetries           = 3
	DefaultMaxQueueSize         = 10_000
	DefaultMaxTextLength        = 10_000
	DefaultNATSURL              = "nats://127.0.0.1:4222"
	DefaultNATSSubject          = "trancepoint.events"

	// APIKeyPrefix is required on every api key.
	APIKeyPrefix = "sk_"

	MinBatchSize = 1
	MaxBatchSize = 1000
)

// Config configures the trancepoint client.
type Config struct {
	APIKey               string  `json:"api_key" yaml:"api_key" toml:"api_key" jsonschema:"description=API key issued by the observability backend,pattern=^sk_"`
	APIEndpoint          string  `json:"api_endpoint" yaml:"api_endpoint" toml:"api_endpoint" jsonschema:"description=Base URL of the ingestion API including the protocol,format=uri"`
	BatchSize            int     `json:"batch_size" yaml:"batch_size" toml:"batch_size" jsonschema:"minimum=1,maximum=1000,default=50"`
	FlushIntervalSeconds int     `json:"flush_interval_seconds" yaml:"flush_interval_seconds" toml:"flush_interval_seconds" jsonschema:"minimum=0,default=5,description=Seconds between timed flushes; 0 disables them"`
	Enabled              bool    `json:"enabled" yaml:"enabled" toml:"enabled" jsonschema:"default=true"`
	Debug                bool    `json:"debug" yaml:"debug" toml:"debug"`
	TimeoutSeconds       int     `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds" jsonschema:"minimum=0,default=10,description=HTTP timeout per request; 0 disables it"`
	MaxRetries           int     `json:"max_retries" yaml:"max_retries" toml:"max_retries" jsonschema:"minimum=0,default=3"`
	MaxQueueSize         int     `json:"max_queue_size" yaml:"max_queue_size" toml:"max_queue_size" jsonschema:"minimum=1,default=10000"`
	MaxRequestsPerSecond float64 `json:"max_requests_per_second" yaml:"max_requests_per_second" toml:"max_requests_per_second" jsonschema:"minimum=0,description=Outbound request rate limit; 0 means unlimited"`
	MaxTextLength        int     `json:"max_text_length" yaml:"max_text_length" toml:"max_text_length" jsonschema:"minimum=0,default=10000,description=Longest input/output/error text kept per event; 0 means unlimited"`
	Exporter             string  `json:"exporter" yaml:"exporter" toml:"exporter" jsonschema:"enum=http,enum=nats,enum=debug,default=http"`
	NATSURL              string  `json:"nats_url,omitempty" yaml:"nats_url,omitempty" toml:"nats_url,omitempty"`
	NATSSubject          string  `json:"nats_subject,omitempty" yaml:"nats_subject,omitempty" toml:"nats_subject,omitempty"`
}

// Default returns a config with every field at its default value and no api key.
func Default() Config {
	return Config{
		APIEndpoint:          DefaultAPIEndpoint,
		BatchSize:            DefaultBatchSize,
		FlushIntervalSeconds: DefaultFlushIntervalSeconds,
		Enabled:              true,
		TimeoutSeconds:       DefaultTimeoutSeconds,
		MaxRetries:           DefaultMaxRetries,
		MaxQueueSize:         DefaultMaxQueueSize,
		MaxTextLength:        DefaultMaxTextLength,
		Exporter:             ExporterHTTP,
		NATSURL:              DefaultNATSURL,
		NATSSubject:          DefaultNATSSubject,
	}
}

// FlushInterval is FlushIntervalSeconds as a duration.
func (c Config) FlushInterval() time.Duration {
	return time.Duration(c.FlushIntervalSeconds) * time.Second
}

// Timeout is TimeoutSeconds as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// EventsURL is the ingestion URL batches are posted to.
func (c Config) EventsURL() string {
	return strings.TrimRight(c.APIEndpoint, "/") + "/v1/events"
}

// Redacted returns a copy safe for printing: the api key keeps its prefix and
// last four characters.
func (c Config) Redacted() Config {
	c.APIKey = MaskAPIKey(c.APIKey)
	return c
}

// MaskAPIKey hides all but the "sk_" prefix and the last four characters of key.
func MaskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= len(APIKeyPrefix)+4 {
		return APIKeyPrefix + "****"
	}
	return key[:len(APIKeyPrefix)] + "****" + key[len(key)-4:]
}
