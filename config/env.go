package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-openapi/swag"
)

// EnvPrefix is shared by every environment variable read by FromEnv.
const EnvPrefix = "AGENT_OBS_"

// Environment variables.
const (
	EnvAPIKey               = EnvPrefix + "API_KEY"
	EnvAPIEndpoint          = EnvPrefix + "API_ENDPOINT"
	EnvBatchSize            = EnvPrefix + "BATCH_SIZE"
	EnvFlushInterval        = EnvPrefix + "FLUSH_INTERVAL"
	EnvEnabled              = EnvPrefix + "ENABLED"
	EnvDebug                = EnvPrefix + "DEBUG"
	EnvTimeout              = EnvPrefix + "TIMEOUT"
	EnvMaxRetries           = EnvPrefix + "MAX_RETRIES"
	EnvMaxQueueSize         = EnvPrefix + "MAX_QUEUE_SIZE"
	EnvMaxRequestsPerSecond = EnvPrefix + "MAX_REQUESTS_PER_SECOND"
	EnvMaxTextLength        = EnvPrefix + "MAX_TEXT_LENGTH"
	EnvExporter             = EnvPrefix + "EXPORTER"
	EnvNATSURL              = EnvPrefix + "NATS_URL"
	EnvNATSSubject          = EnvPrefix + "NATS_SUBJECT"
)

// LookupFunc resolves an environment variable, like os.LookupEnv.
type LookupFunc func(string) (string, bool)

// FromEnv overlays the process environment on base.
func FromEnv(base Config) (Config, error) {
	return FromLookup(base, os.LookupEnv)
}

// FromLookup overlays the variables resolved by lookup on base.
// Variables that are unset keep the value from base.
func FromLookup(base Config, lookup LookupFunc) (Config, error) {
	cfg := base
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(name)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := swag.ConvertInt64(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: expected an integer, got %q", name, v)
		}
		*dst = int(n)
		return nil
	}
	flag := func(name string, dst *bool) error {
		v, ok := lookup(name)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		b, err := ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = b
		return nil
	}

	str(EnvAPIKey, &cfg.APIKey)
	str(EnvAPIEndpoint, &cfg.APIEndpoint)
	str(EnvExporter, &cfg.Exporter)
	str(EnvNATSURL, &cfg.NATSURL)
	str(EnvNATSSubject, &cfg.NATSSubject)

	for _, fn := range []func() error{
		func() error { return num(EnvBatchSize, &cfg.BatchSize) },
		func() error { return num(EnvFlushInterval, &cfg.FlushIntervalSeconds) },
		func() error { return num(EnvTimeout, &cfg.TimeoutSeconds) },
		func() error { return num(EnvMaxRetries, &cfg.MaxRetries) },
		func() error { return num(EnvMaxQueueSize, &cfg.MaxQueueSize) },
		func() error { return num(EnvMaxTextLength, &cfg.MaxTextLength) },
		func() error { return flag(EnvEnabled, &cfg.Enabled) },
		func() error { return flag(EnvDebug, &cfg.Debug) },
	} {
		if err := fn(); err != nil {
			return base, err
		}
	}

	if v, ok := lookup(EnvMaxRequestsPerSecond); ok && strings.TrimSpace(v) != "" {
		f, err := swag.ConvertFloat64(strings.TrimSpace(v))
		if err != nil {
			return base, fmt.Errorf("%s: expected a number, got %q", EnvMaxRequestsPerSecond, v)
		}
		cfg.MaxRequestsPerSecond = f
	}
	return cfg, nil
}

// ParseBool accepts true/false, 1/0, yes/no and on/off in any case.
func ParseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "y", "on":
		return true, nil
	case "false", "0", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("expected a boolean, got %q", v)
}
