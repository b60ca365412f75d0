package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/casualjim/trancepoint/config"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// ValidConfig is a complete, valid config pointing at https://api.test.com.
func ValidConfig() config.Config {
	cfg := config.Default()
	cfg.APIKey = "sk_test_abc123"
	cfg.APIEndpoint = "https://api.test.com"
	cfg.BatchSize = 10
	cfg.FlushIntervalSeconds = 5
	cfg.Enabled = true
	cfg.Debug = false
	return cfg
}

// DisabledConfig has observability turned off.
func DisabledConfig() config.Config {
	cfg := config.Default()
	cfg.APIKey = "sk_test_abc123"
	cfg.Enabled = false
	return cfg
}

// InvalidConfigs maps a case name to a config that Validate rejects, and the
// field it is rejected for.
func InvalidConfigs() map[string]InvalidConfig {
	with := func(field string, mutate func(*config.Config)) InvalidConfig {
		cfg := config.Default()
		cfg.APIKey = "sk_..."
		mutate(&cfg)
		return InvalidConfig{Config: cfg, Field: field}
	}
	return map[string]InvalidConfig{
		"no_api_key":                   with("api_key", func(c *config.Config) { c.APIKey = "" }),
		"invalid_api_key":              with("api_key", func(c *config.Config) { c.APIKey = "invalid_not_sk" }),
		"invalid_batch_size_too_high":  with("batch_size", func(c *config.Config) { c.BatchSize = 1001 }),
		"invalid_batch_size_zero":      with("batch_size", func(c *config.Config) { c.BatchSize = 0 }),
		"invalid_endpoint_no_protocol": with("api_endpoint", func(c *config.Config) { c.APIEndpoint = "api.com" }),
		"negative_timeout":             with("timeout_seconds", func(c *config.Config) { c.TimeoutSeconds = -1 }),
	}
}

// InvalidConfig pairs a rejected config with the offending field.
type InvalidConfig struct {
	Config config.Config
	Field  string
}

// MockEnv sets the AGENT_OBS_* variables for the duration of the test and
// returns the values it set.
func MockEnv(t testing.TB) map[string]string {
	t.Helper()
	env := map[string]string{
		config.EnvAPIKey:    "sk_test_env",
		config.EnvBatchSize: "15",
		config.EnvDebug:     "false",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
	return env
}

// ConfigFile writes a YAML config file with api_key sk_test_file and
// batch_size 20 into a temp dir and returns its path with the expected config.
func ConfigFile(t testing.TB) (string, config.Config) {
	t.Helper()
	expected := config.Default()
	expected.APIKey = "sk_test_file"
	expected.BatchSize = 20

	data, err := yaml.Marshal(map[string]any{
		"api_key":    expected.APIKey,
		"batch_size": expected.BatchSize,
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "trancepoint.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path, expected
}

// SkipIfShort skips slow tests under `go test -short`.
func SkipIfShort(t testing.TB) {
	t.Helper()
	if testing.Short() {
		t.Skip("slow test skipped in short mode")
	}
}
