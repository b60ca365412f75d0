package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DotEnvFile is read by Load when no other dotenv files are given.
const DotEnvFile = ".env"

// FromFile reads a config file over the defaults. The format follows the file
// extension: .yaml/.yml, .json or .toml. Unknown keys are rejected.
// The result is not validated.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := decode(path, data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys: %v", undecoded)
		}
		return nil
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

// Load is Resolve followed by Validate.
func Load(path string, dotenvFiles ...string) (Config, error) {
	cfg, err := Resolve(path, dotenvFiles...)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve assembles the effective config without validating it: defaults,
// then the config file at path (skipped when path is empty), then dotenv
// files, then the process environment. Variables already present in the
// environment win over dotenv values, and the process environment is never
// modified. A missing dotenv file is ignored.
func Resolve(path string, dotenvFiles ...string) (Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = FromFile(path); err != nil {
			return Config{}, err
		}
	}

	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{DotEnvFile}
	}
	dotenv := map[string]string{}
	for _, f := range dotenvFiles {
		values, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("failed to read dotenv file %s: %w", f, err)
		}
		for k, v := range values {
			if _, seen := dotenv[k]; !seen {
				dotenv[k] = v
			}
		}
	}

	cfg, err := FromLookup(cfg, func(name string) (string, bool) {
		if v, ok := os.LookupEnv(name); ok {
			return v, true
		}
		v, ok := dotenv[name]
		return v, ok
	})
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
