// Package config loads checkout configuration from a TOML file with
// sane defaults for anything unset.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/revset/checkout/pkg/checkout"
	"github.com/revset/checkout/pkg/errors"
	"github.com/revset/checkout/pkg/types"
)

// Config is the full configuration tree.
type Config struct {
	Checkout CheckoutConfig `toml:"checkout"`
	Logging  LoggingConfig  `toml:"logging"`
}

// CheckoutConfig controls the execution engine.
type CheckoutConfig struct {
	// Parallelism is the bounded-concurrency window width per phase.
	Parallelism int `toml:"parallelism"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Verbosity maps to log levels: 0 warn, 1 info, 2 debug, 3+ trace.
	Verbosity int `toml:"verbosity"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Checkout: CheckoutConfig{Parallelism: checkout.DefaultParallelism},
		Logging:  LoggingConfig{Verbosity: 0},
	}
}

// Load reads the config file at path, applying defaults for missing
// fields. A missing file is not an error; the defaults are returned.
func Load(path string, fs types.FS) (Config, error) {
	cfg := Default()
	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config %s", path)
	}
	if cfg.Checkout.Parallelism <= 0 {
		cfg.Checkout.Parallelism = checkout.DefaultParallelism
	}
	return cfg, nil
}
