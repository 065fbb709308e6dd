// Package config loads the relay daemon's TOML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// BridgeConfig defines how to reach the mediator process.
type BridgeConfig struct {
	// Command is the mediator executable. Empty means no bridge: the relay
	// runs in degraded local mode.
	Command string `toml:"command"`

	// Args are passed to the mediator on launch.
	Args []string `toml:"args"`

	// TimeoutSeconds bounds how long a forwarded call waits for a reply.
	TimeoutSeconds int `toml:"timeoutSeconds"`
}

// LoggingConfig defines basic logging knobs.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config aggregates the daemon configuration.
type Config struct {
	Bridge  BridgeConfig  `toml:"bridge"`
	Logging LoggingConfig `toml:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Bridge:  BridgeConfig{TimeoutSeconds: 5},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads a TOML config from path. An empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Bridge.TimeoutSeconds < 0 {
		return fmt.Errorf("bridge.timeoutSeconds must not be negative")
	}

	if cfg.Bridge.TimeoutSeconds == 0 {
		cfg.Bridge.TimeoutSeconds = 5
	}

	switch cfg.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json")
	}

	return nil
}

// BridgeTimeout returns the configured call timeout as a duration.
func (cfg *Config) BridgeTimeout() time.Duration {
	return time.Duration(cfg.Bridge.TimeoutSeconds) * time.Second
}
