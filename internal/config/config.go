// Package config loads the daemon's runtime configuration: the four
// wire-visible fields from the opcode table's surrounding interfaces
// section plus the logging/metrics/player knobs the daemon needs to
// start up.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Port is the TCP port the session dispatcher listens on.
	Port int `yaml:"port"`
	// BindToAddress is the interface address to listen on.
	BindToAddress string `yaml:"bind_to_address"`
	// Workdir is the base directory; playlists live in workdir/playlists.
	Workdir string `yaml:"workdir"`
	// VLCStartDelay is the warmup between the sopcast relay and the local
	// player it feeds.
	VLCStartDelay Duration `yaml:"vlc_start_delay"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`
	// LogFile, if set, redirects logs to a file instead of stderr.
	LogFile string `yaml:"log_file,omitempty"`
	// MetricsAddr is the bind address for the admin HTTP surface
	// (/healthz, /metrics). Empty disables it.
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
	// PlayerPath is read from the config file but is not consulted when
	// launching players: the local player binary is always resolved as
	// cvlc via PATH.
	PlayerPath string `yaml:"player_path,omitempty"`
}

// Duration is a time.Duration that unmarshals from a YAML string like
// "5s" via time.ParseDuration, instead of yaml.v3's default of treating
// it as a bare integer number of nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// PlaylistDir returns the directory save/load/listplaylists operate on.
func (c *Config) PlaylistDir() string {
	return c.Workdir + "/playlists"
}

// DefaultConfig returns the documented defaults used when no config
// file is present.
func DefaultConfig() *Config {
	return &Config{
		Port:          7700,
		BindToAddress: "127.0.0.1",
		Workdir:       "/var/lib/vpd",
		VLCStartDelay: Duration(5 * time.Second),
		LogLevel:      "info",
	}
}

// LoadConfig loads configuration from path, falling back to defaults
// for any field the file leaves unset. A missing file is not an error —
// the daemon runs on defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}
