package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "wavesrx"

// Defaults applied when a value is missing or out of range.
const (
	DefaultTickInterval     = 50 * time.Millisecond
	DefaultPeriodicInterval = time.Second
	DefaultRate             = 1.0
	DefaultLogLevel         = "info"
)

type Config struct {
	Player    PlayerConfig    `koanf:"player"`
	Observers ObserversConfig `koanf:"observers"`
	Playback  PlaybackConfig  `koanf:"playback"`
	MPRIS     MPRISConfig     `koanf:"mpris"`
	Log       LogConfig       `koanf:"log"`
}

// PlayerConfig holds host player settings.
type PlayerConfig struct {
	TickInterval string `koanf:"tick_interval"` // e.g. "50ms"
}

// ObserversConfig holds the default time observer settings of the CLI.
type ObserversConfig struct {
	PeriodicInterval string   `koanf:"periodic_interval"` // e.g. "1s"
	Boundaries       []string `koanf:"boundaries"`        // e.g. ["30s", "1m"]
}

// PlaybackConfig holds initial playback settings.
type PlaybackConfig struct {
	Rate *float64 `koanf:"rate"` // rate applied after load, 0 loads paused (default: 1.0)
}

// MPRISConfig toggles the D-Bus MPRIS bridge.
type MPRISConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Write bool   `koanf:"write"`
	Level string `koanf:"level"` // logrus level name (default: "info")
	JSON  bool   `koanf:"json"`
	Dir   string `koanf:"dir"` // default: $XDG_STATE_HOME/wavesrx
}

// Load reads the configuration files that exist, lowest priority first.
func Load() (*Config, error) {
	return LoadFiles(getConfigPaths()...)
}

// LoadFiles reads the given TOML files in order (last wins) and applies
// defaults. Missing files are skipped.
func LoadFiles(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.Log.Dir == "" {
		cfg.Log.Dir = filepath.Join(xdg.StateHome, appName)
	} else {
		cfg.Log.Dir = expandPath(cfg.Log.Dir)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Playback.Rate != nil && *cfg.Playback.Rate < 0 {
		cfg.Playback.Rate = nil
	}

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/wavesrx/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// TickInterval returns the host player clock period.
func (c *Config) TickInterval() time.Duration {
	return parseDurationOr(c.Player.TickInterval, DefaultTickInterval)
}

// PeriodicInterval returns the periodic observer interval.
func (c *Config) PeriodicInterval() time.Duration {
	return parseDurationOr(c.Observers.PeriodicInterval, DefaultPeriodicInterval)
}

// Boundaries parses the configured boundary marks.
func (c *Config) Boundaries() ([]time.Duration, error) {
	return ParseDurations(c.Observers.Boundaries)
}

// InitialRate returns the rate applied after load. A missing value means 1.
func (c *Config) InitialRate() float64 {
	if c.Playback.Rate == nil {
		return DefaultRate
	}
	return *c.Playback.Rate
}

// MPRISEnabled returns whether the MPRIS bridge should start.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS.Enabled == nil || *c.MPRIS.Enabled
}

// ParseDurations parses Go duration strings, rejecting negative values.
func ParseDurations(values []string) ([]time.Duration, error) {
	out := make([]time.Duration, 0, len(values))
	for _, v := range values {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse boundary %q: %w", v, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("parse boundary %q: negative time", v)
		}
		out = append(out, d)
	}
	return out, nil
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
