// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Harness configuration: environment defaults plus a snapshot store of the
// effective values for diagnostics.

package control

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v6"
)

// Config holds the tunables of a benchmark run. Command-line flags override
// the environment.
type Config struct {
	Workers      int    `env:"COREHOP_WORKERS" envDefault:"4"`
	WarmupRounds int    `env:"COREHOP_WARMUP_ROUNDS" envDefault:"100000"`
	Rounds       int    `env:"COREHOP_ROUNDS" envDefault:"1000000"`
	LogLevel     int    `env:"COREHOP_LOG_LEVEL" envDefault:"0"`
	LogFile      string `env:"COREHOP_LOG_FILE"`
	MetricsAddr  string `env:"COREHOP_METRICS_ADDR"`
	TrackHops    bool   `env:"COREHOP_TRACK_HOPS" envDefault:"true"`
	ProfileDir   string `env:"COREHOP_PROFILE_DIR"`
}

// LoadConfig reads Config from the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("control: parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadConfigFrom reads Config from the given variables instead of the process
// environment.
func LoadConfigFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg, env.Options{Environment: environ}); err != nil {
		return cfg, fmt.Errorf("control: parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the harness cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Workers <= 0:
		return fmt.Errorf("control: workers must be positive, got %d", c.Workers)
	case c.WarmupRounds < 0:
		return fmt.Errorf("control: warm-up rounds must not be negative, got %d", c.WarmupRounds)
	case c.Rounds <= 0:
		return fmt.Errorf("control: rounds must be positive, got %d", c.Rounds)
	case c.LogLevel < 0 || c.LogLevel > 127:
		return fmt.Errorf("control: log level must be within 0..127, got %d", c.LogLevel)
	}
	return nil
}

// Map flattens the config for ConfigStore and debug output.
func (c Config) Map() map[string]any {
	return map[string]any{
		"workers":       c.Workers,
		"warmup_rounds": c.WarmupRounds,
		"rounds":        c.Rounds,
		"log_level":     c.LogLevel,
		"log_file":      c.LogFile,
		"metrics_addr":  c.MetricsAddr,
		"track_hops":    c.TrackHops,
		"profile_dir":   c.ProfileDir,
	}
}

// ConfigStore is a key/value map with snapshot reads and change listeners.
type ConfigStore struct {
	mu        sync.RWMutex
	config    map[string]any
	listeners []func()
}

// NewConfigStore initializes a new config store with empty data.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		config:    make(map[string]any),
		listeners: make([]func(), 0),
	}
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make(map[string]any, len(cs.config))
	for k, v := range cs.config {
		out[k] = v
	}
	return out
}

// SetConfig merges new values and notifies listeners synchronously.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	cs.mu.Lock()
	for k, v := range newCfg {
		cs.config[k] = v
	}
	listeners := append([]func(){}, cs.listeners...)
	cs.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// OnChange registers a listener called after every SetConfig.
func (cs *ConfigStore) OnChange(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}
