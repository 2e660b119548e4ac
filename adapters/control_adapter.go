// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Control adapter implementing api.Control interface using control package primitives.

package adapters

import (
	"fmt"

	"github.com/momentics/corehop/api"
	"github.com/momentics/corehop/control"
)

type ControlAdapter struct {
	config  *control.ConfigStore
	metrics *control.Metrics
	debug   *control.DebugProbes
}

// NewControlAdapter wires a config store and probe registry around metrics.
// metrics may be nil when no pool metrics are collected.
func NewControlAdapter(metrics *control.Metrics) *ControlAdapter {
	adapter := &ControlAdapter{
		config:  control.NewConfigStore(),
		metrics: metrics,
		debug:   control.NewDebugProbes(),
	}
	control.RegisterPlatformProbes(adapter.debug)
	return adapter
}

var _ api.Control = (*ControlAdapter)(nil)

func (c *ControlAdapter) GetConfig() map[string]any {
	return c.config.GetSnapshot()
}

// SetConfig merges cfg into the published configuration and notifies reload hooks.
// A nil map or an empty key is rejected with api.ErrInvalidArgument.
func (c *ControlAdapter) SetConfig(cfg map[string]any) error {
	if cfg == nil {
		return fmt.Errorf("nil config: %w", api.ErrInvalidArgument)
	}
	for k := range cfg {
		if k == "" {
			return fmt.Errorf("empty config key: %w", api.ErrInvalidArgument)
		}
	}
	c.config.SetConfig(cfg)
	return nil
}

// Stats merges config, metric counters and probe output into one map.
func (c *ControlAdapter) Stats() map[string]any {
	combined := make(map[string]any)
	for k, v := range c.config.GetSnapshot() {
		combined["config."+k] = v
	}
	if c.metrics != nil {
		combined["metrics.hops"] = c.metrics.Hops()
		combined["metrics.misrouted"] = c.metrics.Misroutes()
	}
	for k, v := range c.debug.DumpState() {
		combined["debug."+k] = v
	}
	return combined
}

func (c *ControlAdapter) OnReload(fn func()) {
	c.config.OnChange(fn)
}

func (c *ControlAdapter) RegisterDebugProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}

// Metrics returns the wrapped metrics, possibly nil.
func (c *ControlAdapter) Metrics() *control.Metrics {
	return c.metrics
}
