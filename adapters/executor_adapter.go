// File: adapters/executor_adapter.go
// Package adapters provides glue between internal concurrency and api.Control.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool probes publish the binding table and worker counters of a running
// pool through the debug probe registry.

package adapters

import (
	"github.com/momentics/corehop/api"
	"github.com/momentics/corehop/internal/concurrency"
)

// RegisterPoolProbes exposes pool state under the "pool." prefix.
func RegisterPoolProbes(ctrl api.Control, p *concurrency.Pool) {
	ctrl.RegisterDebugProbe("pool.bindings", func() any {
		out := make([]int64, 0, p.NumWorkers())
		for _, c := range p.Bindings() {
			if c.Known() {
				out = append(out, int64(c))
			} else {
				out = append(out, -1)
			}
		}
		return out
	})
	ctrl.RegisterDebugProbe("pool.stats", func() any {
		return p.Stats()
	})
	ctrl.RegisterDebugProbe("pool.workers", func() any {
		return p.Workers()
	})
	ctrl.RegisterDebugProbe("pool.registered_threads", func() any {
		return p.Registry().Len()
	})
}
