// Package benchmarks
// Author: momentics <momentics@gmail.com>
//
// Performance benchmarks for corehop components.

package benchmarks

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/momentics/corehop/affinity"
	"github.com/momentics/corehop/api"
	"github.com/momentics/corehop/fake"
	"github.com/momentics/corehop/internal/concurrency"
)

func benchPool(b *testing.B, workers int) *concurrency.Pool {
	b.Helper()
	cores := make([]api.CoreID, workers)
	for i := range cores {
		cores[i] = api.CoreID(i)
	}
	p, err := concurrency.Build(fake.NewHost(cores...), affinity.NewRegistry(), concurrency.WithWorkers(workers))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(p.Close)
	return p
}

// BenchmarkMigrationRoundRobin measures one forced migration per iteration,
// cycling over all workers.
func BenchmarkMigrationRoundRobin(b *testing.B) {
	p := benchPool(b, 4)
	n := 0
	b.ResetTimer()
	h := p.SpawnOn(context.Background(), 0, "bench", func(t *concurrency.Task) concurrency.Poll {
		if n >= b.N {
			return t.Done(nil)
		}
		n++
		return t.MigrateTo(n % 4)
	})
	if err := h.Wait(context.Background()); err != nil {
		b.Fatal(err)
	}
}

// BenchmarkYieldSameWorker is the baseline: requeue without changing thread.
func BenchmarkYieldSameWorker(b *testing.B) {
	p := benchPool(b, 1)
	n := 0
	b.ResetTimer()
	h := p.Spawn(context.Background(), "bench", func(t *concurrency.Task) concurrency.Poll {
		if n >= b.N {
			return t.Done(nil)
		}
		n++
		return t.Yield()
	})
	if err := h.Wait(context.Background()); err != nil {
		b.Fatal(err)
	}
}

// BenchmarkRegistryGet measures the per-thread core lookup.
func BenchmarkRegistryGet(b *testing.B) {
	reg := affinity.NewRegistry()
	reg.Set(3)
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = reg.Get()
		}
	})
}

// BenchmarkTrackerTouchSameThread measures the no-hop fast path.
func BenchmarkTrackerTouchSameThread(b *testing.B) {
	reg := affinity.NewRegistry()
	tr := affinity.NewCoreTracker("bench", reg, logr.Discard())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Touch()
	}
}
