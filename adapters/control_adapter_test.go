package adapters_test

import (
	"errors"
	"testing"

	"github.com/momentics/corehop/adapters"
	"github.com/momentics/corehop/affinity"
	"github.com/momentics/corehop/api"
	"github.com/momentics/corehop/control"
	"github.com/momentics/corehop/fake"
	"github.com/momentics/corehop/internal/concurrency"
)

func TestControlAdapterBasic(t *testing.T) {
	ctrl := adapters.NewControlAdapter(nil)
	cfg := ctrl.GetConfig()
	if len(cfg) != 0 {
		t.Error("Expected empty config on init")
	}
	called := false
	ctrl.OnReload(func() { called = true })
	err := ctrl.SetConfig(map[string]any{"k": 1})
	if err != nil {
		t.Fatal(err)
	}
	stats := ctrl.Stats()
	if stats["config.k"] != 1 {
		t.Error("SetConfig did not apply")
	}
	if _, ok := stats["debug.platform.cpus"]; !ok {
		t.Error("Expected platform probe in stats")
	}
	if !called {
		t.Error("Reload hook not called")
	}
}

func TestControlAdapterPoolProbes(t *testing.T) {
	metrics := control.NewMetrics(3)
	ctrl := adapters.NewControlAdapter(metrics)

	p, err := concurrency.Build(fake.NewHost(5, 9), affinity.NewRegistry(),
		concurrency.WithWorkers(3), concurrency.WithObserver(metrics))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	adapters.RegisterPoolProbes(ctrl, p)

	stats := ctrl.Stats()
	bindings, ok := stats["debug.pool.bindings"].([]int64)
	if !ok {
		t.Fatalf("Expected []int64 bindings, got %T", stats["debug.pool.bindings"])
	}
	want := []int64{5, 9, -1}
	for i := range want {
		if bindings[i] != want[i] {
			t.Errorf("slot %d: expected %d, got %d", i, want[i], bindings[i])
		}
	}
	if stats["metrics.hops"] != uint64(0) {
		t.Errorf("Expected zero hops, got %v", stats["metrics.hops"])
	}
	if _, ok := stats["debug.pool.stats"].(map[string]int64); !ok {
		t.Errorf("Expected pool stats map")
	}
}

func TestControlAdapterRejectsInvalidConfig(t *testing.T) {
	ctrl := adapters.NewControlAdapter(nil)
	called := false
	ctrl.OnReload(func() { called = true })

	if err := ctrl.SetConfig(nil); !errors.Is(err, api.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for nil config, got %v", err)
	}
	if err := ctrl.SetConfig(map[string]any{"": 1}); !errors.Is(err, api.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for empty key, got %v", err)
	}
	if called {
		t.Error("Reload hook must not run for a rejected config")
	}
	if len(ctrl.GetConfig()) != 0 {
		t.Error("Rejected config must not be published")
	}
}
