// control/config_test.go
// Author: momentics <momentics@gmail.com>

package control

import "testing"

func TestLoadConfigFrom_Defaults(t *testing.T) {
	cfg, err := LoadConfigFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.Workers != 4 || cfg.WarmupRounds != 100000 || cfg.Rounds != 1000000 {
		t.Errorf("Expected defaults 4/100000/1000000, got %d/%d/%d", cfg.Workers, cfg.WarmupRounds, cfg.Rounds)
	}
	if !cfg.TrackHops {
		t.Errorf("Expected hop tracking on by default")
	}
}

func TestLoadConfigFrom_Overrides(t *testing.T) {
	cfg, err := LoadConfigFrom(map[string]string{
		"COREHOP_WORKERS":      "8",
		"COREHOP_ROUNDS":       "10",
		"COREHOP_METRICS_ADDR": "127.0.0.1:9100",
		"COREHOP_TRACK_HOPS":   "false",
	})
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.Workers != 8 || cfg.Rounds != 10 {
		t.Errorf("Expected 8 workers and 10 rounds, got %d/%d", cfg.Workers, cfg.Rounds)
	}
	if cfg.MetricsAddr != "127.0.0.1:9100" || cfg.TrackHops {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if cfg.Map()["workers"] != 8 {
		t.Errorf("Expected Map to carry workers")
	}
}

func TestLoadConfigFrom_Invalid(t *testing.T) {
	for name, environ := range map[string]map[string]string{
		"zero workers":  {"COREHOP_WORKERS": "0"},
		"not a number":  {"COREHOP_ROUNDS": "many"},
		"negative warm": {"COREHOP_WARMUP_ROUNDS": "-1"},
		"log level":     {"COREHOP_LOG_LEVEL": "200"},
	} {
		if _, err := LoadConfigFrom(environ); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestConfigStore_SnapshotIsCopy(t *testing.T) {
	cs := NewConfigStore()
	calls := 0
	cs.OnChange(func() { calls++ })
	cs.SetConfig(map[string]any{"a": 1})
	snap := cs.GetSnapshot()
	snap["a"] = 2
	if cs.GetSnapshot()["a"] != 1 {
		t.Errorf("Expected snapshot mutation not to leak into store")
	}
	if calls != 1 {
		t.Errorf("Expected one change notification, got %d", calls)
	}
}
