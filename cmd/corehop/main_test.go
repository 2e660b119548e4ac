// File: cmd/corehop/main_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"testing"

	"github.com/docopt/docopt-go"
	"github.com/momentics/corehop/control"
)

func parse(t *testing.T, argv ...string) map[string]interface{} {
	t.Helper()
	parser := &docopt.Parser{HelpHandler: docopt.NoHelpHandler}
	opts, err := parser.ParseArgs(commandLine, argv, Version)
	if err != nil {
		t.Fatalf("parse %v: %v", argv, err)
	}
	return opts
}

func TestApplyArguments_Overrides(t *testing.T) {
	cfg, err := control.LoadConfigFrom(map[string]string{})
	if err != nil {
		t.Fatal(err)
	}
	args := parse(t, "--workers=2", "--rounds=10", "--debug", "--no-hops", "--metrics-addr=:9100")
	if err := applyArguments(&cfg, args); err != nil {
		t.Fatalf("applyArguments: %v", err)
	}
	if cfg.Workers != 2 || cfg.Rounds != 10 {
		t.Errorf("Expected 2 workers and 10 rounds, got %d/%d", cfg.Workers, cfg.Rounds)
	}
	if cfg.WarmupRounds != 100000 {
		t.Errorf("Expected warm-up to keep its default, got %d", cfg.WarmupRounds)
	}
	if cfg.LogLevel != 1 || cfg.TrackHops || cfg.MetricsAddr != ":9100" {
		t.Errorf("Unexpected config %+v", cfg)
	}
}

func TestApplyArguments_Invalid(t *testing.T) {
	cfg, _ := control.LoadConfigFrom(map[string]string{})
	if err := applyArguments(&cfg, parse(t, "--workers=abc")); err == nil {
		t.Errorf("Expected error for non-numeric workers")
	}
	cfg, _ = control.LoadConfigFrom(map[string]string{})
	if err := applyArguments(&cfg, parse(t, "--workers=0")); err == nil {
		t.Errorf("Expected error for zero workers")
	}
}
