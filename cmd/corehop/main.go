// File: cmd/corehop/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// corehop binds a worker pool to the host cores and measures how fast a task
// can be forced to jump between them.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strconv"
	"syscall"

	"github.com/docopt/docopt-go"
	"github.com/momentics/corehop/adapters"
	"github.com/momentics/corehop/affinity"
	"github.com/momentics/corehop/bench"
	"github.com/momentics/corehop/control"
	"github.com/momentics/corehop/internal/concurrency"
	"github.com/momentics/corehop/internal/logging"
	"github.com/pkg/profile"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Version is overridden at link time.
var Version = "0.1.0-dev"

var commandLine = `corehop
Forced task migration benchmark across core-bound workers.

Usage:
  corehop [--workers=<n>] [--warmup=<rounds>] [--rounds=<rounds>] [--debug] [--log-level=<level>] [--log-file=<path>] [--metrics-addr=<addr>] [--cpuprofile=<dir>] [--no-hops] [--stats]
  corehop -h | --help
  corehop --version

Options:
  -h --help               Show this screen.
  --version               Show version.
  --workers=<n>           Worker threads, bound round-robin to the available cores (env COREHOP_WORKERS, default 4).
  --warmup=<rounds>       Warm-up rounds; each round visits every worker once (env COREHOP_WARMUP_ROUNDS, default 100000).
  --rounds=<rounds>       Measured rounds (env COREHOP_ROUNDS, default 1000000).
  --debug                 Log worker hops and binding details (same as --log-level=1).
  --log-level=<level>     Console verbosity 0..127 (env COREHOP_LOG_LEVEL).
  --log-file=<path>       Also write JSON logs to a rotated file (env COREHOP_LOG_FILE).
  --metrics-addr=<addr>   Serve Prometheus metrics on addr/metrics (env COREHOP_METRICS_ADDR).
  --cpuprofile=<dir>      Write a CPU profile of the measured phase into dir (env COREHOP_PROFILE_DIR).
  --no-hops               Do not touch the core tracker on every resumption.
  --stats                 Dump pool and debug state after the run.
`

func main() {
	os.Exit(run())
}

func run() int {
	arguments, err := docopt.Parse(commandLine, nil, true, Version, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error while parsing options err: %s\n", err)
		return 2
	}

	cfg, err := control.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %s\n", err)
		return 2
	}
	if err := applyArguments(&cfg, arguments); err != nil {
		fmt.Fprintf(os.Stderr, "Error in arguments: %s\n", err)
		return 2
	}

	var logfile io.Writer
	if cfg.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    100, // megabytes
			MaxBackups: 2,
		}
		defer lj.Close()
		logfile = lj
	}
	logger := logging.New(os.Stdout, logfile, logging.NewLevels(cfg.LogLevel)).WithName("corehop")

	logger.Info("corehop", "version", Version)
	logger.Info("", "OS", runtime.GOOS, "ARCH", runtime.GOARCH, "GOMAXPROCS", runtime.GOMAXPROCS(0))
	logger.V(1).Info("", "Arguments", arguments)

	host := adapters.NewHostAdapter(logger.WithName("host"))
	host.LogTopology()

	metrics := control.NewMetrics(cfg.Workers)
	ctrl := adapters.NewControlAdapter(metrics)
	if err := ctrl.SetConfig(cfg.Map()); err != nil {
		logger.Error(err, "cannot publish configuration")
		return 1
	}

	pool, err := concurrency.Build(host, affinity.NewRegistry(),
		concurrency.WithWorkers(cfg.Workers),
		concurrency.WithLogger(logger.WithName("pool")),
		concurrency.WithObserver(metrics))
	if err != nil {
		logger.Error(err, "cannot start worker pool")
		return 1
	}
	defer pool.Close()
	adapters.RegisterPoolProbes(ctrl, pool)
	logger.Info("worker bindings", "cores", ctrl.Stats()["debug.pool.bindings"])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, logger.WithName("metrics")); err != nil {
				logger.Error(err, "metrics endpoint failed")
			}
		}()
	}

	opts := bench.Options{
		WarmupRounds: cfg.WarmupRounds,
		Rounds:       cfg.Rounds,
		TrackHops:    cfg.TrackHops,
		Log:          logger.WithName("bench"),
		Metrics:      metrics,
	}
	if cfg.ProfileDir != "" {
		opts.StartProfile = func() bench.Stopper {
			return profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.ProfileDir), profile.NoShutdownHook, profile.Quiet)
		}
	}

	res, err := bench.Run(ctx, pool, opts)
	if err != nil {
		logger.Error(err, "benchmark aborted", "completed", res.PerWorker)
		return 1
	}
	res.Report(os.Stdout)
	if !res.Balanced() {
		logger.Info("uneven worker distribution", "arrivals", res.PerWorker)
	}

	if arguments["--stats"] == true {
		stats := ctrl.Stats()
		keys := make([]string, 0, len(stats))
		for k := range stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			logger.Info("stat", "key", k, "value", stats[k])
		}
	}
	return 0
}

// applyArguments lets command-line flags override the environment.
func applyArguments(cfg *control.Config, arguments map[string]interface{}) error {
	ints := []struct {
		flag string
		dst  *int
	}{
		{"--workers", &cfg.Workers},
		{"--warmup", &cfg.WarmupRounds},
		{"--rounds", &cfg.Rounds},
		{"--log-level", &cfg.LogLevel},
	}
	for _, it := range ints {
		s, ok := arguments[it.flag].(string)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s: %w", it.flag, err)
		}
		*it.dst = v
	}

	strs := []struct {
		flag string
		dst  *string
	}{
		{"--log-file", &cfg.LogFile},
		{"--metrics-addr", &cfg.MetricsAddr},
		{"--cpuprofile", &cfg.ProfileDir},
	}
	for _, it := range strs {
		if s, ok := arguments[it.flag].(string); ok {
			*it.dst = s
		}
	}

	if arguments["--debug"] == true && cfg.LogLevel < 1 {
		cfg.LogLevel = 1
	}
	if arguments["--no-hops"] == true {
		cfg.TrackHops = false
	}
	return cfg.Validate()
}
