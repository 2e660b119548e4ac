// File: bench/bench.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Round-robin migration benchmark: one task jumps across every worker of a
// pool, first to warm up, then under measurement.

package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-logr/logr"
	"github.com/momentics/corehop/affinity"
	"github.com/momentics/corehop/api"
	"github.com/momentics/corehop/control"
	"github.com/momentics/corehop/internal/concurrency"
	"github.com/valyala/histogram"
)

// Stopper ends a profiling session.
type Stopper interface {
	Stop()
}

// Options configures a run. Warm-up and measured iteration counts are
// rounds multiplied by the number of workers.
type Options struct {
	WarmupRounds int
	Rounds       int
	TrackHops    bool
	Log          logr.Logger
	Metrics      *control.Metrics

	// StartProfile, when set, is started right before the measured phase and
	// stopped right after it.
	StartProfile func() Stopper
}

// Result summarizes a run.
type Result struct {
	Workers    int
	Warmup     int
	Iterations int
	Duration   time.Duration
	PerJump    time.Duration
	P50        time.Duration
	P99        time.Duration
	Max        time.Duration
	PerWorker  []int64
	Bindings   []api.CoreID
	Hops       uint64
	StartCore  api.CoreID
	EndCore    api.CoreID
}

// ErrNoRounds is returned when nothing would be measured.
var ErrNoRounds = errors.New("bench: rounds must be positive")

type phase uint8

const (
	warming phase = iota
	measuring
)

// runner is the state of the benchmark task. Only the task touches it, one
// step at a time.
type runner struct {
	opts    Options
	reg     *affinity.Registry
	workers int
	warmup  int
	iters   int

	tracker *affinity.CoreTracker
	phase   phase
	n       int
	sent    time.Time
	begin   time.Time
	prof    Stopper
	hist    *histogram.Fast
	res     Result
}

// Run drives the benchmark task on p and waits for it.
func Run(ctx context.Context, p *concurrency.Pool, opts Options) (Result, error) {
	if opts.Rounds <= 0 {
		return Result{}, ErrNoRounds
	}
	if opts.WarmupRounds < 0 {
		opts.WarmupRounds = 0
	}
	if opts.Log.GetSink() == nil {
		opts.Log = logr.Discard()
	}

	workers := p.NumWorkers()
	r := &runner{
		opts:    opts,
		reg:     p.Registry(),
		workers: workers,
		warmup:  workers * opts.WarmupRounds,
		iters:   workers * opts.Rounds,
		hist:    histogram.NewFast(),
	}
	r.res = Result{
		Workers:    workers,
		Warmup:     r.warmup,
		Iterations: r.iters,
		PerWorker:  make([]int64, workers),
		Bindings:   p.Bindings(),
	}

	h := p.Spawn(ctx, "round_robin", r.step)
	if err := h.Wait(context.Background()); err != nil {
		if r.prof != nil {
			r.prof.Stop()
		}
		return r.res, err
	}
	return r.res, nil
}

func (r *runner) step(t *concurrency.Task) concurrency.Poll {
	now := time.Now()
	log := r.opts.Log

	if r.tracker == nil {
		r.tracker = affinity.NewCoreTracker(t.Label(), r.reg, log)
		r.res.StartCore = r.tracker.InitialCore()
		log.Info("I can run on any core I want!")
		log.Info("Starting", "core", coreString(r.tracker.CurrentCore()), "worker", t.Worker())
		if r.warmup == 0 {
			r.startMeasuring()
		}
	} else {
		if r.opts.TrackHops && r.tracker.Touch() && r.opts.Metrics != nil {
			r.opts.Metrics.Hop()
		}
		if r.phase == measuring && r.n > 0 {
			lat := now.Sub(r.sent)
			r.hist.Update(float64(lat))
			r.res.PerWorker[t.Worker()]++
			if r.opts.Metrics != nil {
				r.opts.Metrics.ObserveMigration(lat)
			}
		}
	}

	if err := t.Context().Err(); err != nil {
		return t.Done(err)
	}

	if r.phase == warming {
		if r.n < r.warmup {
			return r.jump(t)
		}
		r.startMeasuring()
	}

	if r.n < r.iters {
		return r.jump(t)
	}
	r.finish(t, now)
	return t.Done(nil)
}

func (r *runner) jump(t *concurrency.Task) concurrency.Poll {
	target := r.n % r.workers
	r.n++
	r.sent = time.Now()
	return t.MigrateTo(target)
}

func (r *runner) startMeasuring() {
	r.opts.Log.V(1).Info("warm-up complete", "iterations", r.warmup)
	r.phase = measuring
	r.n = 0
	if r.opts.StartProfile != nil {
		r.prof = r.opts.StartProfile()
	}
	r.begin = time.Now()
}

func (r *runner) finish(t *concurrency.Task, now time.Time) {
	r.res.Duration = now.Sub(r.begin)
	if r.prof != nil {
		r.prof.Stop()
		r.prof = nil
	}
	if r.iters > 0 {
		r.res.PerJump = r.res.Duration / time.Duration(r.iters)
	}
	r.res.P50 = time.Duration(r.hist.Quantile(0.5))
	r.res.P99 = time.Duration(r.hist.Quantile(0.99))
	r.res.Max = time.Duration(r.hist.Quantile(1))
	r.res.Hops = r.tracker.Hops()
	r.res.EndCore = r.tracker.CurrentCore()
	r.opts.Log.V(1).Info("measurement complete", "worker", t.Worker(), "hops", r.res.Hops)
}

// Report prints the summary line followed by the per-worker distribution.
func (r Result) Report(w io.Writer) {
	fmt.Fprintf(w, "jumps: %d iterations in %dms, %.3fus per jump\n",
		r.Iterations, r.Duration.Milliseconds(), float64(r.PerJump.Nanoseconds())/1e3)
	fmt.Fprintf(w, "latency: p50 %s, p99 %s, max %s\n", r.P50, r.P99, r.Max)
	fmt.Fprintf(w, "hops: %d (start core %s, end core %s)\n", r.Hops, coreString(r.StartCore), coreString(r.EndCore))
	for slot, n := range r.PerWorker {
		core := api.Unknown
		if slot < len(r.Bindings) {
			core = r.Bindings[slot]
		}
		fmt.Fprintf(w, "  worker %d (core %s): %d arrivals\n", slot, coreString(core), n)
	}
}

// Balanced reports whether every worker received the same number of arrivals.
func (r Result) Balanced() bool {
	for _, n := range r.PerWorker {
		if n != r.PerWorker[0] {
			return false
		}
	}
	return true
}

func coreString(c api.CoreID) string {
	if !c.Known() {
		return "unknown"
	}
	return fmt.Sprintf("%d", c)
}
