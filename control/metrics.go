// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Migration counters and latency histogram exported in Prometheus format.

package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/go-logr/logr"
)

// Metrics collects pool and benchmark counters in a private metrics.Set, so
// several pools in one process (tests) do not collide.
type Metrics struct {
	set        *metrics.Set
	migrations []*metrics.Counter
	misrouted  *metrics.Counter
	tasks      *metrics.Counter
	hops       *metrics.Counter
	latency    *metrics.Histogram
	started    time.Time
}

// NewMetrics registers the metric family for a pool of the given size.
func NewMetrics(workers int) *Metrics {
	set := metrics.NewSet()
	m := &Metrics{
		set:        set,
		migrations: make([]*metrics.Counter, workers),
		misrouted:  set.NewCounter("corehop_misrouted_total"),
		tasks:      set.NewCounter("corehop_tasks_total"),
		hops:       set.NewCounter("corehop_hops_total"),
		latency:    set.NewHistogram("corehop_migration_duration_seconds"),
		started:    time.Now(),
	}
	for i := range m.migrations {
		m.migrations[i] = set.NewCounter(fmt.Sprintf(`corehop_migrations_total{worker="%d"}`, i))
	}
	set.NewGauge("corehop_uptime_seconds", func() float64 {
		return time.Since(m.started).Seconds()
	})
	return m
}

// TaskSpawned counts a new task.
func (m *Metrics) TaskSpawned() { m.tasks.Inc() }

// Migrated counts a migration towards worker.
func (m *Metrics) Migrated(worker int) {
	if worker >= 0 && worker < len(m.migrations) {
		m.migrations[worker].Inc()
	}
}

// Misrouted counts a migration request that named no valid worker.
func (m *Metrics) Misrouted() { m.misrouted.Inc() }

// Hop counts a core change seen by a tracker.
func (m *Metrics) Hop() { m.hops.Inc() }

// ObserveMigration records one migration round trip.
func (m *Metrics) ObserveMigration(d time.Duration) {
	m.latency.Update(d.Seconds())
}

// Migrations returns the migration count towards worker.
func (m *Metrics) Migrations(worker int) uint64 {
	if worker < 0 || worker >= len(m.migrations) {
		return 0
	}
	return m.migrations[worker].Get()
}

// Hops returns the number of recorded hops.
func (m *Metrics) Hops() uint64 { return m.hops.Get() }

// Misroutes returns the number of ignored migration requests.
func (m *Metrics) Misroutes() uint64 { return m.misrouted.Get() }

// WritePrometheus writes the set and the process metrics to w.
func (m *Metrics) WritePrometheus(w io.Writer) {
	m.set.WritePrometheus(w)
	metrics.WriteProcessMetrics(w)
}

// Handler serves WritePrometheus over HTTP.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		m.WritePrometheus(w)
	})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, log logr.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("control: metrics server: %w", err)
	}
	return nil
}
