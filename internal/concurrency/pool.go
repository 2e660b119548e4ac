// File: internal/concurrency/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool owns a fixed set of workers, each locked to its own OS thread and
// bound round-robin to the host cores at startup.

package concurrency

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/momentics/corehop/affinity"
	"github.com/momentics/corehop/api"
)

// Pool is a fixed set of core-bound workers.
type Pool struct {
	log      logr.Logger
	host     api.Host
	reg      *affinity.Registry
	observer Observer

	bindings []api.CoreID // slot -> core, immutable after Build
	workers  []*worker

	startMu sync.Mutex // guards started
	started int        // next slot handed to a starting worker

	ready   sync.WaitGroup
	stopped sync.WaitGroup
	closed  atomic.Bool

	taskSeq  atomic.Uint64
	spawnSeq atomic.Uint64

	// statistics
	spawned    atomic.Int64
	completed  atomic.Int64
	migrations atomic.Int64
	misrouted  atomic.Int64
}

type worker struct {
	slot  int
	core  api.CoreID
	tid   atomic.Uint32
	inbox *inbox

	steps    atomic.Int64
	arrivals atomic.Int64
}

var _ api.Executor = (*Pool)(nil)

// Build enumerates the host cores and starts the workers. Slot i is bound to
// cores[i] for i < min(workers, len(cores)); the remaining slots run unbound
// and keep api.Unknown in the registry. Build returns once every worker has
// finished its start hook, so the binding table is in effect.
func Build(host api.Host, reg *affinity.Registry, opts ...Option) (*Pool, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkerCount, o.workers)
	}

	cores, err := host.Cores()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCoreEnumeration, err)
	}

	p := &Pool{
		log:      o.log,
		host:     host,
		reg:      reg,
		observer: o.observer,
		bindings: make([]api.CoreID, o.workers),
		workers:  make([]*worker, o.workers),
	}
	for i := range p.workers {
		core := api.Unknown
		if i < len(cores) {
			core = cores[i]
		}
		p.bindings[i] = core
		p.workers[i] = &worker{slot: i, core: core, inbox: newInbox()}
	}

	p.log.Info("starting worker pool", "workers", o.workers, "cores", len(cores))
	p.ready.Add(o.workers)
	p.stopped.Add(o.workers)
	for i := 0; i < o.workers; i++ {
		go p.runWorker()
	}
	p.ready.Wait()
	return p, nil
}

// runWorker is the body of every worker goroutine. The goroutine never
// unlocks its thread, so the runtime discards the thread on exit together
// with its affinity mask.
func (p *Pool) runWorker() {
	runtime.LockOSThread()
	defer p.stopped.Done()

	w := p.onWorkerStart()
	p.ready.Done()

	for {
		t, ok := w.inbox.pop()
		if !ok {
			break
		}
		p.execute(w, t)
	}
	p.reg.Clear()
	p.log.V(1).Info("worker stopped", "worker", w.slot, "core", w.core)
}

// onWorkerStart runs once per worker thread before it executes any task.
func (p *Pool) onWorkerStart() *worker {
	p.startMu.Lock()
	slot := p.started
	p.started++
	p.startMu.Unlock()

	w := p.workers[slot]
	w.tid.Store(affinity.ThreadID())
	if w.core.Known() {
		if err := p.host.BindCurrentThread(w.core); err != nil {
			p.log.Error(err, "failed to bind worker thread", "worker", slot, "core", w.core)
		}
		p.reg.Set(w.core)
	}
	p.log.V(1).Info("worker started", "worker", slot, "core", coreField(w.core), "tid", w.tid.Load())
	return w
}

// execute runs one step of t on w and routes the task according to the result.
func (p *Pool) execute(w *worker, t *Task) {
	t.worker = w.slot
	w.steps.Add(1)

	poll := t.run()
	switch poll.state {
	case pollMigrate:
		target := t.next
		t.next = noHint
		if target < 0 || target >= len(p.workers) {
			p.misrouted.Add(1)
			p.observer.Misrouted()
			p.log.V(1).Info("migration ignored", "task", t.label, "target", target,
				"worker", w.slot, "reason", ErrInvalidWorker.Error())
			target = w.slot
		} else {
			p.migrations.Add(1)
			p.observer.Migrated(target)
		}
		p.enqueue(target, t)
	case pollYield:
		p.enqueue(w.slot, t)
	default:
		p.complete(t, t.err)
	}
}

func (p *Pool) enqueue(slot int, t *Task) {
	w := p.workers[slot]
	if !w.inbox.push(t) {
		p.complete(t, ErrPoolClosed)
		return
	}
	w.arrivals.Add(1)
}

func (p *Pool) complete(t *Task, err error) {
	p.completed.Add(1)
	t.finish(err)
}

// Spawn starts a task on the next worker in round-robin order.
func (p *Pool) Spawn(ctx context.Context, label string, step Step) *Handle {
	slot := int((p.spawnSeq.Add(1) - 1) % uint64(len(p.workers)))
	return p.SpawnOn(ctx, slot, label, step)
}

// SpawnOn starts a task whose first step runs on worker slot. An out of
// range slot is wrapped into the pool.
func (p *Pool) SpawnOn(ctx context.Context, slot int, label string, step Step) *Handle {
	if ctx == nil {
		ctx = context.Background()
	}
	t := &Task{
		id:     p.taskSeq.Add(1),
		label:  label,
		step:   step,
		pool:   p,
		ctx:    ctx,
		worker: noHint,
		next:   noHint,
		done:   make(chan struct{}),
	}
	h := &Handle{t: t}
	if p.closed.Load() {
		t.finish(ErrPoolClosed)
		return h
	}
	p.spawned.Add(1)
	p.observer.TaskSpawned()

	n := len(p.workers)
	slot = ((slot % n) + n) % n
	p.enqueue(slot, t)
	return h
}

// NumWorkers returns the number of worker slots.
func (p *Pool) NumWorkers() int {
	return len(p.workers)
}

// Bindings returns a copy of the slot -> core table.
func (p *Pool) Bindings() []api.CoreID {
	out := make([]api.CoreID, len(p.bindings))
	copy(out, p.bindings)
	return out
}

// Binding returns the core bound to slot, or api.Unknown.
func (p *Pool) Binding(slot int) api.CoreID {
	if slot < 0 || slot >= len(p.bindings) {
		return api.Unknown
	}
	return p.bindings[slot]
}

// Registry returns the registry the workers registered into.
func (p *Pool) Registry() *affinity.Registry {
	return p.reg
}

// Close stops all workers and fails queued tasks with ErrPoolClosed.
// It must not be called from inside a task step.
func (p *Pool) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	for _, w := range p.workers {
		for _, t := range w.inbox.close() {
			p.complete(t, ErrPoolClosed)
		}
	}
	p.stopped.Wait()
	p.log.Info("worker pool stopped", "completed", p.completed.Load())
}

// WorkerStats is a snapshot of one worker.
type WorkerStats struct {
	Slot     int
	Core     api.CoreID
	Thread   uint32
	Steps    int64
	Arrivals int64
	Queued   int
}

// Workers returns per-worker counters.
func (p *Pool) Workers() []WorkerStats {
	out := make([]WorkerStats, len(p.workers))
	for i, w := range p.workers {
		out[i] = WorkerStats{
			Slot:     w.slot,
			Core:     w.core,
			Thread:   w.tid.Load(),
			Steps:    w.steps.Load(),
			Arrivals: w.arrivals.Load(),
			Queued:   w.inbox.size(),
		}
	}
	return out
}

// Stats returns basic pool metrics.
func (p *Pool) Stats() map[string]int64 {
	spawned := p.spawned.Load()
	completed := p.completed.Load()
	return map[string]int64{
		"spawned_tasks":   spawned,
		"completed_tasks": completed,
		"pending_tasks":   spawned - completed,
		"migrations":      p.migrations.Load(),
		"misrouted":       p.misrouted.Load(),
		"num_workers":     int64(len(p.workers)),
	}
}

func coreField(c api.CoreID) int64 {
	if !c.Known() {
		return -1
	}
	return int64(c)
}
