// File: internal/concurrency/task.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Tasks, their step functions and the migration primitive.

package concurrency

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/momentics/corehop/api"
)

type pollState uint8

const (
	pollDone pollState = iota
	pollMigrate
	pollYield
)

// Poll is what a step hands back to its worker: finished, or suspended with
// a resumption request. The zero value means finished without error.
type Poll struct {
	state pollState
}

// Step is one slice of a task. It runs on a single worker thread from start
// to return; the returned Poll decides where the next step runs.
type Step func(t *Task) Poll

const noHint = -1

// Task is a unit of work executed by the pool. A task is run by at most one
// worker at a time, so its fields need no locking.
type Task struct {
	id    uint64
	label string
	step  Step
	pool  *Pool
	ctx   context.Context

	worker int // slot running the current step
	next   int // pending migration hint, noHint when none
	steps  uint64

	err      error
	finished atomic.Bool
	done     chan struct{}
}

// MigrateTo records worker as the slot that must run the next step and
// suspends the task. Return its result from the step:
//
//	return t.MigrateTo(k)
//
// The hint is consumed exactly once by the worker that ran this step.
// A slot outside [0, NumWorkers) keeps the task on its current worker.
func (t *Task) MigrateTo(worker int) Poll {
	t.next = worker
	return Poll{state: pollMigrate}
}

// Yield suspends the task and requeues it on its current worker.
func (t *Task) Yield() Poll {
	t.next = noHint
	return Poll{state: pollYield}
}

// Done finishes the task with err.
func (t *Task) Done(err error) Poll {
	t.next = noHint
	t.err = err
	return Poll{state: pollDone}
}

// ID returns the pool-unique task id.
func (t *Task) ID() uint64 { return t.id }

// Label returns the name given at spawn time.
func (t *Task) Label() string { return t.label }

// Worker returns the slot running the current step.
func (t *Task) Worker() int { return t.worker }

// Steps returns how many steps have started so far, the current one included.
func (t *Task) Steps() uint64 { return t.steps }

// Core returns the core the current worker thread is bound to.
func (t *Task) Core() api.CoreID { return t.pool.reg.Get() }

// Context returns the context the task was spawned with.
func (t *Task) Context() context.Context { return t.ctx }

// run executes one step, converting a panic into a finished task.
func (t *Task) run() (p Poll) {
	defer func() {
		if r := recover(); r != nil {
			t.pool.log.Error(nil, "task panicked", "task", t.label, "id", t.id, "worker", t.worker,
				"panic", r, "stack", string(debug.Stack()))
			p = t.Done(fmt.Errorf("%w: %v", ErrTaskPanic, r))
		}
	}()
	t.steps++
	return t.step(t)
}

func (t *Task) finish(err error) {
	if !t.finished.CompareAndSwap(false, true) {
		return
	}
	t.err = err
	close(t.done)
}

// Handle lets the spawner wait for a task.
type Handle struct {
	t *Task
}

// Done is closed when the task finishes.
func (h *Handle) Done() <-chan struct{} { return h.t.done }

// Wait blocks until the task finishes or ctx ends. Cancelling ctx only stops
// waiting; the task itself keeps running.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.t.done:
		return h.t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the task result once Done is closed.
func (h *Handle) Err() error {
	select {
	case <-h.t.done:
		return h.t.err
	default:
		return nil
	}
}

// ID returns the task id.
func (h *Handle) ID() uint64 { return h.t.id }
