// File: internal/concurrency/inbox.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-worker run queue. Many producers (any worker migrating a task here),
// one consumer (the owning worker).

package concurrency

import (
	"sync"

	"github.com/eapache/queue"
)

type inbox struct {
	mu     sync.Mutex
	cond   sync.Cond
	q      *queue.Queue
	closed bool
}

func newInbox() *inbox {
	b := &inbox{q: queue.New()}
	b.cond.L = &b.mu
	return b
}

// push appends t; false if the inbox was closed.
func (b *inbox) push(t *Task) bool {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return false
	}
	b.q.Add(t)
	b.mu.Unlock()
	b.cond.Signal()
	return true
}

// pop blocks until a task is available or the inbox is closed.
func (b *inbox) pop() (*Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.q.Length() == 0 && !b.closed {
		b.cond.Wait()
	}
	if b.closed {
		return nil, false
	}
	return b.q.Remove().(*Task), true
}

// close rejects further pushes, wakes the consumer and returns the tasks
// that were still queued.
func (b *inbox) close() []*Task {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	rest := make([]*Task, 0, b.q.Length())
	for b.q.Length() > 0 {
		rest = append(rest, b.q.Remove().(*Task))
	}
	b.mu.Unlock()
	b.cond.Broadcast()
	return rest
}

func (b *inbox) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.q.Length()
}
