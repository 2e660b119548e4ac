// File: affinity/registry.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Registry records which core each OS thread was bound to.

package affinity

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/corehop/api"
)

// Registry maps OS threads to the core they were bound to at startup.
//
// Every thread owns exactly one entry keyed by its kernel thread id and is the
// only writer of that entry. Lookups from any other thread see that thread's
// own entry, never someone else's. Threads that never called Set report
// api.Unknown. On platforms without a kernel thread id Set is a no-op and
// every thread reports api.Unknown.
type Registry struct {
	slots  sync.Map // uint32 thread id -> *threadSlot
	size   atomic.Int64
	thread func() (uint32, bool)
}

type threadSlot struct {
	core atomic.Uint32
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return newRegistry(currentThread)
}

func newRegistry(thread func() (uint32, bool)) *Registry {
	return &Registry{thread: thread}
}

// Set stores core as the calling thread's current core. Repeated calls overwrite.
func (r *Registry) Set(core api.CoreID) {
	tid, ok := r.thread()
	if !ok {
		return
	}
	if v, ok := r.slots.Load(tid); ok {
		v.(*threadSlot).core.Store(uint32(core))
		return
	}
	s := &threadSlot{}
	s.core.Store(uint32(core))
	if _, loaded := r.slots.LoadOrStore(tid, s); loaded {
		// thread ids are recycled; the previous owner is gone
		r.slots.Store(tid, s)
		return
	}
	r.size.Add(1)
}

// Get returns the calling thread's core, or api.Unknown if it was never set.
func (r *Registry) Get() api.CoreID {
	tid, ok := r.thread()
	if !ok {
		return api.Unknown
	}
	return r.GetFor(tid)
}

// GetFor returns the core registered by thread tid, or api.Unknown. Callers
// that already hold the calling thread's id use it to skip a second lookup.
func (r *Registry) GetFor(tid uint32) api.CoreID {
	v, ok := r.slots.Load(tid)
	if !ok {
		return api.Unknown
	}
	return api.CoreID(v.(*threadSlot).core.Load())
}

// Clear drops the calling thread's entry. Workers call it on exit.
func (r *Registry) Clear() {
	tid, ok := r.thread()
	if !ok {
		return
	}
	if _, loaded := r.slots.LoadAndDelete(tid); loaded {
		r.size.Add(-1)
	}
}

// Len returns the number of threads with an entry.
func (r *Registry) Len() int {
	return int(r.size.Load())
}
