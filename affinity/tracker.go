// File: affinity/tracker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// CoreTracker follows a logical entity across suspension points and logs
// every time it resumes on a different core.

package affinity

import (
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/momentics/corehop/api"
)

// CoreTracker records the thread and core that last executed an entity.
//
// The last thread and last core live in one atomic word, so they are always
// observed and replaced together. Concurrent Touch calls are memory safe but
// their relative order is unspecified; an entity is expected to be executed
// by one worker at a time.
type CoreTracker struct {
	label   string
	initial api.CoreID
	reg     *Registry
	log     logr.Logger

	last atomic.Uint64 // thread id << 32 | core id
	hops atomic.Uint64
}

func pack(tid uint32, core api.CoreID) uint64 {
	return uint64(tid)<<32 | uint64(core)
}

func unpack(v uint64) (uint32, api.CoreID) {
	return uint32(v >> 32), api.CoreID(uint32(v))
}

// NewCoreTracker snapshots the calling thread's core as the initial location.
func NewCoreTracker(label string, reg *Registry, log logr.Logger) *CoreTracker {
	tid, _ := reg.thread()
	core := reg.GetFor(tid)
	t := &CoreTracker{
		label:   label,
		initial: core,
		reg:     reg,
		log:     log,
	}
	t.last.Store(pack(tid, core))
	log.V(1).Info("CoreTracker created", "core", coreValue(core), "label", label)
	return t
}

// Touch checks whether the entity now runs on another thread. When that
// thread is bound to a different core than the one last seen, one hop is
// logged and counted. It reports whether a hop was recorded.
func (t *CoreTracker) Touch() bool {
	tid, _ := t.reg.thread()
	for {
		prev := t.last.Load()
		lastTid, lastCore := unpack(prev)
		if tid == lastTid {
			return false
		}
		core := t.reg.GetFor(tid)
		if !t.last.CompareAndSwap(prev, pack(tid, core)) {
			continue
		}
		if core == lastCore {
			return false
		}
		t.hops.Add(1)
		t.log.V(1).Info("Worker hop",
			"from", coreValue(lastCore),
			"to", coreValue(core),
			"label", t.label,
			"initial", coreValue(t.initial))
		return true
	}
}

// CurrentCore returns the core the calling thread is bound to.
func (t *CoreTracker) CurrentCore() api.CoreID {
	return t.reg.Get()
}

// Label returns the human-readable name of the tracked entity.
func (t *CoreTracker) Label() string { return t.label }

// InitialCore returns the core observed at construction.
func (t *CoreTracker) InitialCore() api.CoreID { return t.initial }

// LastCore returns the core recorded by the most recent thread change.
func (t *CoreTracker) LastCore() api.CoreID {
	_, core := unpack(t.last.Load())
	return core
}

// LastThread returns the thread id recorded by the most recent thread change.
func (t *CoreTracker) LastThread() uint32 {
	tid, _ := unpack(t.last.Load())
	return tid
}

// Hops returns how many hops were logged so far.
func (t *CoreTracker) Hops() uint64 { return t.hops.Load() }

// coreValue renders api.Unknown as -1 so log lines stay readable.
func coreValue(c api.CoreID) int64 {
	if !c.Known() {
		return -1
	}
	return int64(c)
}
