// File: affinity/identity_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package affinity

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/momentics/corehop/api"
)

func noThreadIdentity() (uint32, bool) { return 0, false }

func TestRegistry_WithoutThreadIdentityStaysUnknown(t *testing.T) {
	reg := newRegistry(noThreadIdentity)

	// Two workers bound to 5 and 9 would otherwise share one entry.
	reg.Set(5)
	reg.Set(9)

	if got := reg.Get(); got != api.Unknown {
		t.Errorf("Expected Unknown without thread identity, got %d", got)
	}
	if reg.Len() != 0 {
		t.Errorf("Expected no entries, got %d", reg.Len())
	}
	reg.Clear()
	if reg.Len() != 0 {
		t.Errorf("Expected Clear to be a no-op, got %d entries", reg.Len())
	}
}

func TestRegistry_GetForReadsOtherThreadEntry(t *testing.T) {
	tid := uint32(41)
	reg := newRegistry(func() (uint32, bool) { return tid, true })
	reg.Set(7)

	tid = 42
	if got := reg.Get(); got != api.Unknown {
		t.Errorf("Expected Unknown for thread 42, got %d", got)
	}
	if got := reg.GetFor(41); got != 7 {
		t.Errorf("Expected core 7 for thread 41, got %d", got)
	}
	if got := reg.GetFor(99); got != api.Unknown {
		t.Errorf("Expected Unknown for unregistered thread, got %d", got)
	}
}

func TestCoreTracker_UsesInjectedThread(t *testing.T) {
	tid := uint32(1)
	reg := newRegistry(func() (uint32, bool) { return tid, true })
	reg.Set(5)
	tr := NewCoreTracker("injected", reg, logr.Discard())

	tid = 2
	reg.Set(9)
	if !tr.Touch() {
		t.Fatalf("Expected hop from 5 to 9")
	}
	if tr.LastThread() != 2 || tr.LastCore() != 9 {
		t.Errorf("Expected thread 2 on core 9, got thread %d core %d", tr.LastThread(), tr.LastCore())
	}
	if tr.Touch() {
		t.Errorf("Expected no hop on the same thread")
	}
}

func TestCoreTracker_WithoutThreadIdentityNeverHops(t *testing.T) {
	reg := newRegistry(noThreadIdentity)
	reg.Set(5)
	tr := NewCoreTracker("stub", reg, logr.Discard())
	if tr.InitialCore() != api.Unknown {
		t.Errorf("Expected Unknown initial core, got %d", tr.InitialCore())
	}
	if tr.Touch() || tr.Hops() != 0 {
		t.Errorf("Expected no hops without thread identity")
	}
}
