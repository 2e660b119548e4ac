// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"sync"

	"github.com/momentics/corehop/api"
)

// Bind is one recorded BindCurrentThread call.
type Bind struct {
	Core   api.CoreID
	Thread uint32
}

// Host is a deterministic api.Host for tests. It never touches the real
// scheduler affinity, it only records which core each call asked for.
type Host struct {
	CoreList []api.CoreID
	CoresErr error
	BindErr  error

	// ThreadID, when set, identifies the calling thread in recorded binds.
	ThreadID func() uint32

	mu    sync.Mutex
	binds []Bind
}

// NewHost returns a host reporting the given cores.
func NewHost(cores ...api.CoreID) *Host {
	return &Host{CoreList: cores}
}

// Cores returns a copy of CoreList or CoresErr.
func (h *Host) Cores() ([]api.CoreID, error) {
	if h.CoresErr != nil {
		return nil, h.CoresErr
	}
	out := make([]api.CoreID, len(h.CoreList))
	copy(out, h.CoreList)
	return out, nil
}

// BindCurrentThread records the request and returns BindErr.
func (h *Host) BindCurrentThread(core api.CoreID) error {
	b := Bind{Core: core}
	if h.ThreadID != nil {
		b.Thread = h.ThreadID()
	}
	h.mu.Lock()
	h.binds = append(h.binds, b)
	h.mu.Unlock()
	return h.BindErr
}

// Binds returns the recorded bind calls in call order.
func (h *Host) Binds() []Bind {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Bind, len(h.binds))
	copy(out, h.binds)
	return out
}
