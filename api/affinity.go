// File: api/affinity.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// CPU core identifiers and the host collaborator used to enumerate and bind cores.

package api

import "math"

// CoreID is an opaque logical CPU identifier as reported by the host.
// Ids are not assumed to be zero-based or contiguous.
type CoreID uint32

// Unknown marks a thread that was never bound to a core.
const Unknown CoreID = math.MaxUint32

// Known reports whether c refers to an actual core.
func (c CoreID) Known() bool {
	return c != Unknown
}

// Host enumerates available cores and binds the calling OS thread to one of them.
type Host interface {
	// Cores returns the cores available to this process in enumeration order.
	Cores() ([]CoreID, error)
	// BindCurrentThread restricts the calling OS thread to core.
	// The caller must hold runtime.LockOSThread.
	BindCurrentThread(core CoreID) error
}
