// File: api/executor.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Executor contract for pools of core-bound workers.

package api

// Executor abstracts a fixed pool of core-bound workers.
type Executor interface {
	// NumWorkers returns the number of worker slots.
	NumWorkers() int

	// Bindings returns the slot -> core table; Unknown for unbound slots.
	Bindings() []CoreID

	// Close stops all workers. Safe to call more than once.
	Close()
}
