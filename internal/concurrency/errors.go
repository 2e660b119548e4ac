// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for concurrency module.

package concurrency

import "errors"

var (
	// ErrPoolClosed indicates the pool has been shut down
	ErrPoolClosed = errors.New("worker pool is closed")

	// ErrInvalidWorkerCount indicates invalid worker count configuration
	ErrInvalidWorkerCount = errors.New("invalid worker count")

	// ErrCoreEnumeration indicates the host could not list its cores
	ErrCoreEnumeration = errors.New("core enumeration failed")

	// ErrInvalidWorker indicates a migration target outside the pool
	ErrInvalidWorker = errors.New("migration target out of range")

	// ErrTaskPanic wraps a panic recovered from a task step
	ErrTaskPanic = errors.New("task panicked")
)
