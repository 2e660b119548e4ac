// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Core-bound worker pool with explicit task migration.
//
// Every worker is a goroutine locked to its own OS thread and, for the first
// len(cores) slots, pinned to one core. Tasks are step functions: a step runs
// to completion on one worker and then either finishes or names the worker
// that must run the next step (Task.MigrateTo). Hand-off goes through
// per-worker inboxes, which also orders the memory effects of consecutive
// steps.
package concurrency
