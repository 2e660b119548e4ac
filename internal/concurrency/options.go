// File: internal/concurrency/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Functional options for Build.

package concurrency

import (
	"runtime"

	"github.com/go-logr/logr"
)

// Observer receives pool events, typically to feed metrics.
type Observer interface {
	TaskSpawned()
	Migrated(worker int)
	Misrouted()
}

type noopObserver struct{}

func (noopObserver) TaskSpawned() {}
func (noopObserver) Migrated(int) {}
func (noopObserver) Misrouted()   {}

type options struct {
	workers  int
	log      logr.Logger
	observer Observer
}

func defaultOptions() options {
	return options{
		workers:  runtime.NumCPU(),
		log:      logr.Discard(),
		observer: noopObserver{},
	}
}

// Option customizes pool construction.
type Option func(*options)

// WithWorkers sets the number of worker slots. Defaults to runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the pool logger.
func WithLogger(log logr.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithObserver attaches an event observer.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}
