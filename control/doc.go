// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime configuration, metrics and debug introspection for corehop.
//
// Provides concurrent-safe state handling primitives including:
//   - Config loaded from the environment, with validation
//   - Snapshot config store with change listeners
//   - Prometheus-format metrics for migrations, hops and latency
//   - Debug probe registration and state export
package control
