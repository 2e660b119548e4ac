// File: adapters/affinity_adapter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
// Description:
//   Adapter implementing the api.Host interface, delegating to the
//   affinity package for core enumeration and thread binding.
//
// Package adapters provides glue code between the core API contracts
// and the platform implementation.

package adapters

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/klauspost/cpuid/v2"
	"github.com/momentics/corehop/affinity"
	"github.com/momentics/corehop/api"
)

// Topology summarizes the host CPU for startup diagnostics.
type Topology struct {
	Brand          string
	Vendor         string
	PhysicalCores  int
	LogicalCores   int
	ThreadsPerCore int
	Available      int
}

// HostAdapter implements api.Host on top of the current platform.
type HostAdapter struct {
	log logr.Logger
}

// NewHostAdapter creates a host adapter logging through log.
func NewHostAdapter(log logr.Logger) *HostAdapter {
	return &HostAdapter{log: log}
}

var _ api.Host = (*HostAdapter)(nil)

// Cores returns the cores in the process affinity mask.
func (h *HostAdapter) Cores() ([]api.CoreID, error) {
	cores, err := affinity.AvailableCores()
	if err != nil {
		return nil, err
	}
	if len(cores) == 0 {
		return nil, fmt.Errorf("host reported no cores: %w", api.ErrNotSupported)
	}
	return cores, nil
}

// BindCurrentThread pins the calling OS thread to core.
func (h *HostAdapter) BindCurrentThread(core api.CoreID) error {
	if err := affinity.SetAffinity(core); err != nil {
		return err
	}
	h.log.V(2).Info("thread bound", "core", core, "tid", affinity.ThreadID())
	return nil
}

// Describe reports the CPU model and core counts.
func (h *HostAdapter) Describe() Topology {
	t := Topology{
		Brand:          cpuid.CPU.BrandName,
		Vendor:         cpuid.CPU.VendorString,
		PhysicalCores:  cpuid.CPU.PhysicalCores,
		LogicalCores:   cpuid.CPU.LogicalCores,
		ThreadsPerCore: cpuid.CPU.ThreadsPerCore,
	}
	if cores, err := affinity.AvailableCores(); err == nil {
		t.Available = len(cores)
	}
	return t
}

// LogTopology writes the Describe result at info level.
func (h *HostAdapter) LogTopology() {
	t := h.Describe()
	h.log.Info("host topology",
		"brand", t.Brand,
		"vendor", t.Vendor,
		"physical", t.PhysicalCores,
		"logical", t.LogicalCores,
		"threadsPerCore", t.ThreadsPerCore,
		"available", t.Available)
}
