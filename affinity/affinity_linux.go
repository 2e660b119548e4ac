//go:build linux
// +build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific implementation based on sched_setaffinity(2) and gettid(2).

package affinity

import (
	"fmt"

	"github.com/momentics/corehop/api"
	"golang.org/x/sys/unix"
)

// setAffinityPlatform restricts the calling thread (pid 0) to a single CPU
// and verifies the kernel accepted the mask.
func setAffinityPlatform(core api.CoreID) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(int(core))
	if err := unix.SchedSetaffinity(0, &mask); err != nil {
		return fmt.Errorf("affinity: sched_setaffinity cpu %d: %w", core, err)
	}

	var verify unix.CPUSet
	if err := unix.SchedGetaffinity(0, &verify); err != nil {
		return fmt.Errorf("affinity: sched_getaffinity: %w", err)
	}
	if verify.Count() != 1 || !verify.IsSet(int(core)) {
		return fmt.Errorf("affinity: could not pin to cpu %d", core)
	}
	return nil
}

// availableCoresPlatform reads the process affinity mask, so cores excluded
// by taskset or cgroup cpusets are not reported.
func availableCoresPlatform() ([]api.CoreID, error) {
	var mask unix.CPUSet
	if err := unix.SchedGetaffinity(0, &mask); err != nil {
		return nil, fmt.Errorf("affinity: sched_getaffinity: %w", err)
	}
	cores := make([]api.CoreID, 0, mask.Count())
	for cpu := 0; cpu < len(mask)*64; cpu++ {
		if mask.IsSet(cpu) {
			cores = append(cores, api.CoreID(cpu))
		}
	}
	return cores, nil
}

const threadIdentity = true

func threadIDPlatform() uint32 {
	return uint32(unix.Gettid())
}
