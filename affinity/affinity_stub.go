//go:build !linux && !windows
// +build !linux,!windows

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.
// Binding returns api.ErrNotSupported and there is no kernel thread id, so
// the registry keeps every thread at api.Unknown.

package affinity

import (
	"runtime"

	"github.com/momentics/corehop/api"
)

func setAffinityPlatform(core api.CoreID) error {
	return api.ErrNotSupported
}

func availableCoresPlatform() ([]api.CoreID, error) {
	cores := make([]api.CoreID, runtime.NumCPU())
	for i := range cores {
		cores[i] = api.CoreID(i)
	}
	return cores, nil
}

const threadIdentity = false

func threadIDPlatform() uint32 {
	return 0
}
