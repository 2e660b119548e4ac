//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for thread CPU affinity.

package affinity

import (
	"fmt"
	"unsafe"

	"github.com/momentics/corehop/api"
	"golang.org/x/sys/windows"
)

var (
	modkernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask  = modkernel32.NewProc("SetThreadAffinityMask")
	procGetProcessAffinityMask = modkernel32.NewProc("GetProcessAffinityMask")
)

// setAffinityPlatform sets thread affinity to a given CPU. Only the first
// processor group (64 CPUs) is addressable.
func setAffinityPlatform(core api.CoreID) error {
	if core >= 64 {
		return fmt.Errorf("affinity: cpu %d outside processor group 0: %w", core, api.ErrNotSupported)
	}
	mask := uintptr(1) << core
	ret, _, err := procSetThreadAffinityMask.Call(uintptr(windows.CurrentThread()), mask)
	if ret == 0 {
		return fmt.Errorf("affinity: SetThreadAffinityMask cpu %d: %w", core, err)
	}
	return nil
}

// availableCoresPlatform lists the CPUs of the process affinity mask within
// processor group 0.
func availableCoresPlatform() ([]api.CoreID, error) {
	var procMask, sysMask uintptr
	ret, _, err := procGetProcessAffinityMask.Call(uintptr(windows.CurrentProcess()),
		uintptr(unsafe.Pointer(&procMask)), uintptr(unsafe.Pointer(&sysMask)))
	if ret == 0 {
		return nil, fmt.Errorf("affinity: GetProcessAffinityMask: %w", err)
	}
	return coresFromMask(uint64(procMask)), nil
}

const threadIdentity = true

func threadIDPlatform() uint32 {
	return windows.GetCurrentThreadId()
}
