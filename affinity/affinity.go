// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform-neutral API for CPU affinity and thread identity. Platform-specific
// implementations are located in separate files (affinity_linux.go,
// affinity_windows.go, affinity_stub.go) guarded by build tags.

package affinity

import "github.com/momentics/corehop/api"

// SetAffinity pins the current OS thread to the given logical CPU.
// The caller must hold runtime.LockOSThread, otherwise the Go scheduler may
// move the goroutine off the pinned thread.
func SetAffinity(core api.CoreID) error {
	if !core.Known() {
		return api.ErrInvalidArgument
	}
	return setAffinityPlatform(core)
}

// AvailableCores lists the logical CPUs this process may run on, in
// ascending order.
func AvailableCores() ([]api.CoreID, error) {
	return availableCoresPlatform()
}

// ThreadID returns the kernel identifier of the calling OS thread.
// It is only stable across calls while the goroutine holds runtime.LockOSThread.
func ThreadID() uint32 {
	return threadIDPlatform()
}

// ThreadIdentity reports whether ThreadID distinguishes OS threads on this
// platform. When it does not, ThreadID always returns 0.
func ThreadIdentity() bool {
	return threadIdentity
}

func currentThread() (uint32, bool) {
	return threadIDPlatform(), threadIdentity
}
