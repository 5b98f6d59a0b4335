// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations
// live in separate files guarded by build tags.

package affinity

// SetAffinity pins the calling OS thread to one logical CPU. The caller
// must hold runtime.LockOSThread for the pin to mean anything; the
// periodic callback thread does exactly that before pinning itself. On
// unsupported platforms it returns an error.
func SetAffinity(cpuID int) error {
	return setAffinityPlatform(cpuID)
}
