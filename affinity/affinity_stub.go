//go:build !linux && !windows
// +build !linux,!windows

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package affinity

import "errors"

// setAffinityPlatform is a stub for platforms without thread CPU affinity.
func setAffinityPlatform(cpuID int) error {
	return errors.New("affinity: not supported on this platform")
}
