// File: protocol/clamp_enabled.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build cvclamp
// +build cvclamp

package protocol

// clampScalar confines control values to the unipolar [0, 1] range.
// Builds carrying the cvclamp tag are meant for rigs where downstream
// modules misbehave outside it.
func clampScalar(v float32) (float32, Clamp) {
	if v < 0 {
		return 0, ClampLow
	}
	if v > 1 {
		return 1, ClampHigh
	}
	return v, ClampNone
}
