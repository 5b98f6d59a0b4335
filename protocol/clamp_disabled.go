// File: protocol/clamp_disabled.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build !cvclamp
// +build !cvclamp

package protocol

// clampScalar passes control values through untouched. Build with the
// cvclamp tag to confine them to [0, 1].
func clampScalar(v float32) (float32, Clamp) {
	return v, ClampNone
}
