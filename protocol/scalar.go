// File: protocol/scalar.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package protocol

import (
	"bytes"
	"errors"
	"math"
	"strconv"
)

// ErrNaN rejects the one float value a control stream must never carry:
// filling a signal buffer with NaN poisons everything downstream.
var ErrNaN = errors.New("protocol: scalar value is NaN")

// Clamp reports whether ParseScalar had to pull a value back into range.
type Clamp uint8

const (
	ClampNone Clamp = iota
	ClampLow
	ClampHigh
)

func (c Clamp) String() string {
	switch c {
	case ClampLow:
		return "low"
	case ClampHigh:
		return "high"
	default:
		return "none"
	}
}

// ParseScalar parses one scalar line into a float32 control value.
// Surrounding whitespace is trimmed, which also absorbs CR from CRLF
// input. The whole trimmed line must be a valid base-10 float; infinities
// are representable signal values and pass, NaN and out-of-range values
// are rejected. When range clamping is compiled in, the returned Clamp
// tells the caller which bound was applied.
func ParseScalar(line []byte) (float32, Clamp, error) {
	trimmed := bytes.TrimSpace(line)
	v, err := strconv.ParseFloat(string(trimmed), 32)
	if err != nil {
		return 0, ClampNone, err
	}
	if math.IsNaN(v) {
		return 0, ClampNone, ErrNaN
	}
	value, clamp := clampScalar(float32(v))
	return value, clamp, nil
}
