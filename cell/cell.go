// File: cell/cell.go
// Package cell provides the lock-free scalar hand-off between the control
// thread and the real-time thread.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package cell

import (
	"math"
	"sync/atomic"
)

// Float32 is a single float32 exchanged between one writer (the control
// thread) and one reader (the real-time thread). The value is stored as its
// IEEE-754 bit pattern in one atomically accessed word, so reads are never
// torn and neither side blocks or allocates.
//
// No ordering is implied relative to other memory; the reader consumes
// exactly one value per cycle with no dependent state, which is all the
// contract requires.
//
// The zero value holds 0.0 and is ready to use.
type Float32 struct {
	bits uint32
}

// Store publishes v. Writer side only.
func (c *Float32) Store(v float32) {
	atomic.StoreUint32(&c.bits, math.Float32bits(v))
}

// Load returns the most recently stored value. Reader side only.
func (c *Float32) Load() float32 {
	return math.Float32frombits(atomic.LoadUint32(&c.bits))
}
