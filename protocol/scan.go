// File: protocol/scan.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package protocol

import "sync/atomic"

// LineScanner splits an incoming byte stream into lines and hands each one
// to a callback. It owns a fixed-capacity accumulator sized at
// construction; input is fed in whatever chunks the descriptor produced,
// and line boundaries may fall anywhere inside or between chunks.
//
// A line that outgrows the accumulator is not an error: the excess bytes
// are dropped and the truncated line is still delivered at its terminator.
// The Resync field, when set, names a marker byte that discards the
// accumulator wherever it appears; empty lines still reach the callback,
// so a marker directly followed by a terminator delivers an empty line.
type LineScanner struct {
	// Resync is the in-band cancel byte, usually ResyncMarker. Zero
	// disables marker handling; set it before the first Feed.
	Resync byte

	buf     []byte
	onLine  func(line []byte)
	dropped uint64
}

// NewLineScanner returns a scanner that accumulates at most max bytes per
// line. The slice passed to onLine aliases the accumulator and is valid
// only until onLine returns.
func NewLineScanner(max int, onLine func(line []byte)) *LineScanner {
	if max < 1 {
		max = 1
	}
	return &LineScanner{
		buf:    make([]byte, 0, max),
		onLine: onLine,
	}
}

// Feed consumes one chunk of input, invoking the callback once per
// completed line.
func (s *LineScanner) Feed(chunk []byte) {
	for _, b := range chunk {
		if s.Resync != 0 && b == s.Resync {
			s.buf = s.buf[:0]
			continue
		}
		if b == Terminator {
			s.onLine(s.buf)
			s.buf = s.buf[:0]
			continue
		}
		if len(s.buf) < cap(s.buf) {
			s.buf = append(s.buf, b)
		} else {
			atomic.AddUint64(&s.dropped, 1)
		}
	}
}

// Pending reports how many bytes of an unterminated line are accumulated.
func (s *LineScanner) Pending() int {
	return len(s.buf)
}

// Stats reports cumulative scanner counters. "dropped" counts bytes
// discarded from over-long lines.
func (s *LineScanner) Stats() map[string]uint64 {
	return map[string]uint64{
		"dropped": atomic.LoadUint64(&s.dropped),
	}
}
