// File: reactor/loop.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral loop state and configuration; Run lives in the
// platform files.

package reactor

import "sync/atomic"

// chunkLen is the fixed read size per input drain iteration. Input is
// consumed in chunks of this size until the descriptor runs dry.
const chunkLen = 64

// Loop multiplexes a wake pipe and at most one input descriptor. Input
// readability drains the descriptor through the chunk callback; any event
// on the wake pipe ends the loop. End of input closes the descriptor and
// stops watching it, but the loop keeps serving wakeups, so a bridge
// outlives its input stream until a shutdown arrives.
type Loop struct {
	wake    *WakePipe
	input   int
	onChunk func(chunk []byte)
	onEOF   func()

	chunk [chunkLen]byte

	chunks  uint64
	bytesIn uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithInput watches fd for readability and hands every chunk read to
// onChunk. The chunk slice is reused between calls.
func WithInput(fd int, onChunk func(chunk []byte)) Option {
	return func(l *Loop) {
		l.input = fd
		l.onChunk = onChunk
	}
}

// WithEOFHandler runs fn once when the input descriptor reaches end of
// stream.
func WithEOFHandler(fn func()) Option {
	return func(l *Loop) {
		l.onEOF = fn
	}
}

// New builds a loop around the given wake pipe. Without WithInput the
// loop only waits for a wakeup.
func New(wake *WakePipe, opts ...Option) *Loop {
	l := &Loop{
		wake:  wake,
		input: -1,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Stats reports cumulative loop counters: "chunks" read and "bytes_in"
// consumed from the input descriptor.
func (l *Loop) Stats() map[string]uint64 {
	return map[string]uint64{
		"chunks":   atomic.LoadUint64(&l.chunks),
		"bytes_in": atomic.LoadUint64(&l.bytesIn),
	}
}
