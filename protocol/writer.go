// File: protocol/writer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package protocol

import (
	"encoding/hex"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// chunkSize is the writer's fixed assembly buffer. Messages whose whole
// line fits in one chunk survive short writes; longer messages stream
// through the buffer chunk by chunk and depend on source bytes that are
// gone by the next callback, so a balked chunk cancels the line instead.
const chunkSize = 128

// WriteFunc puts p on the wire and reports how many leading bytes made it
// out. Zero or negative means no progress. The function is called from
// the real-time callback and must not block, allocate or lock; a
// non-blocking descriptor write satisfies that.
type WriteFunc func(p []byte) int

// WriteResult classifies one WriteMessage attempt.
type WriteResult uint8

const (
	// WriteDone: the full line is on the wire.
	WriteDone WriteResult = iota

	// WriteBlocked: the line is accepted but its tail is still pending;
	// no further lines can start until Sync drains it.
	WriteBlocked

	// WriteDropped: the line was cancelled and a resync marker queued;
	// the message never reaches the peer.
	WriteDropped
)

func (r WriteResult) String() string {
	switch r {
	case WriteDone:
		return "done"
	case WriteBlocked:
		return "blocked"
	default:
		return "dropped"
	}
}

// LineWriter emits message lines onto a non-blocking descriptor from
// inside the real-time callback. All state lives in the struct; the write
// path performs no allocation.
//
// Pending bytes carry over between callbacks: a short write leaves the
// unsent tail buffered, and Sync resumes it on later ticks, so even a
// descriptor accepting one byte per call eventually completes every
// retained line. Single-writer; not safe for concurrent use.
type LineWriter struct {
	write WriteFunc
	buf   [chunkSize]byte
	off   int // first unsent byte in buf
	n     int // bytes valid in buf

	// pendingLine marks retained bytes that finish a message line, as
	// opposed to a queued resync marker; draining them completes the
	// line for accounting purposes.
	pendingLine bool

	lines   uint64
	resyncs uint64
}

// NewLineWriter returns a writer that emits to the given descriptor,
// which should already be in non-blocking mode.
func NewLineWriter(fd int) *LineWriter {
	return NewLineWriterFunc(func(p []byte) int {
		n, _ := unix.Write(fd, p)
		return n
	})
}

// NewLineWriterFunc returns a writer backed by an arbitrary WriteFunc.
func NewLineWriterFunc(write WriteFunc) *LineWriter {
	return &LineWriter{write: write}
}

// Sync pushes pending bytes from earlier ticks and reports whether the
// writer is drained and ready for a new line. Call it at the top of every
// callback before emitting messages.
func (w *LineWriter) Sync() bool {
	for w.off < w.n {
		wrote := w.write(w.buf[w.off:w.n])
		if wrote <= 0 {
			return false
		}
		w.off += wrote
	}
	if w.pendingLine {
		w.pendingLine = false
		atomic.AddUint64(&w.lines, 1)
	}
	w.off, w.n = 0, 0
	return true
}

// WriteMessage encodes msg as one hex line and pushes it out.
//
// WriteDone means the line completed. WriteBlocked means part of the line
// is retained for later Syncs; msg itself is no longer needed. In both
// cases the message will reach the peer intact. WriteDropped means a
// chunk of a long message could not be written; the line is cancelled
// with a queued resync marker and the caller should stop emitting for
// this callback.
func (w *LineWriter) WriteMessage(msg []byte) WriteResult {
	if w.off < w.n {
		return WriteBlocked
	}
	w.off, w.n = 0, 0

	for len(msg) > 0 {
		pairs := (chunkSize - w.n) / 2
		if pairs > len(msg) {
			pairs = len(msg)
		}
		w.n += hex.Encode(w.buf[w.n:], msg[:pairs])
		msg = msg[pairs:]
		if w.n == chunkSize {
			if w.write(w.buf[:chunkSize]) != chunkSize {
				return w.abandon()
			}
			w.n = 0
		}
	}

	// The full-chunk flush above guarantees room for the terminator.
	w.buf[w.n] = Terminator
	w.n++
	wrote := w.write(w.buf[:w.n])
	if wrote == w.n {
		w.off, w.n = 0, 0
		atomic.AddUint64(&w.lines, 1)
		return WriteDone
	}
	if wrote > 0 {
		w.off = wrote
	}
	w.pendingLine = true
	return WriteBlocked
}

// abandon cancels the line in progress. Whatever prefix already reached
// the wire is neutralized by the queued marker; the marker bytes
// themselves ride the pending path, so they too survive short writes.
func (w *LineWriter) abandon() WriteResult {
	w.buf[0] = ResyncMarker
	w.buf[1] = Terminator
	w.off, w.n = 0, 2
	w.pendingLine = false
	atomic.AddUint64(&w.resyncs, 1)
	return WriteDropped
}

// Pending reports how many buffered bytes still await the wire.
func (w *LineWriter) Pending() int {
	return w.n - w.off
}

// Stats reports cumulative writer counters: "lines" completed and
// "resyncs" emitted.
func (w *LineWriter) Stats() map[string]uint64 {
	return map[string]uint64{
		"lines":   atomic.LoadUint64(&w.lines),
		"resyncs": atomic.LoadUint64(&w.resyncs),
	}
}
