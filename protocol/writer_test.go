// File: protocol/writer_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package protocol_test

import (
	"bytes"
	"testing"

	"github.com/momentics/jackpipe/protocol"
)

// wire is a scripted descriptor double. Each write call consumes the next
// script entry and accepts at most that many bytes; a negative entry
// simulates a failed write. With the script exhausted every write is
// accepted whole.
type wire struct {
	out    bytes.Buffer
	script []int
	calls  int
}

func (w *wire) writeFunc() protocol.WriteFunc {
	return func(p []byte) int {
		w.calls++
		n := len(p)
		if len(w.script) > 0 {
			limit := w.script[0]
			w.script = w.script[1:]
			if limit < 0 {
				return -1
			}
			if limit < n {
				n = limit
			}
		}
		w.out.Write(p[:n])
		return n
	}
}

func TestWriteMessageComplete(t *testing.T) {
	var wr wire
	w := protocol.NewLineWriterFunc(wr.writeFunc())
	if got := w.WriteMessage([]byte{0x90, 0x40, 0x7f}); got != protocol.WriteDone {
		t.Fatalf("WriteMessage = %v, want done", got)
	}
	if got := w.WriteMessage(nil); got != protocol.WriteDone {
		t.Fatalf("WriteMessage(empty) = %v, want done", got)
	}
	if got := wr.out.String(); got != "90407f\n\n" {
		t.Fatalf("wire = %q, want %q", got, "90407f\n\n")
	}
	if got := w.Stats()["lines"]; got != 2 {
		t.Fatalf("lines = %d, want 2", got)
	}
}

func TestShortWriteRetainsLine(t *testing.T) {
	wr := wire{script: []int{3, 2, 0}}
	w := protocol.NewLineWriterFunc(wr.writeFunc())

	if got := w.WriteMessage([]byte{0x90, 0x40, 0x7f}); got != protocol.WriteBlocked {
		t.Fatalf("WriteMessage = %v, want blocked", got)
	}
	if got := w.Pending(); got != 4 {
		t.Fatalf("Pending = %d, want 4", got)
	}
	if w.Sync() {
		t.Fatal("Sync completed with the wire still balking")
	}
	if !w.Sync() {
		t.Fatal("Sync failed with the wire wide open")
	}
	if got := wr.out.String(); got != "90407f\n" {
		t.Fatalf("wire = %q, want %q", got, "90407f\n")
	}
	if got := w.Stats()["lines"]; got != 1 {
		t.Fatalf("lines = %d, want 1", got)
	}
}

func TestSingleByteWire(t *testing.T) {
	script := make([]int, 8)
	for i := range script {
		script[i] = 1
	}
	wr := wire{script: script}
	w := protocol.NewLineWriterFunc(wr.writeFunc())

	if got := w.WriteMessage([]byte{0x90, 0x40, 0x7f}); got != protocol.WriteBlocked {
		t.Fatalf("WriteMessage = %v, want blocked", got)
	}
	// Sync keeps going while the wire makes progress, one byte per call.
	if !w.Sync() {
		t.Fatal("Sync stalled on a wire accepting one byte per call")
	}
	if got := wr.out.String(); got != "90407f\n" {
		t.Fatalf("wire = %q, want %q", got, "90407f\n")
	}
}

func TestTickSteppedProgress(t *testing.T) {
	// One byte per callback, then the descriptor is full again. The line
	// must cross the wire exactly once, never duplicated or reordered.
	wr := wire{script: []int{1, 1, 0, 1, 0, 1, 0, 1, 0, 1}}
	w := protocol.NewLineWriterFunc(wr.writeFunc())

	if got := w.WriteMessage([]byte{0x90, 0x40, 0x7f}); got != protocol.WriteBlocked {
		t.Fatalf("WriteMessage = %v, want blocked", got)
	}
	var synced bool
	for tick := 0; tick < 5; tick++ {
		if synced = w.Sync(); synced {
			break
		}
	}
	if !synced {
		t.Fatal("line never completed despite steady progress")
	}
	if got := wr.out.String(); got != "90407f\n" {
		t.Fatalf("wire = %q, want %q", got, "90407f\n")
	}
}

func TestWriteErrorRetainsLine(t *testing.T) {
	wr := wire{script: []int{-1}}
	w := protocol.NewLineWriterFunc(wr.writeFunc())
	if got := w.WriteMessage([]byte{0xf8}); got != protocol.WriteBlocked {
		t.Fatalf("WriteMessage = %v, want blocked", got)
	}
	if !w.Sync() {
		t.Fatal("Sync failed after the wire recovered")
	}
	if got := wr.out.String(); got != "f8\n" {
		t.Fatalf("wire = %q, want %q", got, "f8\n")
	}
}

func TestWriteMessageWhileBlocked(t *testing.T) {
	wr := wire{script: []int{0}}
	w := protocol.NewLineWriterFunc(wr.writeFunc())
	if got := w.WriteMessage([]byte{0x90, 0x40, 0x7f}); got != protocol.WriteBlocked {
		t.Fatalf("first WriteMessage = %v, want blocked", got)
	}
	calls := wr.calls
	if got := w.WriteMessage([]byte{0xb0, 0x01, 0x7f}); got != protocol.WriteBlocked {
		t.Fatalf("second WriteMessage = %v, want blocked", got)
	}
	if wr.calls != calls {
		t.Fatal("blocked writer still touched the wire")
	}
	if !w.Sync() {
		t.Fatal("Sync failed with the wire open")
	}
	if got := wr.out.String(); got != "90407f\n" {
		t.Fatalf("wire = %q, want only the first line, got %q", got, "90407f\n")
	}
}

func longMessage(n int) []byte {
	msg := make([]byte, n)
	for i := range msg {
		msg[i] = byte(i)
	}
	return msg
}

func TestLongMessageChunks(t *testing.T) {
	var wr wire
	w := protocol.NewLineWriterFunc(wr.writeFunc())
	msg := longMessage(100)
	if got := w.WriteMessage(msg); got != protocol.WriteDone {
		t.Fatalf("WriteMessage = %v, want done", got)
	}
	want := protocol.AppendMessage(nil, msg)
	if !bytes.Equal(wr.out.Bytes(), want) {
		t.Fatalf("wire = %q, want %q", wr.out.Bytes(), want)
	}
	if wr.calls != 2 {
		t.Fatalf("write calls = %d, want 2 (full chunk plus tail)", wr.calls)
	}
}

func TestExactChunkBoundary(t *testing.T) {
	var wr wire
	w := protocol.NewLineWriterFunc(wr.writeFunc())
	msg := longMessage(64) // 128 hex digits exactly
	if got := w.WriteMessage(msg); got != protocol.WriteDone {
		t.Fatalf("WriteMessage = %v, want done", got)
	}
	want := protocol.AppendMessage(nil, msg)
	if !bytes.Equal(wr.out.Bytes(), want) {
		t.Fatalf("wire = %q, want %q", wr.out.Bytes(), want)
	}
}

func TestLongMessageAbandoned(t *testing.T) {
	wr := wire{script: []int{50}}
	w := protocol.NewLineWriterFunc(wr.writeFunc())
	if got := w.WriteMessage(longMessage(100)); got != protocol.WriteDropped {
		t.Fatalf("WriteMessage = %v, want dropped", got)
	}
	if got := w.Pending(); got != 2 {
		t.Fatalf("Pending = %d, want 2 (queued marker)", got)
	}
	if !w.Sync() {
		t.Fatal("Sync failed flushing the marker")
	}
	if got := w.Stats()["resyncs"]; got != 1 {
		t.Fatalf("resyncs = %d, want 1", got)
	}

	// The peer's scanner sees the prefix cancelled, never a mangled
	// message; the marker-then-terminator shows up as an empty line.
	var lines []string
	s := protocol.NewLineScanner(1024, func(line []byte) {
		lines = append(lines, string(line))
	})
	s.Resync = protocol.ResyncMarker
	s.Feed(wr.out.Bytes())
	if len(lines) != 1 || lines[0] != "" {
		t.Fatalf("peer lines = %q, want one empty line", lines)
	}

	// The writer is clean again for the next message.
	if got := w.WriteMessage([]byte{0xf8}); got != protocol.WriteDone {
		t.Fatalf("WriteMessage after abandon = %v, want done", got)
	}
	if got := wr.out.String(); got[len(got)-3:] != "f8\n" {
		t.Fatalf("wire tail = %q, want f8 line", got[len(got)-3:])
	}
}

func TestMarkerRidesPendingPath(t *testing.T) {
	// The marker itself survives short writes: X one tick, terminator
	// the next.
	wr := wire{script: []int{0, 1, 0, 1}}
	w := protocol.NewLineWriterFunc(wr.writeFunc())
	if got := w.WriteMessage(longMessage(64)); got != protocol.WriteDropped {
		t.Fatalf("WriteMessage = %v, want dropped", got)
	}
	if w.Sync() {
		t.Fatal("Sync completed with only the marker byte accepted")
	}
	if got := wr.out.String(); got != "X" {
		t.Fatalf("wire = %q, want %q", got, "X")
	}
	if !w.Sync() {
		t.Fatal("Sync failed delivering the terminator")
	}
	if got := wr.out.String(); got != "X\n" {
		t.Fatalf("wire = %q, want %q", got, "X\n")
	}
}

func TestWriteMessageNoAlloc(t *testing.T) {
	w := protocol.NewLineWriterFunc(func(p []byte) int { return len(p) })
	msg := []byte{0x90, 0x40, 0x7f}
	avg := testing.AllocsPerRun(200, func() {
		if w.WriteMessage(msg) != protocol.WriteDone {
			t.Fatal("writer balked at an always-ready sink")
		}
	})
	if avg != 0 {
		t.Fatalf("WriteMessage allocates %.1f objects per line, want 0", avg)
	}
}

func TestWriteResultString(t *testing.T) {
	if protocol.WriteDone.String() != "done" ||
		protocol.WriteBlocked.String() != "blocked" ||
		protocol.WriteDropped.String() != "dropped" {
		t.Fatal("WriteResult.String mismatch")
	}
}
