// File: bridge/midiout.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package bridge

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/momentics/jackpipe/api"
	"github.com/momentics/jackpipe/protocol"
	"github.com/momentics/jackpipe/spsc"
)

// MidiOutPortName is the port the MidiOut bridge registers.
const MidiOutPortName = "out"

// MidiOut turns inbound hex message lines into MIDI events. Decoded
// messages queue up on the control side; each callback drains whatever
// has arrived into its event buffer at time zero.
type MidiOut struct {
	log     zerolog.Logger
	port    api.MidiOutPort
	queue   *spsc.Queue
	scanner *protocol.LineScanner

	// buf is the event buffer of the callback currently draining; set
	// and cleared inside process so the bound emit closure can reach it.
	buf  api.MidiBuffer
	emit func(msg []byte)

	decodeErrs uint64
	writeDrops uint64
	noBuffer   uint64
}

// NewMidiOut wires a MidiOut bridge onto the client.
func NewMidiOut(client api.Client, log zerolog.Logger, lineMax int) (*MidiOut, error) {
	b := &MidiOut{
		log:   log,
		queue: spsc.New(),
	}
	if err := client.SetProcess(b.process); err != nil {
		return nil, fmt.Errorf("bridge: set process: %w", err)
	}
	port, err := client.RegisterMidiOut(MidiOutPortName)
	if err != nil {
		return nil, fmt.Errorf("bridge: register %q: %w", MidiOutPortName, err)
	}
	b.port = port
	b.scanner = protocol.NewLineScanner(lineMax, b.onLine)
	b.scanner.Resync = protocol.ResyncMarker
	b.emit = func(msg []byte) {
		if b.buf.Write(0, msg) != nil {
			atomic.AddUint64(&b.writeDrops, 1)
		}
	}
	return b, nil
}

// Feed consumes raw input bytes. Control side.
func (b *MidiOut) Feed(chunk []byte) {
	b.scanner.Feed(chunk)
}

// onLine decodes one message line into the queue. A flawed line is
// rejected whole; an empty line is an empty message and queues like any
// other.
func (b *MidiOut) onLine(line []byte) {
	msg, err := protocol.DecodeLine(line)
	if err != nil {
		atomic.AddUint64(&b.decodeErrs, 1)
		b.log.Warn().Err(err).Bytes("line", line).Msg("undecodable message")
		return
	}
	b.queue.Push(msg)
}

// process drains queued messages into this callback's event buffer.
// Callback side. A cycle without a buffer is skipped; queued messages
// stay queued for the next one.
func (b *MidiOut) process(nframes uint32) error {
	if b.port == nil {
		return nil
	}
	buffer := b.port.Buffer(nframes)
	if buffer == nil {
		atomic.AddUint64(&b.noBuffer, 1)
		return nil
	}
	buffer.Clear()
	b.buf = buffer
	b.queue.Drain(b.emit)
	b.buf = nil
	return nil
}

// Shutdown releases retired queue nodes and logs a digest. Implements
// api.GracefulShutdown.
func (b *MidiOut) Shutdown() error {
	b.queue.Reclaim()
	if n := atomic.LoadUint64(&b.writeDrops); n > 0 {
		b.log.Info().Uint64("write_drops", n).Msg("midi out bridge digest")
	}
	return nil
}

// Stats reports cumulative bridge counters merged with the queue's.
func (b *MidiOut) Stats() map[string]uint64 {
	out := b.queue.Stats()
	for k, v := range b.scanner.Stats() {
		out["scan_"+k] = v
	}
	out["decode_errors"] = atomic.LoadUint64(&b.decodeErrs)
	out["write_drops"] = atomic.LoadUint64(&b.writeDrops)
	out["no_buffer"] = atomic.LoadUint64(&b.noBuffer)
	return out
}
