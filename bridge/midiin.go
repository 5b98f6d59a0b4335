// File: bridge/midiin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package bridge

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/momentics/jackpipe/api"
	"github.com/momentics/jackpipe/protocol"
)

// MidiInPortName is the port the MidiIn bridge registers.
const MidiInPortName = "in"

// MidiIn streams captured MIDI events out as hex message lines. The
// callback hands each event to a non-blocking LineWriter; when the sink
// cannot keep up, events are dropped for the rest of the tick and the
// stream carries a resync marker instead of a torn line.
type MidiIn struct {
	log    zerolog.Logger
	port   api.MidiInPort
	writer *protocol.LineWriter

	skippedTicks  uint64
	droppedEvents uint64
	noBuffer      uint64
}

// NewMidiIn wires a MidiIn bridge onto the client. The writer is shared
// with the control side only before Activate and after Close.
func NewMidiIn(client api.Client, log zerolog.Logger, writer *protocol.LineWriter) (*MidiIn, error) {
	b := &MidiIn{
		log:    log,
		writer: writer,
	}
	if err := client.SetProcess(b.process); err != nil {
		return nil, fmt.Errorf("bridge: set process: %w", err)
	}
	port, err := client.RegisterMidiIn(MidiInPortName)
	if err != nil {
		return nil, fmt.Errorf("bridge: register %q: %w", MidiInPortName, err)
	}
	b.port = port
	return b, nil
}

// process forwards this cycle's events to the writer. Callback side.
//
// A tick that cannot finish flushing the previous tick's tail skips its
// events entirely; ordering across the stream is preserved because the
// writer never interleaves lines.
func (b *MidiIn) process(nframes uint32) error {
	if b.port == nil {
		return nil
	}
	events := b.port.Buffer(nframes)
	if events == nil {
		atomic.AddUint64(&b.noBuffer, 1)
		return nil
	}
	count := events.EventCount()
	if !b.writer.Sync() {
		atomic.AddUint64(&b.skippedTicks, 1)
		atomic.AddUint64(&b.droppedEvents, uint64(count))
		return nil
	}
	for i := uint32(0); i < count; i++ {
		ev, err := events.Event(i)
		if err != nil {
			break
		}
		switch b.writer.WriteMessage(ev.Data) {
		case protocol.WriteDone:
		case protocol.WriteBlocked:
			// The blocked line is retained and finishes on a later
			// tick; only the events after it are lost.
			atomic.AddUint64(&b.droppedEvents, uint64(count-(i+1)))
			return nil
		case protocol.WriteDropped:
			atomic.AddUint64(&b.droppedEvents, uint64(count-i))
			return nil
		}
	}
	return nil
}

// Shutdown logs a digest of lost events. Implements api.GracefulShutdown.
func (b *MidiIn) Shutdown() error {
	if n := atomic.LoadUint64(&b.droppedEvents); n > 0 {
		b.log.Info().
			Uint64("dropped_events", n).
			Uint64("skipped_ticks", atomic.LoadUint64(&b.skippedTicks)).
			Msg("midi in bridge digest")
	}
	return nil
}

// Stats reports cumulative bridge counters merged with the writer's.
func (b *MidiIn) Stats() map[string]uint64 {
	out := b.writer.Stats()
	out["skipped_ticks"] = atomic.LoadUint64(&b.skippedTicks)
	out["dropped_events"] = atomic.LoadUint64(&b.droppedEvents)
	out["no_buffer"] = atomic.LoadUint64(&b.noBuffer)
	return out
}
