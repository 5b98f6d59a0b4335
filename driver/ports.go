// File: driver/ports.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package driver

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/momentics/jackpipe/api"
	"github.com/momentics/jackpipe/spsc"
)

const (
	// midiArenaLen is the per-port byte arena for one callback's worth
	// of MIDI data.
	midiArenaLen = 4096

	// midiMaxEvents bounds events per callback per port.
	midiMaxEvents = 128
)

// CVPort is a control-voltage output port. Its sample buffer belongs to
// the process callback; anything outside the callback may only touch
// Name and UUID.
type CVPort struct {
	name string
	uuid uuid.UUID
	buf  []float32
}

func (p *CVPort) Name() string    { return p.name }
func (p *CVPort) UUID() uuid.UUID { return p.uuid }

// Buffer returns the sample buffer for this callback, clamped to the
// registered capacity.
func (p *CVPort) Buffer(nframes uint32) []float32 {
	if int(nframes) > len(p.buf) {
		nframes = uint32(len(p.buf))
	}
	return p.buf[:nframes]
}

// eventRef locates one event inside a port arena.
type eventRef struct {
	time uint32
	off  int
	n    int
}

// midiArena is the fixed event store shared by both MIDI port kinds. All
// methods are callback-side; none allocate.
type midiArena struct {
	data   [midiArenaLen]byte
	used   int
	events [midiMaxEvents]eventRef
	count  int
}

func (a *midiArena) clear() {
	a.used = 0
	a.count = 0
}

func (a *midiArena) add(time uint32, msg []byte) error {
	if a.count == len(a.events) || a.used+len(msg) > len(a.data) {
		return api.ErrBufferFull
	}
	off := a.used
	copy(a.data[off:], msg)
	a.used += len(msg)
	a.events[a.count] = eventRef{time: time, off: off, n: len(msg)}
	a.count++
	return nil
}

func (a *midiArena) event(i uint32) (api.MidiEvent, error) {
	if i >= uint32(a.count) {
		return api.MidiEvent{}, fmt.Errorf("driver: event %d of %d: %w", i, a.count, api.ErrNoEvent)
	}
	ref := a.events[i]
	return api.MidiEvent{
		Time: ref.time,
		Data: a.data[ref.off : ref.off+ref.n],
	}, nil
}

// MidiOutPort collects the events a callback emits. The timer backend
// has no graph to deliver them into; they exist for the callback's own
// accounting and are discarded on the next Clear.
type MidiOutPort struct {
	name    string
	uuid    uuid.UUID
	arena   midiArena
	written uint64
}

func (p *MidiOutPort) Name() string    { return p.name }
func (p *MidiOutPort) UUID() uuid.UUID { return p.uuid }

// Buffer exposes the port as a writable event buffer for this callback.
func (p *MidiOutPort) Buffer(nframes uint32) api.MidiBuffer { return p }

// Clear resets the event buffer; the callback calls it before writing.
func (p *MidiOutPort) Clear() {
	p.arena.clear()
}

// Write appends one event. An empty message is a valid event.
func (p *MidiOutPort) Write(time uint32, data []byte) error {
	if err := p.arena.add(time, data); err != nil {
		return err
	}
	atomic.AddUint64(&p.written, 1)
	return nil
}

// Stats reports cumulative port counters.
func (p *MidiOutPort) Stats() map[string]uint64 {
	return map[string]uint64{
		"written": atomic.LoadUint64(&p.written),
	}
}

// MidiInPort delivers events into the process callback. Events are
// injected from the control side and become visible to the callback that
// follows the injection; within one callback the arena is stable.
type MidiInPort struct {
	name  string
	uuid  uuid.UUID
	arena midiArena

	queue   *spsc.Queue
	ingest  func(payload []byte)
	dropped uint64
}

func newMidiInPort(name string, id uuid.UUID) *MidiInPort {
	p := &MidiInPort{
		name:  name,
		uuid:  id,
		queue: spsc.New(),
	}
	// Bound once so the per-callback drain stays allocation-free.
	p.ingest = func(payload []byte) {
		if len(payload) < 4 {
			return
		}
		t := binary.BigEndian.Uint32(payload)
		if p.arena.add(t, payload[4:]) != nil {
			atomic.AddUint64(&p.dropped, 1)
		}
	}
	return p
}

func (p *MidiInPort) Name() string    { return p.name }
func (p *MidiInPort) UUID() uuid.UUID { return p.uuid }

// Inject queues one event for the next callback. Control side only;
// single producer. The message bytes are copied.
func (p *MidiInPort) Inject(time uint32, msg []byte) {
	payload := make([]byte, 4+len(msg))
	binary.BigEndian.PutUint32(payload, time)
	copy(payload[4:], msg)
	p.queue.Push(payload)
}

// refresh moves injected events into the arena. Callback side, called by
// the client before the process function runs.
func (p *MidiInPort) refresh() {
	p.arena.clear()
	p.queue.Drain(p.ingest)
}

// Buffer exposes the events visible to this callback.
func (p *MidiInPort) Buffer(nframes uint32) api.MidiEvents { return p }

// EventCount reports how many events this callback sees.
func (p *MidiInPort) EventCount() uint32 {
	return uint32(p.arena.count)
}

// Event returns one event by index. The Data slice aliases the port
// arena and is valid only within the current callback.
func (p *MidiInPort) Event(i uint32) (api.MidiEvent, error) {
	return p.arena.event(i)
}

// Stats reports cumulative port counters, including the feed queue's.
func (p *MidiInPort) Stats() map[string]uint64 {
	out := p.queue.Stats()
	out["dropped"] = atomic.LoadUint64(&p.dropped)
	return out
}
