// File: fake/ports.go
// Author: momentics <momentics@gmail.com>
//
// Inspectable port doubles.

package fake

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/momentics/jackpipe/api"
)

// Event is one captured or queued MIDI event.
type Event struct {
	Time uint32
	Data []byte
}

// CVPort records the samples the callback wrote. DropBuffer, when set,
// makes Buffer return nil so the callback sees a cycle without storage.
type CVPort struct {
	name string
	uuid uuid.UUID
	buf  []float32

	DropBuffer bool
}

func (p *CVPort) Name() string    { return p.name }
func (p *CVPort) UUID() uuid.UUID { return p.uuid }

func (p *CVPort) Buffer(nframes uint32) []float32 {
	if p.DropBuffer {
		return nil
	}
	if int(nframes) > len(p.buf) {
		nframes = uint32(len(p.buf))
	}
	return p.buf[:nframes]
}

// Samples exposes the backing buffer for assertions.
func (p *CVPort) Samples() []float32 { return p.buf }

// MidiOutPort captures what the callback emits. FailWrite, when set, is
// returned by every Write so tests can drive the buffer-full path;
// DropBuffer withholds the buffer for the cycle.
type MidiOutPort struct {
	name string
	uuid uuid.UUID

	FailWrite  error
	DropBuffer bool

	events []Event
}

func (p *MidiOutPort) Name() string    { return p.name }
func (p *MidiOutPort) UUID() uuid.UUID { return p.uuid }

func (p *MidiOutPort) Buffer(nframes uint32) api.MidiBuffer {
	if p.DropBuffer {
		return nil
	}
	return p
}

func (p *MidiOutPort) Clear() {
	p.events = p.events[:0]
}

func (p *MidiOutPort) Write(time uint32, data []byte) error {
	if p.FailWrite != nil {
		return p.FailWrite
	}
	p.events = append(p.events, Event{
		Time: time,
		Data: append([]byte(nil), data...),
	})
	return nil
}

// Events returns what was written since the last Clear, which for a
// conventional callback means this tick's output.
func (p *MidiOutPort) Events() []Event { return p.events }

// MidiInPort replays queued events into the callback. FailEvent, when
// set, is returned by every Event call; DropBuffer withholds the event
// view for the cycle.
type MidiInPort struct {
	name string
	uuid uuid.UUID

	FailEvent  error
	DropBuffer bool

	queue []Event
}

func (p *MidiInPort) Name() string    { return p.name }
func (p *MidiInPort) UUID() uuid.UUID { return p.uuid }

// Feed queues one event for the next Tick. The bytes are copied.
func (p *MidiInPort) Feed(time uint32, data []byte) {
	p.queue = append(p.queue, Event{
		Time: time,
		Data: append([]byte(nil), data...),
	})
}

func (p *MidiInPort) Buffer(nframes uint32) api.MidiEvents {
	if p.DropBuffer {
		return nil
	}
	return p
}

func (p *MidiInPort) EventCount() uint32 {
	return uint32(len(p.queue))
}

func (p *MidiInPort) Event(i uint32) (api.MidiEvent, error) {
	if p.FailEvent != nil {
		return api.MidiEvent{}, p.FailEvent
	}
	if i >= uint32(len(p.queue)) {
		return api.MidiEvent{}, fmt.Errorf("fake: event %d of %d: %w", i, len(p.queue), api.ErrNoEvent)
	}
	ev := p.queue[i]
	return api.MidiEvent{Time: ev.Time, Data: ev.Data}, nil
}

// drain clears the queue after a tick consumed it.
func (p *MidiInPort) drain() {
	p.queue = p.queue[:0]
}
