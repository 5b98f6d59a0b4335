// File: api/client.go
// Package api defines the audio client and port contracts.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "github.com/google/uuid"

// ProcessFunc is the periodic real-time callback. It is invoked by the
// client's real-time thread once per period with the period length in
// frames. Returning a non-nil error deactivates the client.
//
// The callback must not block, allocate, free, or take locks.
type ProcessFunc func(nframes uint32) error

// Client is one connection to the audio subsystem. A client owns its ports
// and drives the registered ProcessFunc after Activate.
type Client interface {
	// Name returns the client name as registered with the subsystem.
	Name() string

	// SetProcess installs the real-time callback. It must be called before
	// Activate; afterwards it fails with ErrClientActive.
	SetProcess(fn ProcessFunc) error

	// RegisterCVOut creates an output port carrying one control-voltage
	// sample per frame.
	RegisterCVOut(name string) (CVOutPort, error)

	// RegisterMidiOut creates an output port carrying discrete MIDI events.
	RegisterMidiOut(name string) (MidiOutPort, error)

	// RegisterMidiIn creates an input port delivering discrete MIDI events.
	RegisterMidiIn(name string) (MidiInPort, error)

	// SetProperty attaches a metadata property to the object identified by
	// subject (typically a port UUID).
	SetProperty(subject uuid.UUID, key, value, mime string) error

	// Activate starts real-time processing. Ports and the process callback
	// must be in place first.
	Activate() error

	// Close deactivates the client and releases its ports. The real-time
	// callback does not run once Close has returned.
	Close() error
}

// Port is the common surface of all port kinds.
type Port interface {
	Name() string
	UUID() uuid.UUID
}

// CVOutPort is an output port holding one float32 sample per frame.
type CVOutPort interface {
	Port

	// Buffer returns the sample buffer for the current cycle, of length
	// nframes. Valid only inside the process callback; nil when the buffer
	// is unavailable this cycle.
	Buffer(nframes uint32) []float32
}

// MidiOutPort is an output port accepting MIDI events for the current cycle.
type MidiOutPort interface {
	Port

	// Buffer returns the writable event buffer for the current cycle.
	// Valid only inside the process callback; nil when unavailable.
	Buffer(nframes uint32) MidiBuffer
}

// MidiInPort is an input port exposing the MIDI events of the current cycle.
type MidiInPort interface {
	Port

	// Buffer returns the event view for the current cycle. Valid only
	// inside the process callback; nil when unavailable.
	Buffer(nframes uint32) MidiEvents
}

// MidiBuffer collects outgoing events for one cycle. Implementations are
// backed by fixed storage so Write never allocates.
type MidiBuffer interface {
	// Clear discards all events staged in the buffer.
	Clear()

	// Write appends one event at the given frame offset. Fails with
	// ErrBufferFull when the cycle's storage is exhausted; real-time
	// callers are expected to drop the event and continue.
	Write(time uint32, data []byte) error
}

// MidiEvents is the read side of a MIDI buffer for one cycle.
type MidiEvents interface {
	// EventCount reports how many events the cycle delivered.
	EventCount() uint32

	// Event returns the i-th event in time order. The event data aliases
	// cycle-local storage and must not be retained.
	Event(i uint32) (MidiEvent, error)
}

// MidiEvent is one timestamped MIDI message.
type MidiEvent struct {
	Time uint32 // frame offset within the cycle
	Data []byte // raw MIDI bytes; valid only inside the callback
}
