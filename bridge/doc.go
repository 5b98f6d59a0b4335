// File: bridge/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package bridge wires standard input and output to audio-subsystem
// ports. Each bridge owns one client's process callback and one side of
// the text protocol:
//
//   - CV: scalar lines in, a control-voltage signal out.
//   - MidiOut: hex message lines in, MIDI events out.
//   - MidiIn: MIDI events in, hex message lines out.
//
// Construction, line feeding and shutdown run on the control side. The
// process method runs on the callback thread and touches only the
// single-writer handoff points: an atomic scalar cell for CV, a
// lock-free message queue for MidiOut, a retained line writer for
// MidiIn. Counters are atomic, so exit-time statistics read cleanly.
package bridge
