// File: protocol/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package protocol implements the newline-delimited text encodings that
// carry control values and MIDI messages over standard input and output.
//
// Two encodings share the package:
//
//   - Scalar lines: one base-10 floating-point number per line, parsed
//     into a float32 control value.
//   - Message lines: one MIDI message per line as hexadecimal digit
//     pairs, lowercase on output, either case on input, terminated by a
//     single LF. An empty line encodes an empty message.
//
// The stream is resynchronizable: the marker byte 'X' tells the reader to
// discard everything accumulated since the last terminator. A writer that
// could not complete a line emits the marker so the peer never interprets
// a truncated line as a message.
//
// LineScanner and LineWriter are the streaming halves. The scanner runs on
// the control side and may allocate; the writer runs inside the real-time
// callback and never does. Both make progress byte by byte, so descriptors
// that accept a single byte per call still converge.
package protocol
