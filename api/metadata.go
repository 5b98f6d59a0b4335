// File: api/metadata.go
// Package api defines metadata keys understood by audio clients.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Metadata keys follow the JACK metadata conventions so that tools built on
// this library interoperate with graphs that inspect port properties.
const (
	// MetadataSignalType classifies the signal a port carries.
	MetadataSignalType = "http://jackaudio.org/metadata/signal-type"

	// SignalTypeCV marks an audio-typed port as carrying control voltage
	// rather than audible signal.
	SignalTypeCV = "CV"
)
