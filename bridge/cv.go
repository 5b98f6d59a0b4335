// File: bridge/cv.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package bridge

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/momentics/jackpipe/api"
	"github.com/momentics/jackpipe/cell"
	"github.com/momentics/jackpipe/protocol"
)

// CVPortName is the port the CV bridge registers.
const CVPortName = "value"

// CV holds a control-voltage output at the most recent value read from
// its input lines. Every sample of every callback carries that value
// until a new line replaces it.
type CV struct {
	log     zerolog.Logger
	port    api.CVOutPort
	value   cell.Float32
	scanner *protocol.LineScanner

	updates   uint64
	parseErrs uint64
	clamped   uint64
	noBuffer  uint64
}

// NewCV wires a CV bridge onto the client: process callback, one output
// port, and the signal-type annotation. A failed annotation is logged
// and tolerated; ports without it still carry signal.
func NewCV(client api.Client, log zerolog.Logger, lineMax int) (*CV, error) {
	b := &CV{log: log}
	if err := client.SetProcess(b.process); err != nil {
		return nil, fmt.Errorf("bridge: set process: %w", err)
	}
	port, err := client.RegisterCVOut(CVPortName)
	if err != nil {
		return nil, fmt.Errorf("bridge: register %q: %w", CVPortName, err)
	}
	b.port = port
	if err := client.SetProperty(port.UUID(), api.MetadataSignalType, api.SignalTypeCV, "text/plain"); err != nil {
		log.Warn().Err(err).Msg("signal-type annotation failed")
	}
	b.scanner = protocol.NewLineScanner(lineMax, b.onLine)
	return b, nil
}

// Feed consumes raw input bytes. Control side.
func (b *CV) Feed(chunk []byte) {
	b.scanner.Feed(chunk)
}

// onLine parses one scalar line into the cell.
func (b *CV) onLine(line []byte) {
	v, clamp, err := protocol.ParseScalar(line)
	if err != nil {
		atomic.AddUint64(&b.parseErrs, 1)
		b.log.Warn().Err(err).Bytes("line", line).Msg("unparsable value")
		return
	}
	if clamp != protocol.ClampNone {
		atomic.AddUint64(&b.clamped, 1)
		b.log.Warn().Str("bound", clamp.String()).Msg("value clamped")
	}
	b.value.Store(v)
	atomic.AddUint64(&b.updates, 1)
}

// process fills the port buffer with the current value. Callback side.
// A cycle without a buffer is skipped, never escalated; the next cycle
// emits again.
func (b *CV) process(nframes uint32) error {
	if b.port == nil {
		return nil
	}
	buf := b.port.Buffer(nframes)
	if buf == nil {
		atomic.AddUint64(&b.noBuffer, 1)
		return nil
	}
	v := b.value.Load()
	for i := range buf {
		buf[i] = v
	}
	return nil
}

// Value returns the scalar the next callback will emit.
func (b *CV) Value() float32 {
	return b.value.Load()
}

// Shutdown logs a digest of abnormal counters. Implements
// api.GracefulShutdown.
func (b *CV) Shutdown() error {
	if n := atomic.LoadUint64(&b.parseErrs); n > 0 {
		b.log.Info().Uint64("parse_errors", n).Msg("cv bridge digest")
	}
	return nil
}

// Stats reports cumulative bridge counters.
func (b *CV) Stats() map[string]uint64 {
	out := b.scanner.Stats()
	out["updates"] = atomic.LoadUint64(&b.updates)
	out["parse_errors"] = atomic.LoadUint64(&b.parseErrs)
	out["clamped"] = atomic.LoadUint64(&b.clamped)
	out["no_buffer"] = atomic.LoadUint64(&b.noBuffer)
	return out
}
