// File: driver/client.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package driver

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/momentics/jackpipe/affinity"
	"github.com/momentics/jackpipe/api"
)

// client lifecycle states.
const (
	stateIdle = iota
	stateActive
	stateClosed
)

// property is one metadata entry on a subject.
type property struct {
	Value string
	Mime  string
}

// TimerClient drives the process callback from an internal clock. One
// callback fires every BufferSize/SampleRate seconds on a dedicated,
// locked OS thread, optionally pinned to a CPU.
//
// Registration, SetProcess and Activate follow the api.Client contract:
// configure first, then activate, then only Close and metadata remain
// legal from the control side.
type TimerClient struct {
	name       string
	sampleRate uint32
	bufferSize uint32
	pinCPU     int
	log        zerolog.Logger

	mu        sync.Mutex
	state     int
	process   api.ProcessFunc
	portNames map[string]struct{}
	cvOuts    []*CVPort
	midiOuts  []*MidiOutPort
	midiIns   []*MidiInPort
	meta      map[uuid.UUID]map[string]property

	stop chan struct{}
	done chan struct{}

	ticks       uint64
	processErrs uint64
}

// Option configures a TimerClient.
type Option func(*TimerClient)

// WithSampleRate sets the nominal sample rate the clock is derived from.
// Must be positive.
func WithSampleRate(rate uint32) Option {
	return func(c *TimerClient) { c.sampleRate = rate }
}

// WithBufferSize sets the frames-per-callback count. Must be positive.
func WithBufferSize(frames uint32) Option {
	return func(c *TimerClient) { c.bufferSize = frames }
}

// WithCPUPin pins the callback thread to the given CPU; -1 disables.
func WithCPUPin(cpu int) Option {
	return func(c *TimerClient) { c.pinCPU = cpu }
}

// WithLogger attaches a logger for control-side events. The callback
// itself never logs.
func WithLogger(log zerolog.Logger) Option {
	return func(c *TimerClient) { c.log = log }
}

// NewTimerClient builds an idle client under the given name.
func NewTimerClient(name string, opts ...Option) *TimerClient {
	c := &TimerClient{
		name:       name,
		sampleRate: 48000,
		bufferSize: 64,
		pinCPU:     -1,
		log:        zerolog.Nop(),
		portNames:  make(map[string]struct{}),
		meta:       make(map[uuid.UUID]map[string]property),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the client name.
func (c *TimerClient) Name() string { return c.name }

// SampleRate returns the configured nominal sample rate.
func (c *TimerClient) SampleRate() uint32 { return c.sampleRate }

// BufferSize returns the frames delivered per callback.
func (c *TimerClient) BufferSize() uint32 { return c.bufferSize }

// SetProcess installs the process callback. Only legal before Activate.
func (c *TimerClient) SetProcess(fn api.ProcessFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case stateClosed:
		return api.ErrClientClosed
	case stateActive:
		return api.ErrClientActive
	}
	c.process = fn
	return nil
}

// registerName claims a port name or reports why it cannot.
func (c *TimerClient) registerName(name string) error {
	switch c.state {
	case stateClosed:
		return api.ErrClientClosed
	case stateActive:
		return api.ErrClientActive
	}
	if _, dup := c.portNames[name]; dup {
		return fmt.Errorf("driver: port %q: %w", name, api.ErrPortExists)
	}
	c.portNames[name] = struct{}{}
	return nil
}

// RegisterCVOut adds a control-voltage output port.
func (c *TimerClient) RegisterCVOut(name string) (api.CVOutPort, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.registerName(name); err != nil {
		return nil, err
	}
	p := &CVPort{
		name: name,
		uuid: uuid.New(),
		buf:  make([]float32, c.bufferSize),
	}
	c.cvOuts = append(c.cvOuts, p)
	return p, nil
}

// RegisterMidiOut adds a MIDI output port.
func (c *TimerClient) RegisterMidiOut(name string) (api.MidiOutPort, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.registerName(name); err != nil {
		return nil, err
	}
	p := &MidiOutPort{name: name, uuid: uuid.New()}
	c.midiOuts = append(c.midiOuts, p)
	return p, nil
}

// RegisterMidiIn adds a MIDI input port.
func (c *TimerClient) RegisterMidiIn(name string) (api.MidiInPort, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.registerName(name); err != nil {
		return nil, err
	}
	p := newMidiInPort(name, uuid.New())
	c.midiIns = append(c.midiIns, p)
	return p, nil
}

// SetProperty attaches metadata to a subject, usually a port UUID.
// Legal before and after Activate.
func (c *TimerClient) SetProperty(subject uuid.UUID, key, value, mime string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateClosed {
		return api.ErrClientClosed
	}
	props := c.meta[subject]
	if props == nil {
		props = make(map[string]property)
		c.meta[subject] = props
	}
	props[key] = property{Value: value, Mime: mime}
	return nil
}

// Property looks a metadata entry up. Returns the value, its MIME type
// and whether the entry exists.
func (c *TimerClient) Property(subject uuid.UUID, key string) (value, mime string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	props, ok := c.meta[subject]
	if !ok {
		return "", "", false
	}
	p, ok := props[key]
	return p.Value, p.Mime, ok
}

// Activate starts the clock thread. The process callback and port set
// are frozen from here on.
func (c *TimerClient) Activate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case stateClosed:
		return api.ErrClientClosed
	case stateActive:
		return api.ErrClientActive
	}
	c.state = stateActive
	go c.run()
	c.log.Info().
		Str("client", c.name).
		Uint32("sample_rate", c.sampleRate).
		Uint32("buffer_size", c.bufferSize).
		Msg("client activated")
	return nil
}

// Close stops the clock and retires the client. Idempotent. The callback
// thread is fully stopped before Close returns, so no process callback
// runs after it.
func (c *TimerClient) Close() error {
	c.mu.Lock()
	if c.state == stateClosed {
		c.mu.Unlock()
		return nil
	}
	wasActive := c.state == stateActive
	c.state = stateClosed
	c.mu.Unlock()

	close(c.stop)
	if wasActive {
		<-c.done
	}
	c.log.Info().Str("client", c.name).Msg("client closed")
	return nil
}

// Period returns the wall-clock interval between callbacks.
func (c *TimerClient) Period() time.Duration {
	return time.Duration(c.bufferSize) * time.Second / time.Duration(c.sampleRate)
}

// run is the callback thread.
func (c *TimerClient) run() {
	defer close(c.done)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if c.pinCPU >= 0 {
		if err := affinity.SetAffinity(c.pinCPU); err != nil {
			c.log.Warn().Err(err).Int("cpu", c.pinCPU).Msg("cpu pin failed")
		} else {
			c.log.Info().Int("cpu", c.pinCPU).Msg("callback thread pinned")
		}
	}

	ticker := time.NewTicker(c.Period())
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if !c.tick() {
				return
			}
		}
	}
}

// tick runs one callback cycle: refresh input ports, then the process
// function. A failing process callback stops the clock, per the
// api.ProcessFunc contract; the client still needs Close.
func (c *TimerClient) tick() bool {
	for _, p := range c.midiIns {
		p.refresh()
	}
	if c.process == nil {
		return true
	}
	atomic.AddUint64(&c.ticks, 1)
	if err := c.process(c.bufferSize); err != nil {
		atomic.AddUint64(&c.processErrs, 1)
		return false
	}
	return true
}

// Stats reports cumulative client counters.
func (c *TimerClient) Stats() map[string]uint64 {
	return map[string]uint64{
		"ticks":          atomic.LoadUint64(&c.ticks),
		"process_errors": atomic.LoadUint64(&c.processErrs),
	}
}
