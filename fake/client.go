// File: fake/client.go
// Author: momentics <momentics@gmail.com>
//
// Manual-clock client double.

package fake

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/momentics/jackpipe/api"
)

// Property is one captured metadata entry.
type Property struct {
	Value string
	Mime  string
}

// Client implements api.Client with a caller-driven clock.
//
// Error injection: FailRegister maps a port name to the error its
// registration should return; FailActivate and FailSetProperty fail the
// corresponding calls outright.
type Client struct {
	FailRegister    map[string]error
	FailActivate    error
	FailSetProperty error

	name    string
	process api.ProcessFunc
	active  bool
	closed  bool

	cvs      map[string]*CVPort
	midiOuts map[string]*MidiOutPort
	midiIns  map[string]*MidiInPort
	meta     map[uuid.UUID]map[string]Property
}

// NewClient builds an idle fake under the given name.
func NewClient(name string) *Client {
	return &Client{
		name:     name,
		cvs:      make(map[string]*CVPort),
		midiOuts: make(map[string]*MidiOutPort),
		midiIns:  make(map[string]*MidiInPort),
		meta:     make(map[uuid.UUID]map[string]Property),
	}
}

func (c *Client) Name() string { return c.name }

func (c *Client) SetProcess(fn api.ProcessFunc) error {
	if c.closed {
		return api.ErrClientClosed
	}
	if c.active {
		return api.ErrClientActive
	}
	c.process = fn
	return nil
}

func (c *Client) registerGate(name string) error {
	if c.closed {
		return api.ErrClientClosed
	}
	if c.active {
		return api.ErrClientActive
	}
	if err := c.FailRegister[name]; err != nil {
		return err
	}
	if _, dup := c.cvs[name]; dup {
		return api.ErrPortExists
	}
	if _, dup := c.midiOuts[name]; dup {
		return api.ErrPortExists
	}
	if _, dup := c.midiIns[name]; dup {
		return api.ErrPortExists
	}
	return nil
}

func (c *Client) RegisterCVOut(name string) (api.CVOutPort, error) {
	if err := c.registerGate(name); err != nil {
		return nil, err
	}
	p := &CVPort{name: name, uuid: uuid.New(), buf: make([]float32, 64)}
	c.cvs[name] = p
	return p, nil
}

func (c *Client) RegisterMidiOut(name string) (api.MidiOutPort, error) {
	if err := c.registerGate(name); err != nil {
		return nil, err
	}
	p := &MidiOutPort{name: name, uuid: uuid.New()}
	c.midiOuts[name] = p
	return p, nil
}

func (c *Client) RegisterMidiIn(name string) (api.MidiInPort, error) {
	if err := c.registerGate(name); err != nil {
		return nil, err
	}
	p := &MidiInPort{name: name, uuid: uuid.New()}
	c.midiIns[name] = p
	return p, nil
}

func (c *Client) SetProperty(subject uuid.UUID, key, value, mime string) error {
	if c.closed {
		return api.ErrClientClosed
	}
	if c.FailSetProperty != nil {
		return c.FailSetProperty
	}
	props := c.meta[subject]
	if props == nil {
		props = make(map[string]Property)
		c.meta[subject] = props
	}
	props[key] = Property{Value: value, Mime: mime}
	return nil
}

// Property returns a captured metadata entry.
func (c *Client) Property(subject uuid.UUID, key string) (Property, bool) {
	props, ok := c.meta[subject]
	if !ok {
		return Property{}, false
	}
	p, ok := props[key]
	return p, ok
}

func (c *Client) Activate() error {
	if c.closed {
		return api.ErrClientClosed
	}
	if c.active {
		return api.ErrClientActive
	}
	if c.FailActivate != nil {
		return c.FailActivate
	}
	c.active = true
	return nil
}

func (c *Client) Close() error {
	c.closed = true
	c.active = false
	return nil
}

// Active reports whether Activate succeeded and Close has not run.
func (c *Client) Active() bool { return c.active }

// Tick runs one process callback synchronously and returns its error.
// Queued MIDI input is visible during the callback and consumed by it.
func (c *Client) Tick(nframes uint32) error {
	if !c.active {
		return errors.New("fake: tick on inactive client")
	}
	if c.process == nil {
		return errors.New("fake: no process callback installed")
	}
	err := c.process(nframes)
	for _, p := range c.midiIns {
		p.drain()
	}
	if err != nil {
		return fmt.Errorf("fake: process: %w", err)
	}
	return nil
}

// CV returns a registered CV port double by name.
func (c *Client) CV(name string) *CVPort { return c.cvs[name] }

// MidiOut returns a registered MIDI output double by name.
func (c *Client) MidiOut(name string) *MidiOutPort { return c.midiOuts[name] }

// MidiIn returns a registered MIDI input double by name.
func (c *Client) MidiIn(name string) *MidiInPort { return c.midiIns[name] }
