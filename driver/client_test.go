// File: driver/client_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package driver

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/momentics/jackpipe/api"
)

// fastClient returns an idle client ticking every millisecond.
func fastClient(opts ...Option) *TimerClient {
	base := []Option{WithSampleRate(48000), WithBufferSize(48)}
	return NewTimerClient("test", append(base, opts...)...)
}

func TestPeriod(t *testing.T) {
	c := fastClient()
	if got := c.Period(); got != time.Millisecond {
		t.Fatalf("Period = %v, want 1ms", got)
	}
}

func TestTimerClientLifecycle(t *testing.T) {
	c := fastClient()
	var ticks uint64
	if err := c.SetProcess(func(nframes uint32) error {
		if nframes != 48 {
			t.Errorf("nframes = %d, want 48", nframes)
		}
		atomic.AddUint64(&ticks, 1)
		return nil
	}); err != nil {
		t.Fatalf("SetProcess: %v", err)
	}
	if err := c.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadUint64(&ticks) < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if atomic.LoadUint64(&ticks) < 3 {
		t.Fatalf("callback ran %d times, want at least 3", ticks)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	after := atomic.LoadUint64(&ticks)
	time.Sleep(5 * time.Millisecond)
	if got := atomic.LoadUint64(&ticks); got != after {
		t.Fatalf("callback ran after Close: %d -> %d", after, got)
	}
	if got := c.Stats()["ticks"]; got != after {
		t.Fatalf("stats ticks = %d, want %d", got, after)
	}
}

func TestProcessErrorStopsClock(t *testing.T) {
	c := fastClient()
	var ticks uint64
	if err := c.SetProcess(func(uint32) error {
		atomic.AddUint64(&ticks, 1)
		return errors.New("xrun")
	}); err != nil {
		t.Fatalf("SetProcess: %v", err)
	}
	if err := c.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadUint64(&ticks) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(5 * time.Millisecond)
	if got := atomic.LoadUint64(&ticks); got != 1 {
		t.Fatalf("callback ran %d times after failing, want 1", got)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := c.Stats()["process_errors"]; got != 1 {
		t.Fatalf("process_errors = %d, want 1", got)
	}
}

func TestConfigurationGates(t *testing.T) {
	c := fastClient()
	if err := c.SetProcess(func(uint32) error { return nil }); err != nil {
		t.Fatalf("SetProcess: %v", err)
	}
	if err := c.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	defer c.Close()

	if err := c.SetProcess(func(uint32) error { return nil }); !errors.Is(err, api.ErrClientActive) {
		t.Fatalf("SetProcess while active = %v, want ErrClientActive", err)
	}
	if _, err := c.RegisterCVOut("late"); !errors.Is(err, api.ErrClientActive) {
		t.Fatalf("RegisterCVOut while active = %v, want ErrClientActive", err)
	}
}

func TestDuplicatePortNames(t *testing.T) {
	c := fastClient()
	if _, err := c.RegisterCVOut("a"); err != nil {
		t.Fatalf("RegisterCVOut: %v", err)
	}
	if _, err := c.RegisterMidiOut("a"); !errors.Is(err, api.ErrPortExists) {
		t.Fatalf("duplicate across kinds = %v, want ErrPortExists", err)
	}
	if _, err := c.RegisterMidiIn("b"); err != nil {
		t.Fatalf("RegisterMidiIn: %v", err)
	}
	if _, err := c.RegisterMidiIn("b"); !errors.Is(err, api.ErrPortExists) {
		t.Fatalf("duplicate midi in = %v, want ErrPortExists", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	c := fastClient()
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := c.Activate(); !errors.Is(err, api.ErrClientClosed) {
		t.Fatalf("Activate after Close = %v, want ErrClientClosed", err)
	}
	if _, err := c.RegisterCVOut("x"); !errors.Is(err, api.ErrClientClosed) {
		t.Fatalf("RegisterCVOut after Close = %v, want ErrClientClosed", err)
	}
}

func TestPropertyRoundTrip(t *testing.T) {
	c := fastClient()
	p, err := c.RegisterCVOut("value")
	if err != nil {
		t.Fatalf("RegisterCVOut: %v", err)
	}
	if err := c.SetProperty(p.UUID(), "signal-type", "CV", "text/plain"); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}
	value, mime, ok := c.Property(p.UUID(), "signal-type")
	if !ok || value != "CV" || mime != "text/plain" {
		t.Fatalf("Property = %q/%q/%v, want CV/text/plain/true", value, mime, ok)
	}
	if _, _, ok := c.Property(uuid.New(), "signal-type"); ok {
		t.Fatal("Property on unknown subject reported ok")
	}

	// Metadata stays writable while active.
	if err := c.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if err := c.SetProperty(p.UUID(), "pretty-name", "Value", "text/plain"); err != nil {
		t.Fatalf("SetProperty while active: %v", err)
	}
	c.Close()
	if err := c.SetProperty(p.UUID(), "k", "v", ""); !errors.Is(err, api.ErrClientClosed) {
		t.Fatalf("SetProperty after Close = %v, want ErrClientClosed", err)
	}
}
