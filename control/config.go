// control/config.go
// Author: momentics <momentics@gmail.com>
//
// TOML-backed configuration for the bridge binaries.

package control

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Config collects the tunables every bridge shares. Zero values are not
// meaningful; start from Default and override.
type Config struct {
	// ClientName overrides the per-tool default client name. The
	// positional command-line argument wins over this.
	ClientName string `toml:"client_name"`

	// LineMax bounds the inbound line accumulator. Longer lines are
	// truncated, not rejected.
	LineMax int `toml:"line_max"`

	// SampleRate and BufferSize shape the internal periodic clock:
	// one callback every BufferSize/SampleRate seconds. A real audio
	// subsystem would dictate these; the built-in timer obeys them.
	SampleRate uint32 `toml:"sample_rate"`
	BufferSize uint32 `toml:"buffer_size"`

	// PinCPU pins the callback thread to one CPU; -1 leaves scheduling
	// to the kernel.
	PinCPU int `toml:"pin_cpu"`

	// LogLevel is a zerolog level name: trace, debug, info, warn,
	// error, fatal, panic.
	LogLevel string `toml:"log_level"`

	// StatsAtExit dumps cumulative counters as JSON to stderr when the
	// bridge shuts down.
	StatsAtExit bool `toml:"stats_at_exit"`
}

// Default returns the configuration the binaries run with when no file
// is given.
func Default() Config {
	return Config{
		LineMax:    1024,
		SampleRate: 48000,
		BufferSize: 64,
		PinCPU:     -1,
		LogLevel:   "info",
	}
}

// Load reads a TOML file over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("control: load %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("control: %s: unknown keys %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("control: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the bridges cannot run with.
func (c *Config) Validate() error {
	if c.LineMax < 1 {
		return fmt.Errorf("line_max must be at least 1, got %d", c.LineMax)
	}
	if c.SampleRate == 0 {
		return fmt.Errorf("sample_rate must be positive")
	}
	if c.BufferSize == 0 {
		return fmt.Errorf("buffer_size must be positive")
	}
	if c.PinCPU < -1 {
		return fmt.Errorf("pin_cpu must be -1 or a CPU index, got %d", c.PinCPU)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return nil
}
