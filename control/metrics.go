// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Exit-time statistics registry. Components expose cumulative counters;
// the registry namespaces and dumps them in one JSON document.

package control

import (
	"fmt"
	"io"
	"sync"

	"github.com/sugawarayuuta/sonnet"

	"github.com/momentics/jackpipe/api"
)

// StatsRegistry collects named counter sources. Registration happens at
// wiring time, collection at shutdown; both are safe concurrently.
type StatsRegistry struct {
	mu      sync.RWMutex
	sources map[string]api.StatsSource
}

// NewStatsRegistry creates an empty registry.
func NewStatsRegistry() *StatsRegistry {
	return &StatsRegistry{
		sources: make(map[string]api.StatsSource),
	}
}

// Register adds a counter source under the given namespace. A repeated
// name replaces the earlier source.
func (r *StatsRegistry) Register(name string, src api.StatsSource) {
	r.mu.Lock()
	r.sources[name] = src
	r.mu.Unlock()
}

// Snapshot collects every source's counters, namespaced by registration
// name.
func (r *StatsRegistry) Snapshot() map[string]map[string]uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]map[string]uint64, len(r.sources))
	for name, src := range r.sources {
		out[name] = src.Stats()
	}
	return out
}

// DumpJSON writes the snapshot as one JSON document followed by a
// newline.
func (r *StatsRegistry) DumpJSON(w io.Writer) error {
	data, err := sonnet.Marshal(r.Snapshot())
	if err != nil {
		return fmt.Errorf("control: marshal stats: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("control: write stats: %w", err)
	}
	return nil
}
