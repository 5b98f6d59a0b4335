// File: api/stats.go
// Package api defines the runtime statistics contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// StatsSource exposes a point-in-time snapshot of named counters. Snapshots
// are taken on the control thread; producers on the real-time thread only
// ever perform atomic increments, so reading is always safe and lock-free.
type StatsSource interface {
	Stats() map[string]uint64
}
