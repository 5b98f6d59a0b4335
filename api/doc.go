// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package api defines the contracts between the jackpipe bridges and the
// audio subsystem that hosts them.
//
// The audio subsystem is an external collaborator: it owns the real-time
// thread and invokes the registered ProcessFunc once per period with a hard
// deadline. Everything a bridge is allowed to touch from that context is
// expressed here as an interface, so the same bridge code runs against a
// live timer-driven client (package driver), a manual client (package fake),
// or any future backend.
//
// Contract summary for implementations:
//
//   - ProcessFunc runs on exactly one OS thread, never concurrently with
//     itself.
//   - Port buffers returned inside the callback are valid only until the
//     callback returns.
//   - Nothing reachable from the callback may block, allocate, or lock.
//     All implementations in this module uphold that; custom backends must
//     do the same.
package api
