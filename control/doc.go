// Package control
// Author: momentics <momentics@gmail.com>
//
// Process-level plumbing shared by the bridge binaries: file
// configuration, logger construction, the exit-time statistics registry,
// and terminal restoration.
//
// Everything here runs on the control side. Nothing in this package is
// safe for, or intended to be called from, the real-time callback.
package control
