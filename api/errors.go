// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values shared across the jackpipe library.

package api

import "errors"

var (
	// ErrClientClosed reports use of a client after Close.
	ErrClientClosed = errors.New("client is closed")
	// ErrClientActive reports a configuration call after Activate.
	ErrClientActive = errors.New("client already active")
	// ErrPortExists reports a duplicate port name on one client.
	ErrPortExists = errors.New("port name already registered")
	// ErrNoBuffer reports that a port buffer was unavailable for a cycle.
	ErrNoBuffer = errors.New("port buffer unavailable")
	// ErrBufferFull reports that a cycle's event storage is exhausted.
	ErrBufferFull = errors.New("midi buffer full")
	// ErrNoEvent reports an out-of-range event index.
	ErrNoEvent = errors.New("no such event")
	// ErrNotSupported reports an operation the platform cannot perform.
	ErrNotSupported = errors.New("operation not supported")
)
