//go:build !unix
// +build !unix

// File: reactor/run_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package reactor

import "errors"

var errUnsupported = errors.New("reactor: this platform is not supported")

// WakePipe is unavailable on this platform.
type WakePipe struct{}

// NewWakePipe returns an error for unsupported platforms.
func NewWakePipe() (*WakePipe, error) {
	return nil, errUnsupported
}

func (p *WakePipe) Fd() int      { return -1 }
func (p *WakePipe) Wake()        {}
func (p *WakePipe) Close() error { return nil }

// Run returns an error for unsupported platforms.
func (l *Loop) Run() error {
	return errUnsupported
}
