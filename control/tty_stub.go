//go:build !unix
// +build !unix

// control/tty_stub.go
// Author: momentics <momentics@gmail.com>

package control

// RestorePrompt is a no-op without a POSIX controlling terminal.
func RestorePrompt() {}
