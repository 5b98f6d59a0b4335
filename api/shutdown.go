// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown unifies orderly teardown across components. Shutdown
// stops internal activity and releases held resources; it is safe to call
// more than once.
type GracefulShutdown interface {
	Shutdown() error
}
