// File: reactor/signals.go
// Author: momentics <momentics@gmail.com>
//
// Signal delivery converted into loop wakeups.

package reactor

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ShutdownSignals is the conventional set that ends a bridge process.
var ShutdownSignals = []os.Signal{
	syscall.SIGHUP,
	syscall.SIGINT,
	syscall.SIGQUIT,
	syscall.SIGTERM,
}

// Waker is the wake-side surface Notify needs.
type Waker interface {
	Wake()
}

// Notify forwards the given signals (ShutdownSignals when none are
// named) to the waker. The returned stop function detaches the handler
// and releases its goroutine; calling it again is a no-op.
func Notify(w Waker, sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = ShutdownSignals
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	go func() {
		for range ch {
			w.Wake()
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(ch)
		})
	}
}
