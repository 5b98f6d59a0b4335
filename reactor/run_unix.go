//go:build unix
// +build unix

// File: reactor/run_unix.go
// Author: momentics <momentics@gmail.com>
//
// poll(2)-based Run and the self-pipe wake mechanism.

package reactor

import (
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// WakePipe is a self-pipe: Wake makes the read end pollable from any
// goroutine, so shutdown requests and signal deliveries reach the poll
// loop as ordinary readiness events.
type WakePipe struct {
	r      int
	w      int
	closed uint32
}

// NewWakePipe creates the pipe with both ends non-blocking.
func NewWakePipe() (*WakePipe, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, fmt.Errorf("reactor: pipe: %w", err)
	}
	for _, fd := range fds {
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(fds[0])
			unix.Close(fds[1])
			return nil, fmt.Errorf("reactor: set nonblock: %w", err)
		}
	}
	return &WakePipe{r: fds[0], w: fds[1]}, nil
}

// Fd returns the read end for polling.
func (p *WakePipe) Fd() int {
	return p.r
}

// Wake makes the read end readable. Best effort: a full pipe already
// wakes the poller, and a closed pipe means shutdown won the race.
func (p *WakePipe) Wake() {
	if atomic.LoadUint32(&p.closed) != 0 {
		return
	}
	unix.Write(p.w, []byte{0})
}

// Close releases both ends. Idempotent. Call it only after Run has
// returned and signal forwarding is stopped; ending a running loop is
// Wake's job.
func (p *WakePipe) Close() error {
	if !atomic.CompareAndSwapUint32(&p.closed, 0, 1) {
		return nil
	}
	err := unix.Close(p.w)
	if cerr := unix.Close(p.r); err == nil {
		err = cerr
	}
	return err
}

// Run polls until a wake event arrives, which returns nil. Poll errors
// other than EINTR are fatal, as is POLLNVAL on any watched descriptor.
func (l *Loop) Run() error {
	fds := []unix.PollFd{
		{Fd: int32(l.wake.Fd()), Events: unix.POLLIN},
		{Fd: -1, Events: unix.POLLIN},
	}
	if l.input >= 0 {
		fds[1].Fd = int32(l.input)
	}

	for {
		n, err := unix.Poll(fds, -1)
		if errors.Is(err, unix.EINTR) || (err == nil && n == 0) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reactor: poll: %w", err)
		}
		for i := range fds {
			if fds[i].Revents&unix.POLLNVAL != 0 {
				return fmt.Errorf("reactor: unexpected POLLNVAL on descriptor %d", fds[i].Fd)
			}
		}
		if fds[0].Revents != 0 {
			return nil
		}
		if fds[1].Revents&unix.POLLIN != 0 {
			l.drainInput(&fds[1])
		} else if fds[1].Revents != 0 {
			// Error or hangup with nothing left to read: stop
			// watching, keep serving wakeups.
			fds[1].Fd = -1
		}
	}
}

// drainInput reads chunks until the descriptor runs dry. End of stream
// closes the descriptor and retires its poll slot; read errors just
// return to the poller.
func (l *Loop) drainInput(pfd *unix.PollFd) {
	for {
		n, err := unix.Read(l.input, l.chunk[:])
		if n > 0 {
			atomic.AddUint64(&l.chunks, 1)
			atomic.AddUint64(&l.bytesIn, uint64(n))
			l.onChunk(l.chunk[:n])
			continue
		}
		if n == 0 && err == nil {
			unix.Close(l.input)
			l.input = -1
			pfd.Fd = -1
			if l.onEOF != nil {
				l.onEOF()
			}
			return
		}
		return
	}
}
