//go:build unix
// +build unix

// control/tty_unix.go
// Author: momentics <momentics@gmail.com>

package control

import (
	"errors"

	"golang.org/x/sys/unix"
)

// RestorePrompt writes one newline to the controlling terminal so the
// shell prompt lands on a fresh line after the bridge exits. The data
// descriptors cannot be used for this: stdout is the wire. Entirely best
// effort; processes without a terminal simply skip it.
func RestorePrompt() {
	fd, err := unix.Open("/dev/tty", unix.O_WRONLY, 0)
	if err != nil {
		return
	}
	for {
		if _, err := unix.Write(fd, []byte{'\n'}); !errors.Is(err, unix.EINTR) {
			break
		}
	}
	unix.Close(fd)
}
