// File: protocol/hex.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package protocol

import (
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
)

// Wire framing bytes shared by the scanner and the writer.
const (
	// Terminator ends every message line.
	Terminator = '\n'

	// ResyncMarker cancels the line in progress. A reader drops its
	// accumulator when it sees one; a writer emits one after failing to
	// put a complete line on the wire.
	ResyncMarker = 'X'
)

// AppendMessage appends the wire form of msg to dst and returns the
// extended slice: two lowercase hex digits per byte, then the terminator.
// An empty msg yields a bare terminator.
func AppendMessage(dst []byte, msg []byte) []byte {
	// hex.AppendEncode needs Go 1.22; this is its exact implementation,
	// inlined so the package builds with the Go 1.21 toolchain.
	n := hex.EncodedLen(len(msg))
	dst = slices.Grow(dst, n)
	hex.Encode(dst[len(dst):][:n], msg)
	dst = dst[:len(dst)+n]
	return append(dst, Terminator)
}

// ErrOddLength rejects a line whose digit count cannot form whole bytes.
var ErrOddLength = errors.New("protocol: odd-length hex line")

// DigitError is the byte that broke a hex line.
type DigitError byte

func (e DigitError) Error() string {
	return fmt.Sprintf("protocol: invalid hex digit %q", byte(e))
}

// DecodeLine decodes one message line (terminator already stripped) into a
// freshly allocated payload. Digits of either case are accepted. The whole
// line is rejected on the first flaw: ErrOddLength for a dangling digit,
// DigitError for anything outside the hex alphabet.
func DecodeLine(line []byte) ([]byte, error) {
	msg := make([]byte, hex.DecodedLen(len(line)))
	if _, err := hex.Decode(msg, line); err != nil {
		var bad hex.InvalidByteError
		if errors.As(err, &bad) {
			return nil, DigitError(bad)
		}
		return nil, ErrOddLength
	}
	return msg, nil
}
