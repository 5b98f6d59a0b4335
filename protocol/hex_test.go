// File: protocol/hex_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package protocol_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/momentics/jackpipe/protocol"
)

func TestAppendMessage(t *testing.T) {
	got := protocol.AppendMessage(nil, []byte{0x90, 0x40, 0x7f})
	if !bytes.Equal(got, []byte("90407f\n")) {
		t.Fatalf("AppendMessage = %q, want %q", got, "90407f\n")
	}

	// Empty message encodes as a bare terminator.
	if got := protocol.AppendMessage(nil, nil); !bytes.Equal(got, []byte("\n")) {
		t.Fatalf("AppendMessage(empty) = %q, want %q", got, "\n")
	}

	// Appending extends, never clobbers.
	dst := []byte("b0")
	got = protocol.AppendMessage(dst, []byte{0x01})
	if !bytes.Equal(got, []byte("b001\n")) {
		t.Fatalf("AppendMessage append = %q, want %q", got, "b001\n")
	}
}

func TestDecodeLine(t *testing.T) {
	for _, tt := range []struct {
		line string
		want []byte
	}{
		{"90407f", []byte{0x90, 0x40, 0x7f}},
		{"90407F", []byte{0x90, 0x40, 0x7f}},
		{"F07e7F06 01f7", nil}, // space is not a digit
		{"", []byte{}},
		{"f8", []byte{0xf8}},
	} {
		got, err := protocol.DecodeLine([]byte(tt.line))
		if tt.want == nil {
			if err == nil {
				t.Errorf("DecodeLine(%q): expected error, got %x", tt.line, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("DecodeLine(%q): %v", tt.line, err)
			continue
		}
		if !bytes.Equal(got, tt.want) {
			t.Errorf("DecodeLine(%q) = %x, want %x", tt.line, got, tt.want)
		}
	}
}

func TestDecodeLineOddLength(t *testing.T) {
	_, err := protocol.DecodeLine([]byte("90f"))
	if !errors.Is(err, protocol.ErrOddLength) {
		t.Fatalf("DecodeLine odd length: err = %v, want ErrOddLength", err)
	}
}

func TestDecodeLineBadDigit(t *testing.T) {
	_, err := protocol.DecodeLine([]byte("90gz"))
	var bad protocol.DigitError
	if !errors.As(err, &bad) {
		t.Fatalf("DecodeLine bad digit: err = %v, want DigitError", err)
	}
	if byte(bad) != 'g' {
		t.Fatalf("offending byte = %q, want %q", byte(bad), byte('g'))
	}
}
