// SPDX-License-Identifier: GPL-2.0-or-later

package crc

import (
	"io"
	"strings"
	"testing"
)

func TestUpdate(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want uint16
	}{
		{"", 0xffff},
		{"123456789", 0x29b1},
		{"A", 0xb915},
	} {
		if got := Update([]byte(tc.in)); got != tc.want {
			t.Errorf("Update(%q) = 0x%04x, want 0x%04x", tc.in, got, tc.want)
		}
	}
}

func TestHash(t *testing.T) {
	h := New()
	if _, err := io.Copy(h, strings.NewReader("1234")); err != nil {
		t.Fatal(err)
	}
	h.Write([]byte("56789"))
	if got := h.Sum16(); got != 0x29b1 {
		t.Errorf("Sum16() = 0x%04x, want 0x29b1", got)
	}
	h.Reset()
	if got := h.Sum16(); got != 0xffff {
		t.Errorf("Sum16() after Reset = 0x%04x, want 0xffff", got)
	}
}
