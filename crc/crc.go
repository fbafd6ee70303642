// SPDX-License-Identifier: GPL-2.0-or-later

// Package crc computes the 16 bit CRC-CCITT (XMODEM variant with 0xffff
// start value) used to fingerprint level files.
package crc

const (
	ccittFalse = 0x1021
	cRCInitial = 0xffff
)

type Table struct {
	entries [256]uint16
}

// 16bit CRC used by XMODEM
var ccittFalseTable = makeTable(ccittFalse)

func makeTable(poly uint16) *Table {
	t := &Table{}
	width := uint16(16)
	for i := uint16(0); i < 256; i++ {
		crc := i << (width - 8)
		for j := 0; j < 8; j++ {
			if crc&(1<<(width-1)) != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		t.entries[i] = crc
	}
	return t
}

func update(crc uint16, p []byte) uint16 {
	for _, v := range p {
		crc = ccittFalseTable.entries[byte(crc>>8)^v] ^ (crc << 8)
	}
	return crc
}

func Update(p []byte) uint16 {
	return update(cRCInitial, p)
}

// Hash is a running CRC, fed through io.Writer.
type Hash struct {
	crc uint16
}

func New() *Hash {
	return &Hash{crc: cRCInitial}
}

func (h *Hash) Write(p []byte) (int, error) {
	h.crc = update(h.crc, p)
	return len(p), nil
}

func (h *Hash) Sum16() uint16 {
	return h.crc
}

func (h *Hash) Reset() {
	h.crc = cRCInitial
}
