// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package crc

import "github.com/Thermoquad/stencil/pkg/wire"

// CRC-16-CCITT parameters
const (
	CCITTPolynomial = 0x1021
	CCITTInitial    = 0xFFFF
)

// CCITT is a CRC-16-CCITT (poly 0x1021, init 0xFFFF, no reflection, no final
// xor) accumulator. The zero value is ready to use.
type CCITT struct {
	// reg holds the shift register xor CCITTInitial.
	reg uint16
}

var _ Provider[wire.U16] = (*CCITT)(nil)

// Update implements Provider.
func (c *CCITT) Update(w wire.Word) {
	c.reg = ccittStep(c.reg^CCITTInitial, w) ^ CCITTInitial
}

// Finalize implements Provider.
func (c *CCITT) Finalize() wire.U16 {
	crc := c.reg ^ CCITTInitial
	c.reg = 0
	return wire.U16(crc)
}

// CCITTChecksum computes CRC-16-CCITT checksum for the given data
func CCITTChecksum(data []byte) uint16 {
	crc := uint16(CCITTInitial)
	for _, b := range data {
		crc = ccittStep(crc, b)
	}
	return crc
}

func ccittStep(crc uint16, b byte) uint16 {
	crc ^= uint16(b) << 8
	for i := 0; i < 8; i++ {
		if crc&0x8000 != 0 {
			crc = (crc << 1) ^ CCITTPolynomial
		} else {
			crc <<= 1
		}
	}
	return crc
}
