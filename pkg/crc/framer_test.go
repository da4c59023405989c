// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package crc_test

import (
	"errors"
	"testing"

	"github.com/Thermoquad/stencil/pkg/crc"
	"github.com/Thermoquad/stencil/pkg/wire"
)

func TestFramer_RoundTrip(t *testing.T) {
	blake, err := crc.NewBlake3Framer(testKey(0x33))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		framer    crc.Framer
		digestLen int
	}{
		{crc.NewCCITTFramer(), 2},
		{blake, 8},
	}

	for _, tt := range tests {
		t.Run(tt.framer.Name(), func(t *testing.T) {
			if tt.framer.DigestLen() != tt.digestLen {
				t.Errorf("DigestLen = %d, want %d", tt.framer.DigestLen(), tt.digestLen)
			}

			in := sample{A: 3, B: 0x11223344}
			buf := make([]wire.Word, 5+tt.digestLen)
			w := wire.NewWriter(buf)
			if err := tt.framer.Render(&w, &in); err != nil {
				t.Fatalf("Render: %v", err)
			}
			if w.Remaining() != 0 {
				t.Errorf("%d words unused", w.Remaining())
			}

			var out sample
			r := wire.NewReader(buf)
			if err := tt.framer.Construct(&r, out.Decode); err != nil {
				t.Fatalf("Construct: %v", err)
			}
			if out != in {
				t.Errorf("got %+v, want %+v", out, in)
			}

			buf[0] ^= 0xFF
			r = wire.NewReader(buf)
			var bad sample
			if err := tt.framer.Construct(&r, bad.Decode); !errors.Is(err, crc.ErrMismatch) {
				t.Errorf("corrupt frame: got %v, want ErrMismatch", err)
			}
		})
	}
}
