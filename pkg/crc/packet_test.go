// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package crc_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Thermoquad/stencil/pkg/crc"
	"github.com/Thermoquad/stencil/pkg/wire"
)

// sample is an i8 followed by a u32.
type sample = wire.Tuple2[wire.I8, wire.U32, *wire.I8, *wire.U32]

// flagged is a bool followed by a u8.
type flagged = wire.Tuple2[wire.Bool, wire.U8, *wire.Bool, *wire.U8]

// dummyCRC ignores its input and always reports 0xBEEF.
type dummyCRC struct {
	updates   int
	finalizes int
}

func (d *dummyCRC) Update(wire.Word) { d.updates++ }

func (d *dummyCRC) Finalize() wire.U16 {
	d.finalizes++
	return 0xBEEF
}

// ============================================================
// Envelope Tests
// ============================================================

func TestRender_Layout(t *testing.T) {
	in := sample{A: -1, B: 0xDEADBEEF}
	buf := make([]wire.Word, 7)
	w := wire.NewWriter(buf)
	var p dummyCRC

	if err := crc.Render[wire.U16](&w, &in, &p); err != nil {
		t.Fatalf("Render: %v", err)
	}

	expected := []wire.Word{0xFF, 0xEF, 0xBE, 0xAD, 0xDE, 0xEF, 0xBE}
	if !bytes.Equal(buf, expected) {
		t.Errorf("got % X, want % X", buf, expected)
	}
	if p.updates != 5 {
		t.Errorf("provider saw %d words, want 5 (digest excluded)", p.updates)
	}
	if p.finalizes != 1 {
		t.Errorf("finalized %d times, want 1", p.finalizes)
	}
}

func TestConstruct_RoundTrip(t *testing.T) {
	in := sample{A: -1, B: 0xDEADBEEF}
	buf := make([]wire.Word, 7)
	var p dummyCRC
	if _, err := crc.RenderExact[wire.U16](buf, &in, &p); err != nil {
		t.Fatalf("RenderExact: %v", err)
	}

	r := wire.NewReader(buf)
	out, err := crc.Construct[sample, wire.U16](&r, &p)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
	if r.Remaining() != 0 {
		t.Errorf("%d words left unread", r.Remaining())
	}
}

func TestConstruct_BadDigest(t *testing.T) {
	in := sample{A: -1, B: 0xDEADBEEF}
	buf := make([]wire.Word, 7)
	var p dummyCRC
	if _, err := crc.RenderExact[wire.U16](buf, &in, &p); err != nil {
		t.Fatalf("RenderExact: %v", err)
	}

	buf[6]++

	r := wire.NewReader(buf)
	out, err := crc.Construct[sample, wire.U16](&r, &p)
	if !errors.Is(err, crc.ErrMismatch) {
		t.Fatalf("got %v, want ErrMismatch", err)
	}
	if out != (sample{}) {
		t.Errorf("payload exposed on mismatch: %+v", out)
	}
}

func TestConstruct_ErrorsPropagate(t *testing.T) {
	tests := []struct {
		name     string
		data     []wire.Word
		expected error
	}{
		{"short payload", []wire.Word{0x01}, wire.ErrEndOfInput},
		{"short digest", []wire.Word{0x01, 0x02, 0xEF}, wire.ErrEndOfInput},
		{"invalid payload", []wire.Word{0x02, 0x02, 0xEF, 0xBE}, wire.ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p dummyCRC
			r := wire.NewReader(tt.data)
			_, err := crc.Construct[flagged, wire.U16](&r, &p)
			if !errors.Is(err, tt.expected) {
				t.Fatalf("got %v, want %v", err, tt.expected)
			}
			if errors.Is(err, crc.ErrMismatch) {
				t.Errorf("structural error reported as mismatch")
			}
			if p.finalizes != 1 {
				t.Errorf("finalized %d times, want 1", p.finalizes)
			}
		})
	}
}

func TestRender_ShortSink(t *testing.T) {
	in := sample{A: 1, B: 2}

	t.Run("payload", func(t *testing.T) {
		w := wire.NewWriter(make([]wire.Word, 3))
		var p dummyCRC
		if err := crc.Render[wire.U16](&w, &in, &p); !errors.Is(err, wire.ErrEndOfInput) {
			t.Fatalf("got %v, want ErrEndOfInput", err)
		}
		if p.updates != 3 {
			t.Errorf("provider saw %d words, want only the 3 stored", p.updates)
		}
	})

	t.Run("digest", func(t *testing.T) {
		w := wire.NewWriter(make([]wire.Word, 6))
		var p dummyCRC
		if err := crc.Render[wire.U16](&w, &in, &p); !errors.Is(err, wire.ErrEndOfInput) {
			t.Fatalf("got %v, want ErrEndOfInput", err)
		}
	})

	t.Run("exact", func(t *testing.T) {
		buf := make([]wire.Word, 6)
		var p dummyCRC
		n, err := crc.RenderExact[wire.U16](buf, &in, &p)
		if !errors.Is(err, wire.ErrEndOfInput) {
			t.Fatalf("got %v, want ErrEndOfInput", err)
		}
		if n != 0 || !bytes.Equal(buf, make([]wire.Word, 6)) {
			t.Errorf("wrote %d words into a short buffer: % X", n, buf)
		}
	})
}

func TestLen(t *testing.T) {
	in := sample{}
	if n := crc.Len[wire.U16](&in); n != 7 {
		t.Errorf("Len = %d, want 7", n)
	}
	if n := crc.ExactLen[wire.U16](&in); n != 7 {
		t.Errorf("ExactLen = %d, want 7", n)
	}
	if n := crc.ExactLen[wire.U64](&in); n != 13 {
		t.Errorf("ExactLen with 64-bit digest = %d, want 13", n)
	}
}

func TestConstructFunc_Dynamic(t *testing.T) {
	buf := make([]wire.Word, 5)
	w := wire.NewWriter(buf)
	var p crc.CCITT
	payload := wire.ArrayOf[wire.U8, wire.N3](1, 2, 3)
	if err := crc.Render[wire.U16](&w, payload, &p); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var got []wire.Word
	r := wire.NewReader(buf)
	err := crc.ConstructFunc[wire.U16](&r, &p, func(src wire.Source) error {
		for i := 0; i < 3; i++ {
			v, err := src.NextWord()
			if err != nil {
				return err
			}
			got = append(got, v)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ConstructFunc: %v", err)
	}
	if !bytes.Equal(got, []wire.Word{1, 2, 3}) {
		t.Errorf("got % X, want 01 02 03", got)
	}
}
