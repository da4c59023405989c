// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package wire

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

// roundTrip encodes v into an exact buffer, decodes it back and returns the
// encoded words.
func roundTrip[T comparable, PT FixedCodec[T]](t *testing.T, v T) []Word {
	t.Helper()
	buf := make([]Word, ExactLenOf[T, PT]())
	n, err := EncodeExact(PT(&v), buf)
	if err != nil {
		t.Fatalf("encode %v: %v", v, err)
	}
	if n != len(buf) {
		t.Fatalf("encode %v: wrote %d words, want %d", v, n, len(buf))
	}
	got, err := DecodeExact[T, PT](buf)
	if err != nil {
		t.Fatalf("decode %v: %v", v, err)
	}
	if got != v {
		t.Errorf("round trip: got %v, want %v", got, v)
	}
	return buf
}

// ============================================================
// Round Trip Tests
// ============================================================

func TestUnsigned_RoundTrip(t *testing.T) {
	for _, v := range []U8{0, 1, 0x7F, math.MaxUint8} {
		roundTrip(t, v)
	}
	for _, v := range []U16{0, 1, 0x7FFF, math.MaxUint16} {
		roundTrip(t, v)
	}
	for _, v := range []U32{0, 1, 0xDEADBEEF, math.MaxUint32} {
		roundTrip(t, v)
	}
	for _, v := range []U64{0, 1, 0x0102030405060708, math.MaxUint64} {
		roundTrip(t, v)
	}
}

func TestSigned_RoundTrip(t *testing.T) {
	for _, v := range []I8{0, -1, math.MinInt8, math.MaxInt8} {
		roundTrip(t, v)
	}
	for _, v := range []I16{0, -1, math.MinInt16, math.MaxInt16} {
		roundTrip(t, v)
	}
	for _, v := range []I32{0, -1, math.MinInt32, math.MaxInt32} {
		roundTrip(t, v)
	}
	for _, v := range []I64{0, -1, math.MinInt64, math.MaxInt64} {
		roundTrip(t, v)
	}
}

func TestFloat_RoundTrip(t *testing.T) {
	for _, v := range []F32{0, -1.5, math.MaxFloat32, math.SmallestNonzeroFloat32, F32(math.Inf(-1))} {
		roundTrip(t, v)
	}
	for _, v := range []F64{0, 3.14159, -math.MaxFloat64, math.SmallestNonzeroFloat64, F64(math.Inf(1))} {
		roundTrip(t, v)
	}
}

func TestFloat_AllOnesIsTotal(t *testing.T) {
	// All-ones is a NaN payload; decode must accept it and keep the bits.
	buf := []Word{0xFF, 0xFF, 0xFF, 0xFF}
	r := NewReader(buf)
	v, err := ReadFloat32(&r)
	if err != nil {
		t.Fatalf("decode all-ones f32: %v", err)
	}
	if bits := math.Float32bits(v); bits != 0xFFFFFFFF {
		t.Errorf("bits = 0x%08X, want 0xFFFFFFFF", bits)
	}
}

func TestBool_Exhaustive(t *testing.T) {
	if got := roundTrip(t, Bool(false)); got[0] != 0x00 {
		t.Errorf("false encodes to 0x%02X, want 0x00", got[0])
	}
	if got := roundTrip(t, Bool(true)); got[0] != 0x01 {
		t.Errorf("true encodes to 0x%02X, want 0x01", got[0])
	}

	for b := 2; b <= math.MaxUint8; b++ {
		var v Bool
		r := NewReader([]Word{Word(b)})
		if err := v.Decode(&r); !errors.Is(err, ErrInvalid) {
			t.Fatalf("byte 0x%02X: got %v, want ErrInvalid", b, err)
		}
	}
}

func TestMarker_EncodesNothing(t *testing.T) {
	var c Counter
	if err := (Marker{}).Encode(&c); err != nil {
		t.Fatalf("encode marker: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("marker wrote %d words", c.Len())
	}

	var m Marker
	var empty Reader
	if err := m.Decode(&empty); err != nil {
		t.Errorf("decode marker from empty source: %v", err)
	}
}

// ============================================================
// Wire Layout Tests
// ============================================================

func TestPrimitives_LittleEndian(t *testing.T) {
	tests := []struct {
		name     string
		value    Fixed
		expected []Word
	}{
		{"u16", U16(0xBEEF), []Word{0xEF, 0xBE}},
		{"i16 -1", I16(-1), []Word{0xFF, 0xFF}},
		{"u32", U32(0xDEADBEEF), []Word{0xEF, 0xBE, 0xAD, 0xDE}},
		{"u64", U64(0x0102030405060708), []Word{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}},
		{"i8 -1", I8(-1), []Word{0xFF}},
		{"f32 1.0", F32(1.0), []Word{0x00, 0x00, 0x80, 0x3F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]Word, tt.value.ExactLen())
			if _, err := EncodeExact(tt.value, buf); err != nil {
				t.Fatalf("encode: %v", err)
			}
			if !bytes.Equal(buf, tt.expected) {
				t.Errorf("got % X, want % X", buf, tt.expected)
			}
		})
	}
}

// ============================================================
// Exact Sizing Tests
// ============================================================

func TestPrimitives_ExactSizing(t *testing.T) {
	values := []Fixed{
		U8(math.MaxUint8), U16(math.MaxUint16), U32(math.MaxUint32), U64(math.MaxUint64),
		I8(math.MinInt8), I16(math.MinInt16), I32(math.MinInt32), I64(math.MinInt64),
		F32(-1), F64(-1), Bool(true), Marker{},
	}
	widths := []int{1, 2, 4, 8, 1, 2, 4, 8, 4, 8, 1, 0}

	for i, v := range values {
		if v.ExactLen() != widths[i] {
			t.Errorf("%T: ExactLen = %d, want %d", v, v.ExactLen(), widths[i])
		}

		exact := NewWriter(make([]Word, v.ExactLen()))
		if err := v.Encode(&exact); err != nil {
			t.Errorf("%T: encode into ExactLen words: %v", v, err)
		}

		if v.ExactLen() == 0 {
			continue
		}
		short := NewWriter(make([]Word, v.ExactLen()-1))
		if err := v.Encode(&short); !errors.Is(err, ErrEndOfInput) {
			t.Errorf("%T: encode into ExactLen-1 words: got %v, want ErrEndOfInput", v, err)
		}
	}

	if err := VerifyExactLen(values...); err != nil {
		t.Error(err)
	}
}

func TestDecode_ShortSource(t *testing.T) {
	r := NewReader([]Word{0xEF, 0xBE, 0xAD})
	v := U32(7)
	if err := v.Decode(&r); !errors.Is(err, ErrEndOfInput) {
		t.Fatalf("got %v, want ErrEndOfInput", err)
	}
	if v != 7 {
		t.Errorf("failed decode modified receiver: %v", v)
	}
}

func TestDecodeExact_ShortBuffer(t *testing.T) {
	_, err := DecodeExact[U64]([]Word{1, 2, 3})
	if !errors.Is(err, ErrEndOfInput) {
		t.Errorf("got %v, want ErrEndOfInput", err)
	}
}

func TestEncodeExact_ShortBufferWritesNothing(t *testing.T) {
	buf := []Word{0xAA, 0xAA, 0xAA}
	if _, err := EncodeExact(U32(0), buf); !errors.Is(err, ErrEndOfInput) {
		t.Fatalf("got %v, want ErrEndOfInput", err)
	}
	if !bytes.Equal(buf, []Word{0xAA, 0xAA, 0xAA}) {
		t.Errorf("buffer modified: % X", buf)
	}
}

// ============================================================
// Medium Tests
// ============================================================

func TestSlice_Medium(t *testing.T) {
	var m Medium = Slice(make([]Word, 4))
	if m.Size() != 4 {
		t.Fatalf("Size = %d, want 4", m.Size())
	}

	w := m.IterMut()
	if err := U32(0xDEADBEEF).Encode(&w); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if w.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", w.Remaining())
	}
	if err := w.PutWord(0); !errors.Is(err, ErrEndOfInput) {
		t.Errorf("write past end: got %v, want ErrEndOfInput", err)
	}

	r := m.Iter()
	v, err := Decode[U32](&r)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v != 0xDEADBEEF {
		t.Errorf("got 0x%08X, want 0xDEADBEEF", uint32(v))
	}
	if r.Len() != 4 {
		t.Errorf("consumed %d words, want 4", r.Len())
	}
}

func TestWriter_PartialWriteIsNotRolledBack(t *testing.T) {
	buf := make([]Word, 3)
	w := NewWriter(buf)
	if err := U32(0xDEADBEEF).Encode(&w); !errors.Is(err, ErrEndOfInput) {
		t.Fatalf("got %v, want ErrEndOfInput", err)
	}
	if !bytes.Equal(buf, []Word{0xEF, 0xBE, 0xAD}) {
		t.Errorf("got % X, want EF BE AD", buf)
	}
	if !bytes.Equal(w.Bytes(), buf) {
		t.Errorf("Bytes = % X", w.Bytes())
	}
}

func TestLen(t *testing.T) {
	if n := Len(U64(0)); n != 8 {
		t.Errorf("Len(U64) = %d, want 8", n)
	}
	if n := Len(Marker{}); n != 0 {
		t.Errorf("Len(Marker) = %d, want 0", n)
	}
}
