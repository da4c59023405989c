// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestArray_RoundTrip(t *testing.T) {
	a := ArrayOf[U16, N3](0x0102, 0xBEEF, 0xFFFF)
	buf := make([]Word, 6)
	w := NewWriter(buf)
	if err := a.Encode(&w); err != nil {
		t.Fatalf("encode: %v", err)
	}
	expected := []Word{0x02, 0x01, 0xEF, 0xBE, 0xFF, 0xFF}
	if !bytes.Equal(buf, expected) {
		t.Errorf("got % X, want % X", buf, expected)
	}

	b := NewArray[U16, N3]()
	r := NewReader(buf)
	if err := b.Decode(&r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := 0; i < 3; i++ {
		if b.At(i) != a.At(i) {
			t.Errorf("element %d: got 0x%04X, want 0x%04X", i, uint16(b.At(i)), uint16(a.At(i)))
		}
	}
}

func TestArray_NoLengthPrefix(t *testing.T) {
	a := ArrayOf[U8, N4](1, 2, 3, 4)
	if n := Len(a); n != 4 {
		t.Errorf("Len = %d, want 4", n)
	}
}

func TestArray_FailedDecodeLeavesElements(t *testing.T) {
	tests := []struct {
		name string
		src  []Word
		err  error
	}{
		{"short source", []Word{0x01, 0x00}, ErrEndOfInput},
		{"invalid element", []Word{0x01, 0x07, 0x00}, ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ArrayOf[Bool, N3](false, true, false)
			r := NewReader(tt.src)
			if err := a.Decode(&r); !errors.Is(err, tt.err) {
				t.Fatalf("got %v, want %v", err, tt.err)
			}
			want := []Bool{false, true, false}
			for i, v := range a.Elems() {
				if v != want[i] {
					t.Errorf("element %d changed to %v", i, v)
				}
			}
		})
	}
}

func TestArray_RepeatedDecode(t *testing.T) {
	a := NewArray[U8, N2]()
	for _, src := range [][]Word{{1, 2}, {3, 4}, {5, 6}} {
		r := NewReader(src)
		if err := a.Decode(&r); err != nil {
			t.Fatalf("decode % X: %v", src, err)
		}
		if a.At(0) != U8(src[0]) || a.At(1) != U8(src[1]) {
			t.Errorf("got %v, want % X", a.Elems(), src)
		}
	}
}

func TestArray_EncodeShortSink(t *testing.T) {
	a := ArrayOf[U32, N2](1, 2)
	w := NewWriter(make([]Word, 7))
	if err := a.Encode(&w); !errors.Is(err, ErrEndOfInput) {
		t.Errorf("got %v, want ErrEndOfInput", err)
	}
}

func TestArray_ZeroValueCarriesLength(t *testing.T) {
	var a Array[U16, N2, *U16]
	if a.Len() != 2 {
		t.Errorf("Len = %d, want 2", a.Len())
	}
	if n := a.ExactLen(); n != 4 {
		t.Errorf("ExactLen = %d, want 4", n)
	}
	if n := Len(&a); n != 4 {
		t.Errorf("zero array encodes to %d words, want 4", n)
	}

	r := NewReader([]Word{0x34, 0x12, 0xEF, 0xBE, 0x99})
	if err := a.Decode(&r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Len() != 4 {
		t.Errorf("consumed %d words, want 4", r.Len())
	}
	if a.At(0) != 0x1234 || a.At(1) != 0xBEEF {
		t.Errorf("got %v, want [0x1234 0xBEEF]", a.Elems())
	}
}

func TestArray_ZeroValueShortSource(t *testing.T) {
	var a Array[U8, N4, *U8]
	r := NewReader([]Word{1, 2, 3})
	if err := a.Decode(&r); !errors.Is(err, ErrEndOfInput) {
		t.Errorf("got %v, want ErrEndOfInput", err)
	}
}

func TestArray_OfArrays(t *testing.T) {
	type row = Array[U8, N2, *U8]
	grid := ArrayOf[row, N2](*ArrayOf[U8, N2](1, 2), *ArrayOf[U8, N2](3, 4))

	if n := grid.ExactLen(); n != 4 {
		t.Errorf("ExactLen = %d, want 4", n)
	}
	if n := ExactLenOf[Array[row, N3, *row]](); n != 6 {
		t.Errorf("ExactLenOf 3x2 = %d, want 6", n)
	}
	if err := VerifyExactLen(grid); err != nil {
		t.Error(err)
	}

	buf := make([]Word, 4)
	w := NewWriter(buf)
	if err := grid.Encode(&w); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(buf, []Word{1, 2, 3, 4}) {
		t.Errorf("got % X, want 01 02 03 04", buf)
	}

	got, err := DecodeExact[Array[row, N2, *row]](buf)
	if err != nil {
		t.Fatalf("DecodeExact: %v", err)
	}
	for i, want := range [][]U8{{1, 2}, {3, 4}} {
		inner := got.At(i)
		if !slicesEqual(inner.Elems(), want) {
			t.Errorf("row %d: got %v, want %v", i, inner.Elems(), want)
		}
	}
}

func TestArray_OfArraysFailedDecodeLeavesElements(t *testing.T) {
	type row = Array[Bool, N2, *Bool]
	grid := ArrayOf[row, N2](*ArrayOf[Bool, N2](true, false), *ArrayOf[Bool, N2](false, true))

	r := NewReader([]Word{0, 0, 1, 5})
	if err := grid.Decode(&r); !errors.Is(err, ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
	for i, want := range [][]Bool{{true, false}, {false, true}} {
		inner := grid.At(i)
		if !slicesEqual(inner.Elems(), want) {
			t.Errorf("row %d changed to %v", i, inner.Elems())
		}
	}
}

func TestArrayOf_WrongCountPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	ArrayOf[U8, N3](1, 2)
}

func slicesEqual[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
