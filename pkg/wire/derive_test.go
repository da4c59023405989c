// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package wire_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Thermoquad/stencil/pkg/wire"
)

// The types below are written the way stencil gen renders records and unions,
// so these tests pin down the layout generated code depends on.

type Pair struct {
	A uint8
	B int16
}

const PairExactLen = 3

func (v *Pair) Encode(dst wire.Sink) error {
	if err := wire.PutUint8(dst, v.A); err != nil {
		return err
	}
	return wire.PutInt16(dst, v.B)
}

func (v *Pair) Decode(src wire.Source) error {
	var out Pair
	var err error
	if out.A, err = wire.ReadUint8(src); err != nil {
		return err
	}
	if out.B, err = wire.ReadInt16(src); err != nil {
		return err
	}
	*v = out
	return nil
}

func (Pair) ExactLen() int { return PairExactLen }

// Spaced is a tuple-shaped record with a zero-sized field in the middle.
type Spaced struct {
	V0 uint8
	V1 wire.Marker
	V2 int16
}

const SpacedExactLen = 3

func (v *Spaced) Encode(dst wire.Sink) error {
	if err := wire.PutUint8(dst, v.V0); err != nil {
		return err
	}
	if err := v.V1.Encode(dst); err != nil {
		return err
	}
	return wire.PutInt16(dst, v.V2)
}

func (v *Spaced) Decode(src wire.Source) error {
	var out Spaced
	var err error
	if out.V0, err = wire.ReadUint8(src); err != nil {
		return err
	}
	if err = out.V1.Decode(src); err != nil {
		return err
	}
	if out.V2, err = wire.ReadInt16(src); err != nil {
		return err
	}
	*v = out
	return nil
}

func (Spaced) ExactLen() int { return SpacedExactLen }

// FooTag identifies the active variant of Foo.
type FooTag uint8

const (
	FooTagA FooTag = 0x00
	FooTagB FooTag = 0xDE
	FooTagC FooTag = 0xDF
	FooTagD FooTag = 0xBE
)

const FooExactLen = 4

type Foo struct {
	Tag FooTag
	B   FooB
	D   FooD
}

type FooB struct {
	V0 uint8
	V1 int16
}

const FooBExactLen = 3

func (v *FooB) Encode(dst wire.Sink) error {
	if err := wire.PutUint8(dst, v.V0); err != nil {
		return err
	}
	return wire.PutInt16(dst, v.V1)
}

func (v *FooB) Decode(src wire.Source) error {
	var out FooB
	var err error
	if out.V0, err = wire.ReadUint8(src); err != nil {
		return err
	}
	if out.V1, err = wire.ReadInt16(src); err != nil {
		return err
	}
	*v = out
	return nil
}

func (FooB) ExactLen() int { return FooBExactLen }

type FooD struct {
	Bar uint16
	T   int8
}

const FooDExactLen = 3

func (v *FooD) Encode(dst wire.Sink) error {
	if err := wire.PutUint16(dst, v.Bar); err != nil {
		return err
	}
	return wire.PutInt8(dst, v.T)
}

func (v *FooD) Decode(src wire.Source) error {
	var out FooD
	var err error
	if out.Bar, err = wire.ReadUint16(src); err != nil {
		return err
	}
	if out.T, err = wire.ReadInt8(src); err != nil {
		return err
	}
	*v = out
	return nil
}

func (FooD) ExactLen() int { return FooDExactLen }

func (v *Foo) Encode(dst wire.Sink) error {
	switch v.Tag {
	case FooTagA, FooTagC:
		return wire.PutUint8(dst, uint8(v.Tag))
	case FooTagB:
		if err := wire.PutUint8(dst, uint8(v.Tag)); err != nil {
			return err
		}
		return v.B.Encode(dst)
	case FooTagD:
		if err := wire.PutUint8(dst, uint8(v.Tag)); err != nil {
			return err
		}
		return v.D.Encode(dst)
	default:
		return wire.ErrInvalid
	}
}

func (v *Foo) Decode(src wire.Source) error {
	raw, err := wire.ReadUint8(src)
	if err != nil {
		return err
	}
	out := Foo{Tag: FooTag(raw)}
	switch out.Tag {
	case FooTagA, FooTagC:
	case FooTagB:
		if err := out.B.Decode(src); err != nil {
			return err
		}
	case FooTagD:
		if err := out.D.Decode(src); err != nil {
			return err
		}
	default:
		return wire.ErrInvalid
	}
	*v = out
	return nil
}

func (Foo) ExactLen() int { return FooExactLen }

// ============================================================
// Record Tests
// ============================================================

func TestRecord_RoundTrip(t *testing.T) {
	buf := make([]wire.Word, wire.ExactLenOf[Pair]())
	if len(buf) != 3 {
		t.Fatalf("ExactLen = %d, want 3", len(buf))
	}

	in := Pair{A: 0xAA, B: -1}
	if _, err := wire.EncodeExact(&in, buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(buf, []wire.Word{0xAA, 0xFF, 0xFF}) {
		t.Errorf("got % X, want AA FF FF", buf)
	}

	out, err := wire.DecodeExact[Pair](buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestRecord_MarkerField(t *testing.T) {
	in := Spaced{V0: 0xAA, V2: -1}
	if n := wire.ExactLenOf[Spaced](); n != 3 {
		t.Errorf("ExactLen = %d, want 3", n)
	}
	buf := make([]wire.Word, 3)
	if _, err := wire.EncodeExact(&in, buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := wire.DecodeExact[Spaced](buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

// ============================================================
// Tagged Union Tests
// ============================================================

func TestUnion_Tags(t *testing.T) {
	tests := []struct {
		tag      FooTag
		expected uint8
	}{
		{FooTagA, 0x00},
		{FooTagB, 0xDE},
		{FooTagC, 0xDF},
		{FooTagD, 0xBE},
	}
	for _, tt := range tests {
		if uint8(tt.tag) != tt.expected {
			t.Errorf("tag 0x%02X, want 0x%02X", uint8(tt.tag), tt.expected)
		}
	}
}

func TestUnion_VariantLayout(t *testing.T) {
	if n := wire.ExactLenOf[Foo](); n != 4 {
		t.Fatalf("ExactLen = %d, want 4", n)
	}

	in := Foo{Tag: FooTagD, D: FooD{Bar: 0xAA, T: -1}}
	buf := make([]wire.Word, 4)
	if _, err := wire.EncodeExact(&in, buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	expected := []wire.Word{0xBE, 0xAA, 0x00, 0xFF}
	if !bytes.Equal(buf, expected) {
		t.Errorf("got % X, want % X", buf, expected)
	}

	out, err := wire.DecodeExact[Foo](buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestUnion_RoundTripEveryVariant(t *testing.T) {
	variants := []Foo{
		{Tag: FooTagA},
		{Tag: FooTagB, B: FooB{V0: 0x7F, V1: -32768}},
		{Tag: FooTagC},
		{Tag: FooTagD, D: FooD{Bar: 0xFFFF, T: 127}},
	}
	for _, in := range variants {
		buf := make([]wire.Word, FooExactLen)
		if _, err := wire.EncodeExact(&in, buf); err != nil {
			t.Fatalf("encode tag 0x%02X: %v", uint8(in.Tag), err)
		}
		out, err := wire.DecodeExact[Foo](buf)
		if err != nil {
			t.Fatalf("decode tag 0x%02X: %v", uint8(in.Tag), err)
		}
		if out != in {
			t.Errorf("got %+v, want %+v", out, in)
		}
	}
}

func TestUnion_UnknownTag(t *testing.T) {
	known := map[uint8]bool{0x00: true, 0xDE: true, 0xDF: true, 0xBE: true}
	for tag := 0; tag <= 0xFF; tag++ {
		if known[uint8(tag)] {
			continue
		}
		buf := []wire.Word{wire.Word(tag), 0, 0, 0}
		if _, err := wire.DecodeExact[Foo](buf); !errors.Is(err, wire.ErrInvalid) {
			t.Fatalf("tag 0x%02X: got %v, want ErrInvalid", tag, err)
		}
	}
}

func TestUnion_TruncatedVariant(t *testing.T) {
	r := wire.NewReader([]wire.Word{0xDE, 0x01})
	v := Foo{Tag: FooTagC}
	if err := v.Decode(&r); !errors.Is(err, wire.ErrEndOfInput) {
		t.Fatalf("got %v, want ErrEndOfInput", err)
	}
	if v.Tag != FooTagC {
		t.Errorf("partially decoded union exposed: %+v", v)
	}
}

func TestDerived_ExactSizing(t *testing.T) {
	samples := []wire.Fixed{
		&Pair{A: 1, B: 2},
		&Spaced{},
		&Foo{Tag: FooTagB},
		&Foo{Tag: FooTagD},
		&Foo{Tag: FooTagA},
	}
	if err := wire.VerifyExactLen(samples...); err != nil {
		t.Fatal(err)
	}

	worst := Foo{Tag: FooTagB}
	short := wire.NewWriter(make([]wire.Word, FooExactLen-1))
	if err := worst.Encode(&short); !errors.Is(err, wire.ErrEndOfInput) {
		t.Errorf("encode into ExactLen-1: got %v, want ErrEndOfInput", err)
	}
}
