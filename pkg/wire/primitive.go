// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package wire

import (
	"encoding/binary"
	"math"
)

// Primitive widths in words.
const (
	Width8  = 1
	Width16 = 2
	Width32 = 4
	Width64 = 8
)

// Bool encodings.
const (
	False Word = 0x00
	True  Word = 0x01
)

func putWords(dst Sink, b []byte) error {
	for _, w := range b {
		if err := dst.PutWord(w); err != nil {
			return err
		}
	}
	return nil
}

func readWords(src Source, b []byte) error {
	for i := range b {
		w, err := src.NextWord()
		if err != nil {
			return err
		}
		b[i] = w
	}
	return nil
}

// PutUint8 writes v as one word.
func PutUint8(dst Sink, v uint8) error {
	return dst.PutWord(v)
}

// PutUint16 writes v as two little-endian words.
func PutUint16(dst Sink, v uint16) error {
	var b [Width16]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return putWords(dst, b[:])
}

// PutUint32 writes v as four little-endian words.
func PutUint32(dst Sink, v uint32) error {
	var b [Width32]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return putWords(dst, b[:])
}

// PutUint64 writes v as eight little-endian words.
func PutUint64(dst Sink, v uint64) error {
	var b [Width64]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return putWords(dst, b[:])
}

func PutInt8(dst Sink, v int8) error       { return PutUint8(dst, uint8(v)) }
func PutInt16(dst Sink, v int16) error     { return PutUint16(dst, uint16(v)) }
func PutInt32(dst Sink, v int32) error     { return PutUint32(dst, uint32(v)) }
func PutInt64(dst Sink, v int64) error     { return PutUint64(dst, uint64(v)) }
func PutFloat32(dst Sink, v float32) error { return PutUint32(dst, math.Float32bits(v)) }
func PutFloat64(dst Sink, v float64) error { return PutUint64(dst, math.Float64bits(v)) }

// PutBool writes v as a single 0x00 or 0x01 word.
func PutBool(dst Sink, v bool) error {
	if v {
		return dst.PutWord(True)
	}
	return dst.PutWord(False)
}

// ReadUint8 reads one word.
func ReadUint8(src Source) (uint8, error) {
	return src.NextWord()
}

// ReadUint16 reads two little-endian words.
func ReadUint16(src Source) (uint16, error) {
	var b [Width16]byte
	if err := readWords(src, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// ReadUint32 reads four little-endian words.
func ReadUint32(src Source) (uint32, error) {
	var b [Width32]byte
	if err := readWords(src, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// ReadUint64 reads eight little-endian words.
func ReadUint64(src Source) (uint64, error) {
	var b [Width64]byte
	if err := readWords(src, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func ReadInt8(src Source) (int8, error) {
	v, err := ReadUint8(src)
	return int8(v), err
}

func ReadInt16(src Source) (int16, error) {
	v, err := ReadUint16(src)
	return int16(v), err
}

func ReadInt32(src Source) (int32, error) {
	v, err := ReadUint32(src)
	return int32(v), err
}

func ReadInt64(src Source) (int64, error) {
	v, err := ReadUint64(src)
	return int64(v), err
}

func ReadFloat32(src Source) (float32, error) {
	v, err := ReadUint32(src)
	return math.Float32frombits(v), err
}

func ReadFloat64(src Source) (float64, error) {
	v, err := ReadUint64(src)
	return math.Float64frombits(v), err
}

// ReadBool reads one word and rejects anything other than 0x00 or 0x01 with
// ErrInvalid.
func ReadBool(src Source) (bool, error) {
	w, err := src.NextWord()
	if err != nil {
		return false, err
	}
	switch w {
	case False:
		return false, nil
	case True:
		return true, nil
	default:
		return false, ErrInvalid
	}
}

// U8 is a uint8 on the wire.
type U8 uint8

func (v U8) Encode(dst Sink) error { return PutUint8(dst, uint8(v)) }
func (U8) ExactLen() int           { return Width8 }

func (v *U8) Decode(src Source) error {
	x, err := ReadUint8(src)
	if err != nil {
		return err
	}
	*v = U8(x)
	return nil
}

// U16 is a uint16 on the wire.
type U16 uint16

func (v U16) Encode(dst Sink) error { return PutUint16(dst, uint16(v)) }
func (U16) ExactLen() int           { return Width16 }

func (v *U16) Decode(src Source) error {
	x, err := ReadUint16(src)
	if err != nil {
		return err
	}
	*v = U16(x)
	return nil
}

// U32 is a uint32 on the wire.
type U32 uint32

func (v U32) Encode(dst Sink) error { return PutUint32(dst, uint32(v)) }
func (U32) ExactLen() int           { return Width32 }

func (v *U32) Decode(src Source) error {
	x, err := ReadUint32(src)
	if err != nil {
		return err
	}
	*v = U32(x)
	return nil
}

// U64 is a uint64 on the wire.
type U64 uint64

func (v U64) Encode(dst Sink) error { return PutUint64(dst, uint64(v)) }
func (U64) ExactLen() int           { return Width64 }

func (v *U64) Decode(src Source) error {
	x, err := ReadUint64(src)
	if err != nil {
		return err
	}
	*v = U64(x)
	return nil
}

// I8 is an int8 on the wire.
type I8 int8

func (v I8) Encode(dst Sink) error { return PutInt8(dst, int8(v)) }
func (I8) ExactLen() int           { return Width8 }

func (v *I8) Decode(src Source) error {
	x, err := ReadInt8(src)
	if err != nil {
		return err
	}
	*v = I8(x)
	return nil
}

// I16 is an int16 on the wire.
type I16 int16

func (v I16) Encode(dst Sink) error { return PutInt16(dst, int16(v)) }
func (I16) ExactLen() int           { return Width16 }

func (v *I16) Decode(src Source) error {
	x, err := ReadInt16(src)
	if err != nil {
		return err
	}
	*v = I16(x)
	return nil
}

// I32 is an int32 on the wire.
type I32 int32

func (v I32) Encode(dst Sink) error { return PutInt32(dst, int32(v)) }
func (I32) ExactLen() int           { return Width32 }

func (v *I32) Decode(src Source) error {
	x, err := ReadInt32(src)
	if err != nil {
		return err
	}
	*v = I32(x)
	return nil
}

// I64 is an int64 on the wire.
type I64 int64

func (v I64) Encode(dst Sink) error { return PutInt64(dst, int64(v)) }
func (I64) ExactLen() int           { return Width64 }

func (v *I64) Decode(src Source) error {
	x, err := ReadInt64(src)
	if err != nil {
		return err
	}
	*v = I64(x)
	return nil
}

// F32 is a float32 on the wire.
type F32 float32

func (v F32) Encode(dst Sink) error { return PutFloat32(dst, float32(v)) }
func (F32) ExactLen() int           { return Width32 }

func (v *F32) Decode(src Source) error {
	x, err := ReadFloat32(src)
	if err != nil {
		return err
	}
	*v = F32(x)
	return nil
}

// F64 is a float64 on the wire.
type F64 float64

func (v F64) Encode(dst Sink) error { return PutFloat64(dst, float64(v)) }
func (F64) ExactLen() int           { return Width64 }

func (v *F64) Decode(src Source) error {
	x, err := ReadFloat64(src)
	if err != nil {
		return err
	}
	*v = F64(x)
	return nil
}

// Bool is a bool on the wire.
type Bool bool

func (v Bool) Encode(dst Sink) error { return PutBool(dst, bool(v)) }
func (Bool) ExactLen() int           { return Width8 }

func (v *Bool) Decode(src Source) error {
	x, err := ReadBool(src)
	if err != nil {
		return err
	}
	*v = Bool(x)
	return nil
}

// Marker is a zero-sized value. It encodes to nothing and always decodes.
type Marker struct{}

func (Marker) Encode(Sink) error    { return nil }
func (*Marker) Decode(Source) error { return nil }
func (Marker) ExactLen() int        { return 0 }
