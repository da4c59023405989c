// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package schema

import (
	"errors"
	"fmt"
	"math"

	"github.com/Thermoquad/stencil/pkg/wire"
)

// ErrValue is wrapped by Encode when a value does not fit its type.
var ErrValue = errors.New("schema: value does not match type")

// Runtime values mirror the wire layout without generated code:
//
//	u8..u64  uint64
//	i8..i64  int64
//	f32 f64  float64
//	bool     bool
//	marker   Marker
//	[N]T     []any of length N
//	record   *Record
//	union    *Union

// Marker is the runtime value of a marker field.
type Marker struct{}

// Record is a record value with one entry per field, in declaration order.
type Record struct {
	Type   *Type
	Values []any
}

// Union is a union value. Values holds the active variant's fields.
type Union struct {
	Type    *Type
	Variant *Variant
	Values  []any
}

// Decode reads a value of type t from src.
func (t *Type) Decode(src wire.Source) (any, error) {
	switch t.Kind {
	case KindRecord:
		values, err := decodeFields(src, t.Fields)
		if err != nil {
			return nil, err
		}
		return &Record{Type: t, Values: values}, nil
	case KindUnion:
		tag, err := readUnsigned(src, t.tagWidth)
		if err != nil {
			return nil, err
		}
		v, ok := t.byTag[tag]
		if !ok {
			return nil, wire.ErrInvalid
		}
		values, err := decodeFields(src, v.Fields)
		if err != nil {
			return nil, err
		}
		return &Union{Type: t, Variant: v, Values: values}, nil
	default:
		return nil, wire.ErrInvalid
	}
}

func decodeFields(src wire.Source, fields []*Field) ([]any, error) {
	values := make([]any, len(fields))
	for i, f := range fields {
		v, err := decodeRef(src, f.ref)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func decodeRef(src wire.Source, r *Ref) (any, error) {
	switch r.Kind {
	case RefPrimitive:
		return readPrimitive(src, r.Prim)
	case RefMarker:
		return Marker{}, nil
	case RefArray:
		elems := make([]any, r.Len)
		for i := range elems {
			v, err := decodeRef(src, r.Elem)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return elems, nil
	case RefNamed:
		return r.Named.Decode(src)
	default:
		return nil, wire.ErrInvalid
	}
}

func readUnsigned(src wire.Source, p Primitive) (uint64, error) {
	switch p {
	case U8:
		v, err := wire.ReadUint8(src)
		return uint64(v), err
	case U16:
		v, err := wire.ReadUint16(src)
		return uint64(v), err
	case U32:
		v, err := wire.ReadUint32(src)
		return uint64(v), err
	case U64:
		return wire.ReadUint64(src)
	default:
		return 0, wire.ErrInvalid
	}
}

func readPrimitive(src wire.Source, p Primitive) (any, error) {
	switch {
	case p.Unsigned():
		v, err := readUnsigned(src, p)
		if err != nil {
			return nil, err
		}
		return v, nil
	case p.Signed():
		u, err := readUnsigned(src, p-I8+U8)
		if err != nil {
			return nil, err
		}
		return signExtend(u, p.Bits()), nil
	case p == F32:
		v, err := wire.ReadFloat32(src)
		if err != nil {
			return nil, err
		}
		return float64(v), nil
	case p == F64:
		v, err := wire.ReadFloat64(src)
		if err != nil {
			return nil, err
		}
		return v, nil
	case p == Bool:
		v, err := wire.ReadBool(src)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, wire.ErrInvalid
	}
}

func signExtend(u uint64, bits int) int64 {
	shift := 64 - bits
	return int64(u<<shift) >> shift
}

// Encode writes v, which must be a *Record or *Union of type t.
func (t *Type) Encode(dst wire.Sink, v any) error {
	switch val := v.(type) {
	case *Record:
		if t.Kind != KindRecord || val.Type != t {
			return fmt.Errorf("%w: %s is not a %s record", ErrValue, t.Name, typeOf(val.Type))
		}
		return encodeFields(dst, t.Fields, val.Values)
	case *Union:
		if t.Kind != KindUnion || val.Type != t {
			return fmt.Errorf("%w: %s is not a %s union", ErrValue, t.Name, typeOf(val.Type))
		}
		if val.Variant == nil || t.byTag[val.Variant.tag] != val.Variant {
			return wire.ErrInvalid
		}
		if err := writeUnsigned(dst, t.tagWidth, val.Variant.tag); err != nil {
			return err
		}
		return encodeFields(dst, val.Variant.Fields, val.Values)
	default:
		return fmt.Errorf("%w: %s needs a record or union value, got %T", ErrValue, t.Name, v)
	}
}

func typeOf(t *Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

func encodeFields(dst wire.Sink, fields []*Field, values []any) error {
	if len(values) != len(fields) {
		return fmt.Errorf("%w: %d values for %d fields", ErrValue, len(values), len(fields))
	}
	for i, f := range fields {
		if err := encodeRef(dst, f.ref, values[i]); err != nil {
			return err
		}
	}
	return nil
}

func encodeRef(dst wire.Sink, r *Ref, v any) error {
	switch r.Kind {
	case RefPrimitive:
		return writePrimitive(dst, r.Prim, v)
	case RefMarker:
		return nil
	case RefArray:
		elems, ok := v.([]any)
		if !ok || len(elems) != r.Len {
			return fmt.Errorf("%w: %s needs %d elements", ErrValue, r, r.Len)
		}
		for _, e := range elems {
			if err := encodeRef(dst, r.Elem, e); err != nil {
				return err
			}
		}
		return nil
	case RefNamed:
		return r.Named.Encode(dst, v)
	default:
		return wire.ErrInvalid
	}
}

func writeUnsigned(dst wire.Sink, p Primitive, v uint64) error {
	if v > maxUnsigned(p) {
		return fmt.Errorf("%w: %d overflows %s", ErrValue, v, p)
	}
	switch p {
	case U8:
		return wire.PutUint8(dst, uint8(v))
	case U16:
		return wire.PutUint16(dst, uint16(v))
	case U32:
		return wire.PutUint32(dst, uint32(v))
	default:
		return wire.PutUint64(dst, v)
	}
}

func writePrimitive(dst wire.Sink, p Primitive, v any) error {
	switch {
	case p.Unsigned():
		u, ok := v.(uint64)
		if !ok {
			return fmt.Errorf("%w: %s needs uint64, got %T", ErrValue, p, v)
		}
		return writeUnsigned(dst, p, u)
	case p.Signed():
		i, ok := v.(int64)
		if !ok {
			return fmt.Errorf("%w: %s needs int64, got %T", ErrValue, p, v)
		}
		bits := p.Bits()
		if bits < 64 && (i < -(1<<(bits-1)) || i >= 1<<(bits-1)) {
			return fmt.Errorf("%w: %d overflows %s", ErrValue, i, p)
		}
		return writeUnsigned(dst, p-I8+U8, uint64(i)&maxUnsigned(p-I8+U8))
	case p.Float():
		f, ok := v.(float64)
		if !ok {
			return fmt.Errorf("%w: %s needs float64, got %T", ErrValue, p, v)
		}
		if p == F32 {
			if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
				return fmt.Errorf("%w: %g overflows f32", ErrValue, f)
			}
			return wire.PutFloat32(dst, float32(f))
		}
		return wire.PutFloat64(dst, f)
	case p == Bool:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: bool needs bool, got %T", ErrValue, v)
		}
		return wire.PutBool(dst, b)
	default:
		return wire.ErrInvalid
	}
}

// Instance binds a runtime value to its type so it can be used wherever a
// wire.Encoder or wire.Decoder is expected.
type Instance struct {
	Type  *Type
	Value any
}

// Encode implements wire.Encoder.
func (in *Instance) Encode(dst wire.Sink) error {
	return in.Type.Encode(dst, in.Value)
}

// Decode implements wire.Decoder. Value is only replaced on success.
func (in *Instance) Decode(src wire.Source) error {
	v, err := in.Type.Decode(src)
	if err != nil {
		return err
	}
	in.Value = v
	return nil
}

// ExactLen implements wire.Fixed.
func (in *Instance) ExactLen() int {
	return in.Type.ExactLen()
}
