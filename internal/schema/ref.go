// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Primitive is a built-in scalar type.
type Primitive int

const (
	InvalidPrimitive Primitive = iota
	U8
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	F32
	F64
	Bool
)

const markerName = "marker"

var primitiveNames = map[string]Primitive{
	"u8":   U8,
	"u16":  U16,
	"u32":  U32,
	"u64":  U64,
	"i8":   I8,
	"i16":  I16,
	"i32":  I32,
	"i64":  I64,
	"f32":  F32,
	"f64":  F64,
	"bool": Bool,
}

func (p Primitive) String() string {
	for name, q := range primitiveNames {
		if q == p {
			return name
		}
	}
	return "invalid"
}

// Width returns the encoded size in words.
func (p Primitive) Width() int {
	switch p {
	case U8, I8, Bool:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64, F64:
		return 8
	default:
		return 0
	}
}

// Bits returns the width in bits.
func (p Primitive) Bits() int {
	return p.Width() * 8
}

// Unsigned reports whether p is an unsigned integer.
func (p Primitive) Unsigned() bool {
	return p >= U8 && p <= U64
}

// Signed reports whether p is a signed integer.
func (p Primitive) Signed() bool {
	return p >= I8 && p <= I64
}

// Float reports whether p is a floating point type.
func (p Primitive) Float() bool {
	return p == F32 || p == F64
}

// GoType returns the Go type p maps to.
func (p Primitive) GoType() string {
	switch p {
	case U8:
		return "uint8"
	case U16:
		return "uint16"
	case U32:
		return "uint32"
	case U64:
		return "uint64"
	case I8:
		return "int8"
	case I16:
		return "int16"
	case I32:
		return "int32"
	case I64:
		return "int64"
	case F32:
		return "float32"
	case F64:
		return "float64"
	case Bool:
		return "bool"
	default:
		return ""
	}
}

// RefKind classifies a field type.
type RefKind int

const (
	RefPrimitive RefKind = iota
	RefMarker
	RefArray
	RefNamed
)

// Ref is a resolved field type.
type Ref struct {
	Kind  RefKind
	Prim  Primitive
	Len   int
	Elem  *Ref
	Named *Type
}

func (r *Ref) String() string {
	switch r.Kind {
	case RefPrimitive:
		return r.Prim.String()
	case RefMarker:
		return markerName
	case RefArray:
		return fmt.Sprintf("[%d]%s", r.Len, r.Elem)
	case RefNamed:
		return r.Named.Name
	default:
		return "?"
	}
}

// ParseRef resolves a field type expression: a primitive name, "marker",
// "[N]T", or the name of a declared type.
func ParseRef(s string, lookup func(string) (*Type, bool)) (*Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("missing type")
	}
	if strings.HasPrefix(s, "[") {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, fmt.Errorf("type %q: unterminated array length", s)
		}
		n, err := strconv.Atoi(s[1:end])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("type %q: invalid array length", s)
		}
		elem, err := ParseRef(s[end+1:], lookup)
		if err != nil {
			return nil, err
		}
		return &Ref{Kind: RefArray, Len: n, Elem: elem}, nil
	}
	if s == markerName {
		return &Ref{Kind: RefMarker}, nil
	}
	if p, ok := primitiveNames[s]; ok {
		return &Ref{Kind: RefPrimitive, Prim: p}, nil
	}
	if t, ok := lookup(s); ok {
		return &Ref{Kind: RefNamed, Named: t}, nil
	}
	return nil, fmt.Errorf("unknown type %q", s)
}
