// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package wire implements the fixed-width wire format used between controllers
// and appliances.
//
// Values are rendered word by word into a caller-owned Sink and read back word
// by word from a Source. Nothing in this package allocates on the encode or
// decode path, apart from the one-time storage of a zero Array, and malformed
// input is always reported as an error, never a panic.
//
// The mapping from Go types to the wire is:
//
//	         Go | wire
//	------------+-----------------------------------------
//	  U8,  I8   | 1 word
//	  U16, I16  | 2 words, little-endian
//	  U32, I32  | 4 words, little-endian
//	  F32       | 4 words, IEEE-754 bits, little-endian
//	  U64, I64  | 8 words, little-endian
//	  F64       | 8 words, IEEE-754 bits, little-endian
//	  Bool      | 1 word, 0x00 or 0x01 (anything else is ErrInvalid)
//	  Marker    | nothing
//	  Array     | N elements in order, no length prefix
//	  TupleN    | elements in declaration order
//
// Records and tagged unions are not described here at runtime: stencil gen
// emits Encode, Decode and ExactLen methods for them from a schema, built on
// the Put*/Read* helpers in this package.
package wire
