// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package wire

import "fmt"

// Length fixes the element count of an Array at the type level, so that a
// zero Array still knows how many elements it encodes. Len must return the
// same non-negative value for every value of the type.
//
// N1 through N16, N32 and N64 cover common sizes. Other sizes need a one-line
// type of their own:
//
//	type n24 struct{}
//
//	func (n24) Len() int { return 24 }
type Length interface {
	Len() int
}

// Common array lengths
type (
	N1  struct{}
	N2  struct{}
	N3  struct{}
	N4  struct{}
	N5  struct{}
	N6  struct{}
	N7  struct{}
	N8  struct{}
	N9  struct{}
	N10 struct{}
	N11 struct{}
	N12 struct{}
	N13 struct{}
	N14 struct{}
	N15 struct{}
	N16 struct{}
	N32 struct{}
	N64 struct{}
)

func (N1) Len() int  { return 1 }
func (N2) Len() int  { return 2 }
func (N3) Len() int  { return 3 }
func (N4) Len() int  { return 4 }
func (N5) Len() int  { return 5 }
func (N6) Len() int  { return 6 }
func (N7) Len() int  { return 7 }
func (N8) Len() int  { return 8 }
func (N9) Len() int  { return 9 }
func (N10) Len() int { return 10 }
func (N11) Len() int { return 11 }
func (N12) Len() int { return 12 }
func (N13) Len() int { return 13 }
func (N14) Len() int { return 14 }
func (N15) Len() int { return 15 }
func (N16) Len() int { return 16 }
func (N32) Len() int { return 32 }
func (N64) Len() int { return 64 }

func lengthOf[N Length]() int {
	var n N
	return n.Len()
}

// slots is a run of possibly-unset elements written strictly left to right.
// Only a fully written run may be committed.
type slots[T any] struct {
	buf []T
	set int
}

func (s *slots[T]) next() *T {
	return &s.buf[s.set]
}

func (s *slots[T]) mark() {
	s.set++
}

func (s *slots[T]) full() bool {
	return s.set == len(s.buf)
}

// Array is a fixed-length sequence of N.Len() elements encoded back to back
// with no length prefix. Both sides of the link know N from the type.
//
// Decoding stages elements in a second backing slice of the same length and
// swaps it in only after every element has been read, so a failed decode
// leaves the visible elements untouched. The zero Array holds N zero elements;
// its storage is allocated once, on first use, and reused afterwards.
type Array[T any, N Length, PT Codec[T]] struct {
	elems   []T
	staging []T
}

// NewArray returns an array of N zero elements with its storage in place.
func NewArray[T any, N Length, PT Codec[T]]() *Array[T, N, PT] {
	a := &Array[T, N, PT]{}
	a.init()
	return a
}

// ArrayOf returns an array holding a copy of elems. It panics if len(elems)
// is not N.
func ArrayOf[T any, N Length, PT Codec[T]](elems ...T) *Array[T, N, PT] {
	if n := lengthOf[N](); len(elems) != n {
		panic(fmt.Sprintf("wire: ArrayOf got %d elements, want %d", len(elems), n))
	}
	a := NewArray[T, N, PT]()
	copy(a.elems, elems)
	return a
}

func (a *Array[T, N, PT]) init() {
	if a.elems != nil {
		return
	}
	n := lengthOf[N]()
	backing := make([]T, 2*n)
	a.elems = backing[:n:n]
	a.staging = backing[n:]
}

// Len returns N.
func (a *Array[T, N, PT]) Len() int {
	return lengthOf[N]()
}

// At returns element i.
func (a *Array[T, N, PT]) At(i int) T {
	a.init()
	return a.elems[i]
}

// Set replaces element i.
func (a *Array[T, N, PT]) Set(i int, v T) {
	a.init()
	a.elems[i] = v
}

// Elems returns the elements. The slice aliases the array until the next
// successful Decode.
func (a *Array[T, N, PT]) Elems() []T {
	a.init()
	return a.elems
}

// ExactLen returns N times the element length.
func (a *Array[T, N, PT]) ExactLen() int {
	var zero T
	return lengthOf[N]() * elemLen(PT(&zero))
}

// Encode writes every element in order.
func (a *Array[T, N, PT]) Encode(dst Sink) error {
	a.init()
	for i := range a.elems {
		if err := PT(&a.elems[i]).Encode(dst); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads exactly N elements.
func (a *Array[T, N, PT]) Decode(src Source) error {
	a.init()
	s := slots[T]{buf: a.staging}
	for !s.full() {
		if err := PT(s.next()).Decode(src); err != nil {
			return err
		}
		s.mark()
	}
	a.elems, a.staging = s.buf, a.elems
	return nil
}
