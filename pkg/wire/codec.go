// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package wire

import "fmt"

// Encoder is implemented by values that can render themselves to a Sink.
//
// Encode writes exactly the canonical encoding of the value, consuming sink
// slots in order. It returns ErrEndOfInput as soon as the sink is exhausted.
// Words already written are not rolled back.
type Encoder interface {
	Encode(dst Sink) error
}

// Decoder is implemented by pointers to values that can be read back from a
// Source.
//
// Decode reads exactly the canonical length of the value. It returns
// ErrEndOfInput if the source runs dry and ErrInvalid if the words do not form
// a legal value. On any error the receiver is left unchanged.
type Decoder interface {
	Decode(src Source) error
}

// Codec constrains *T to be both an Encoder and a Decoder. Generic containers
// use it to decode into a T without requiring T to be an interface.
type Codec[T any] interface {
	*T
	Encoder
	Decoder
}

// Fixed is implemented by types whose encoding never exceeds a constant
// number of words. ExactLen must not depend on the receiver's contents.
type Fixed interface {
	Encoder
	ExactLen() int
}

// FixedCodec constrains *T to be a Codec with an exact length.
type FixedCodec[T any] interface {
	Codec[T]
	ExactLen() int
}

// Decode reads a T from src.
func Decode[T any, PT Codec[T]](src Source) (T, error) {
	var v T
	if err := PT(&v).Decode(src); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// ExactLenOf returns the exact encoded length of T in words.
func ExactLenOf[T any, PT FixedCodec[T]]() int {
	var v T
	return PT(&v).ExactLen()
}

// Len returns the number of words v encodes to.
func Len(v Encoder) int {
	var c Counter
	// Counter never fails, so neither can a well-behaved Encode.
	_ = v.Encode(&c)
	return c.Len()
}

// elemLen returns v's exact length if it has one and its current encoded
// length otherwise.
func elemLen(v Encoder) int {
	if f, ok := v.(Fixed); ok {
		return f.ExactLen()
	}
	return Len(v)
}

// EncodeExact renders v into the first ExactLen words of buf and returns the
// number of words written. A buf shorter than ExactLen is rejected with
// ErrEndOfInput before anything is written.
func EncodeExact(v Fixed, buf []Word) (int, error) {
	n := v.ExactLen()
	if len(buf) < n {
		return 0, ErrEndOfInput
	}
	w := NewWriter(buf[:n])
	if err := v.Encode(&w); err != nil {
		return w.Len(), err
	}
	return w.Len(), nil
}

// DecodeExact reads a T from the first ExactLen words of buf. A buf shorter
// than ExactLen is rejected with ErrEndOfInput before anything is read, so
// with a correctly sized buffer the only possible failure is ErrInvalid.
func DecodeExact[T any, PT FixedCodec[T]](buf []Word) (T, error) {
	var v T
	n := PT(&v).ExactLen()
	if len(buf) < n {
		return v, ErrEndOfInput
	}
	r := NewReader(buf[:n])
	return Decode[T, PT](&r)
}

// VerifyExactLen checks that each sample encodes within its declared exact
// length and that encoding into ExactLen-1 words fails. Types should be
// verified once, typically from a test, with samples covering their largest
// shape.
func VerifyExactLen(samples ...Fixed) error {
	for _, v := range samples {
		n := v.ExactLen()
		if got := Len(v); got > n {
			return fmt.Errorf("wire: %T encodes to %d words, exceeds ExactLen %d", v, got, n)
		}
		if n == 0 {
			continue
		}
		short := make([]Word, n-1)
		w := NewWriter(short)
		if Len(v) == n && v.Encode(&w) == nil {
			return fmt.Errorf("wire: %T fits in %d words, ExactLen %d is not exact", v, n-1, n)
		}
	}
	return nil
}
