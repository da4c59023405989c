// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package crc

import "github.com/Thermoquad/stencil/pkg/wire"

// Framer binds a provider to its digest type so that transports can wrap and
// check frames without knowing which checksum is in use.
type Framer interface {
	Render(dst wire.Sink, payload wire.Encoder) error
	Construct(src wire.Source, decode func(wire.Source) error) error

	// DigestLen returns the number of words the digest occupies.
	DigestLen() int

	// Name returns the checksum name, as used in configuration.
	Name() string
}

type framer[D comparable, PD wire.FixedCodec[D]] struct {
	name string
	p    Provider[D]
}

// NewFramer returns a Framer that checksums frames with p. The framer owns p
// from then on.
func NewFramer[D comparable, PD wire.FixedCodec[D]](name string, p Provider[D]) Framer {
	return &framer[D, PD]{name: name, p: p}
}

func (f *framer[D, PD]) Render(dst wire.Sink, payload wire.Encoder) error {
	return Render[D, PD](dst, payload, f.p)
}

func (f *framer[D, PD]) Construct(src wire.Source, decode func(wire.Source) error) error {
	return ConstructFunc[D, PD](src, f.p, decode)
}

func (f *framer[D, PD]) DigestLen() int {
	return wire.ExactLenOf[D, PD]()
}

func (f *framer[D, PD]) Name() string {
	return f.name
}

// Checksum names, as used in configuration.
const (
	NameCCITT  = "ccitt"
	NameBlake3 = "blake3"
)

// NewCCITTFramer returns a Framer using CRC-16-CCITT.
func NewCCITTFramer() Framer {
	return NewFramer[wire.U16](NameCCITT, &CCITT{})
}

// NewBlake3Framer returns a Framer using keyed BLAKE3.
func NewBlake3Framer(key []byte) (Framer, error) {
	b, err := NewBlake3(key)
	if err != nil {
		return nil, err
	}
	return NewFramer[wire.U64](NameBlake3, b), nil
}
