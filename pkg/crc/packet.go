// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package crc

import "github.com/Thermoquad/stencil/pkg/wire"

// Render encodes payload into dst followed by its digest.
//
// Errors from the payload or digest encoders (ErrEndOfInput for a short sink)
// are returned unchanged. Words written before the failure stay written.
func Render[D comparable, PD wire.Codec[D]](dst wire.Sink, payload wire.Encoder, p Provider[D]) error {
	tap := sinkTap[D]{dst: dst, p: p}
	err := payload.Encode(&tap)
	digest := p.Finalize()
	if err != nil {
		return err
	}
	return PD(&digest).Encode(dst)
}

// RenderExact renders a fixed-size payload and its fixed-size digest into the
// front of buf and returns the number of words written. A buf shorter than
// ExactLen is rejected before anything is written.
func RenderExact[D comparable, PD wire.FixedCodec[D]](buf []wire.Word, payload wire.Fixed, p Provider[D]) (int, error) {
	n := ExactLen[D, PD](payload)
	if len(buf) < n {
		return 0, wire.ErrEndOfInput
	}
	w := wire.NewWriter(buf[:n])
	if err := Render[D, PD](&w, payload, p); err != nil {
		return w.Len(), err
	}
	return w.Len(), nil
}

// Construct decodes a P from src and checks the trailing digest.
//
// Payload and digest decode errors (ErrEndOfInput, ErrInvalid) propagate
// unchanged. A digest that does not match yields ErrMismatch. The payload is
// only returned when every check passed.
func Construct[P any, D comparable, PP wire.Codec[P], PD wire.Codec[D]](src wire.Source, p Provider[D]) (P, error) {
	var payload P
	if err := ConstructFunc[D, PD](src, p, PP(&payload).Decode); err != nil {
		var zero P
		return zero, err
	}
	return payload, nil
}

// ConstructFunc is Construct for payloads that are not a static Go type. decode
// reads the payload from the tapped source; its result must be discarded by the
// caller if ConstructFunc fails.
func ConstructFunc[D comparable, PD wire.Codec[D]](src wire.Source, p Provider[D], decode func(wire.Source) error) error {
	tap := sourceTap[D]{src: src, p: p}
	err := decode(&tap)
	computed := p.Finalize()
	if err != nil {
		return err
	}

	var read D
	if err := PD(&read).Decode(src); err != nil {
		return err
	}
	if read != computed {
		return ErrMismatch
	}
	return nil
}

// Len returns the number of words payload occupies once wrapped.
func Len[D comparable, PD wire.Codec[D]](payload wire.Encoder) int {
	var digest D
	return wire.Len(payload) + wire.Len(PD(&digest))
}

// ExactLen returns the worst-case frame length for a fixed-size payload.
func ExactLen[D comparable, PD wire.FixedCodec[D]](payload wire.Fixed) int {
	return payload.ExactLen() + wire.ExactLenOf[D, PD]()
}
