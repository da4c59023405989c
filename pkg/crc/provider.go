// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package crc wraps wire payloads in a trailing integrity digest.
//
// A frame is the payload's canonical encoding followed immediately by the
// digest's canonical encoding. The digest covers the payload words only. The
// payload is streamed through the accumulator while it is encoded or decoded,
// so its bytes are never buffered twice.
package crc

import (
	"errors"

	"github.com/Thermoquad/stencil/pkg/wire"
)

// ErrMismatch is returned by Construct when the payload decodes cleanly but the
// trailing digest does not match the one computed over it.
var ErrMismatch = errors.New("crc: checksum mismatch")

// Provider accumulates a checksum one word at a time.
//
// Finalize returns the digest of every word seen since the last Finalize and
// returns the accumulator to its initial state. Render and Construct finalize
// exactly once per call, including on failure, so one provider can be reused
// frame after frame.
type Provider[D comparable] interface {
	Update(w wire.Word)
	Finalize() D
}

// sinkTap forwards words to dst and feeds each word that was actually stored
// to the provider.
type sinkTap[D comparable] struct {
	dst wire.Sink
	p   Provider[D]
}

func (t *sinkTap[D]) PutWord(w wire.Word) error {
	if err := t.dst.PutWord(w); err != nil {
		return err
	}
	t.p.Update(w)
	return nil
}

// sourceTap feeds every word read from src to the provider.
type sourceTap[D comparable] struct {
	src wire.Source
	p   Provider[D]
}

func (t *sourceTap[D]) NextWord() (wire.Word, error) {
	w, err := t.src.NextWord()
	if err != nil {
		return 0, err
	}
	t.p.Update(w)
	return w, nil
}
