// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package crc

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/Thermoquad/stencil/pkg/wire"
)

// Blake3KeySize is the required key length for NewBlake3.
const Blake3KeySize = 32

// Blake3 is a keyed BLAKE3 accumulator truncated to a 64-bit digest. Unlike
// CCITT it authenticates frames against a shared key, not just line noise.
type Blake3 struct {
	hasher  *blake3.Hasher
	scratch [1]byte
	sum     [32]byte
}

var _ Provider[wire.U64] = (*Blake3)(nil)

// NewBlake3 returns an accumulator keyed with key, which must be
// Blake3KeySize bytes.
func NewBlake3(key []byte) (*Blake3, error) {
	if len(key) != Blake3KeySize {
		return nil, fmt.Errorf("blake3 key is %d bytes, want %d", len(key), Blake3KeySize)
	}
	hasher, err := blake3.NewKeyed(key)
	if err != nil {
		return nil, fmt.Errorf("blake3 keyed hasher: %w", err)
	}
	return &Blake3{hasher: hasher}, nil
}

// Update implements Provider.
func (b *Blake3) Update(w wire.Word) {
	b.scratch[0] = w
	b.hasher.Write(b.scratch[:])
}

// Finalize implements Provider. Reset keeps the key.
func (b *Blake3) Finalize() wire.U64 {
	sum := b.hasher.Sum(b.sum[:0])
	b.hasher.Reset()
	return wire.U64(binary.LittleEndian.Uint64(sum[:8]))
}
