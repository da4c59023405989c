// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package link moves checksummed frames between a byte stream and typed
// values. It layers a resynchronising receiver and a command/response
// processor over the ring buffer and CRC envelope.
package link

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/Thermoquad/stencil/pkg/crc"
	"github.com/Thermoquad/stencil/pkg/ring"
	"github.com/Thermoquad/stencil/pkg/wire"
)

var (
	// ErrIncomplete means the buffered bytes are a prefix of a frame.
	ErrIncomplete = errors.New("link: incomplete frame")

	// ErrFrameTooLarge means the receive buffer filled up without holding a
	// complete frame.
	ErrFrameTooLarge = errors.New("link: frame exceeds receive buffer")
)

// Receiver turns inbound bytes into frames. Frames are not delimited: after
// every rejected parse the receiver drops the oldest byte and tries again from
// the next one.
type Receiver struct {
	buf    *ring.Buffer
	framer crc.Framer
	stats  *Statistics
	log    zerolog.Logger
}

// NewReceiver returns a receiver parsing frames out of buf.
func NewReceiver(buf *ring.Buffer, framer crc.Framer, log zerolog.Logger) *Receiver {
	return &Receiver{
		buf:    buf,
		framer: framer,
		stats:  NewStatistics(),
		log:    log,
	}
}

// Stats returns the receiver's statistics.
func (r *Receiver) Stats() *Statistics {
	return r.stats
}

// Buffered returns the number of bytes waiting to be parsed.
func (r *Receiver) Buffered() int {
	return r.buf.Len()
}

// Capacity returns the receive buffer capacity.
func (r *Receiver) Capacity() int {
	return r.buf.Cap()
}

// Ingest buffers as much of p as fits and returns the number of bytes taken.
func (r *Receiver) Ingest(p []byte) int {
	n, _ := r.buf.Write(p)
	r.stats.BytesReceived += uint64(n)
	return n
}

// TryParse attempts to read one frame from the front of the buffer.
//
// On success the frame's bytes are evicted and nil is returned. ErrIncomplete
// leaves the buffer untouched so the attempt can be repeated once more bytes
// arrive. Any other error means the front of the buffer could not start a
// frame; its first byte has been discarded.
//
// decode is called speculatively and may run many times for the same bytes.
// Callers must only act on what it decoded when TryParse returns nil.
func (r *Receiver) TryParse(decode func(wire.Source) error) error {
	if r.buf.IsEmpty() {
		return ErrIncomplete
	}

	cursor := r.buf.Iter()
	err := r.framer.Construct(&cursor, decode)
	switch {
	case err == nil:
		if err := r.buf.Flush(cursor.Capture()); err != nil {
			return err
		}
		r.stats.Update(nil)
		return nil
	case errors.Is(err, wire.ErrEndOfInput):
		if !r.buf.IsFull() {
			return ErrIncomplete
		}
		err = ErrFrameTooLarge
	}

	r.buf.Discard(1)
	r.stats.BytesDiscarded++
	r.stats.Update(err)
	r.log.Debug().Err(err).Int("len", r.buf.Len()).Msg("discarded byte")
	return err
}

// Pump buffers p and parses every frame it completes. decode is passed to
// TryParse; onFrame runs after each successful parse. Pump returns once all of
// p has been buffered and no further frame can be parsed.
func (r *Receiver) Pump(p []byte, decode func(wire.Source) error, onFrame func()) {
	for {
		n := r.Ingest(p)
		p = p[n:]
		for {
			err := r.TryParse(decode)
			if errors.Is(err, ErrIncomplete) {
				break
			}
			if err == nil {
				onFrame()
			}
		}
		if len(p) == 0 {
			return
		}
	}
}
