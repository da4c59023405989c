// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ring

import "github.com/Thermoquad/stencil/pkg/wire"

// Cursor reads a snapshot of a Buffer front to back. It sees the bytes that
// were buffered when Iter was called; bytes ingested later are not visible.
// Reading never changes the buffer.
type Cursor struct {
	parent *Buffer
	count  int
	limit  int
	epoch  uint64
}

var _ wire.Source = (*Cursor)(nil)

// NextWord implements wire.Source. It returns wire.ErrEndOfInput past the end
// of the snapshot and ErrStaleMemento if the buffer was flushed since the
// cursor was created.
func (c *Cursor) NextWord() (wire.Word, error) {
	if c.parent == nil || c.count >= c.limit {
		return 0, wire.ErrEndOfInput
	}
	if c.epoch != c.parent.epoch {
		return 0, ErrStaleMemento
	}
	w := c.parent.buf[c.parent.wrap(c.parent.start+c.count)]
	c.count++
	return w, nil
}

// Len returns the number of bytes read so far.
func (c *Cursor) Len() int {
	return c.count
}

// Remaining returns the number of unread bytes in the snapshot.
func (c *Cursor) Remaining() int {
	return c.limit - c.count
}

// Capture ends the read session and records how far it got.
func (c *Cursor) Capture() Memento {
	return Memento{count: c.count, epoch: c.epoch}
}

// Memento is the opaque progress of a finished Cursor, redeemable once with
// Buffer.Flush.
type Memento struct {
	count int
	epoch uint64
}

// Count returns the number of bytes the memento will evict.
func (m Memento) Count() int {
	return m.count
}
