// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package ring implements a fixed-capacity circular ingestion buffer with
// two-phase consumption.
//
// Bytes arrive with Ingest or Write. A parser reads them through a Cursor,
// which never modifies the buffer. Once a decode succeeds the caller captures
// the cursor's progress as a Memento and hands it to Flush, which evicts
// exactly the bytes that were read. A cursor that is dropped instead leaves
// every byte in place for the next attempt.
//
// A Buffer has no internal locking and must be owned by a single goroutine.
package ring

import "errors"

var (
	// ErrOverflow is returned when ingesting would exceed the capacity.
	ErrOverflow = errors.New("ring: overflow")

	// ErrStaleMemento is returned by Flush for a memento that was captured
	// before the most recent eviction, or that claims more bytes than the
	// buffer holds. Cursors created before an eviction report it as well.
	ErrStaleMemento = errors.New("ring: stale memento")
)

// Buffer is a circular byte store of fixed capacity.
type Buffer struct {
	buf   []byte
	start int
	size  int

	// epoch counts evictions. Cursors and mementos remember the epoch they
	// were created in.
	epoch uint64
}

// New returns an empty buffer holding at most capacity bytes. It panics if
// capacity is not positive.
func New(capacity int) *Buffer {
	if capacity < 1 {
		panic("ring: capacity must be positive")
	}
	return &Buffer{buf: make([]byte, capacity)}
}

// Cap returns the capacity.
func (b *Buffer) Cap() int {
	return len(b.buf)
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return b.size
}

// Free returns the number of bytes that can be ingested before overflow.
func (b *Buffer) Free() int {
	return len(b.buf) - b.size
}

// IsEmpty reports whether the buffer holds no bytes.
func (b *Buffer) IsEmpty() bool {
	return b.size == 0
}

// IsFull reports whether the buffer is at capacity.
func (b *Buffer) IsFull() bool {
	return b.size == len(b.buf)
}

func (b *Buffer) wrap(i int) int {
	return i % len(b.buf)
}

// Write appends as much of p as fits and returns the number of bytes
// appended. If p does not fit entirely, the leading n bytes stay appended and
// ErrOverflow is returned.
func (b *Buffer) Write(p []byte) (int, error) {
	n := min(len(p), b.Free())
	end := b.wrap(b.start + b.size)
	copied := copy(b.buf[end:], p[:n])
	copy(b.buf, p[copied:n])
	b.size += n
	if n < len(p) {
		return n, ErrOverflow
	}
	return n, nil
}

// Ingest appends p. It is not atomic: on ErrOverflow the buffer has already
// taken every byte that fit, so callers must treat a failed Ingest as having
// consumed an unspecified prefix of p.
func (b *Buffer) Ingest(p []byte) error {
	_, err := b.Write(p)
	return err
}

// Iter returns a cursor over the current contents, oldest first.
func (b *Buffer) Iter() Cursor {
	return Cursor{parent: b, limit: b.size, epoch: b.epoch}
}

// Flush evicts the bytes visited by the cursor m was captured from.
//
// A memento may be redeemed once, and only against the buffer state it was
// captured in. Anything else returns ErrStaleMemento and leaves the buffer
// untouched.
func (b *Buffer) Flush(m Memento) error {
	if m.epoch != b.epoch || m.count > b.size {
		return ErrStaleMemento
	}
	b.evict(m.count)
	return nil
}

// Discard evicts up to n of the oldest bytes and returns how many were
// evicted. Outstanding cursors and mementos become stale.
func (b *Buffer) Discard(n int) int {
	n = max(0, min(n, b.size))
	b.evict(n)
	return n
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.evict(b.size)
	b.start = 0
}

func (b *Buffer) evict(n int) {
	b.start = b.wrap(b.start + n)
	b.size -= n
	b.epoch++
}

// AppendTo appends the buffered bytes, oldest first, to dst.
func (b *Buffer) AppendTo(dst []byte) []byte {
	end := b.start + b.size
	if end <= len(b.buf) {
		return append(dst, b.buf[b.start:end]...)
	}
	dst = append(dst, b.buf[b.start:]...)
	return append(dst, b.buf[:b.wrap(end)]...)
}
