// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package wire

// Word is the atomic transport unit. All wire lengths are counted in words.
type Word = byte

// Sink receives encoded words in order.
type Sink interface {
	// PutWord stores w in the next slot. It returns ErrEndOfInput once the
	// sink is exhausted.
	PutWord(w Word) error
}

// Source yields encoded words in order.
type Source interface {
	// NextWord returns the next word. It returns ErrEndOfInput once the
	// source is exhausted.
	NextWord() (Word, error)
}

// Medium is a fixed-length contiguous run of words with forward access.
type Medium interface {
	Size() int
	Iter() Reader
	IterMut() Writer
}

// Slice adapts any word slice to Medium. Its size is its length.
type Slice []Word

// Size returns the number of words in the medium.
func (s Slice) Size() int {
	return len(s)
}

// Iter returns a read cursor positioned at the first word.
func (s Slice) Iter() Reader {
	return Reader{buf: s}
}

// IterMut returns a write cursor positioned at the first word.
func (s Slice) IterMut() Writer {
	return Writer{buf: s}
}

// Writer fills a word slice front to back. The zero value is an exhausted
// writer.
type Writer struct {
	buf []Word
	pos int
}

// NewWriter returns a Writer over buf.
func NewWriter(buf []Word) Writer {
	return Writer{buf: buf}
}

// PutWord implements Sink.
func (w *Writer) PutWord(v Word) error {
	if w.pos >= len(w.buf) {
		return ErrEndOfInput
	}
	w.buf[w.pos] = v
	w.pos++
	return nil
}

// Len returns the number of words written so far.
func (w *Writer) Len() int {
	return w.pos
}

// Remaining returns the number of free slots left.
func (w *Writer) Remaining() int {
	return len(w.buf) - w.pos
}

// Bytes returns the written prefix of the underlying slice.
func (w *Writer) Bytes() []Word {
	return w.buf[:w.pos]
}

// Rest returns a Writer over the unwritten remainder.
func (w *Writer) Rest() Writer {
	return Writer{buf: w.buf[w.pos:]}
}

// Reader consumes a word slice front to back. The zero value is an empty
// reader.
type Reader struct {
	buf []Word
	pos int
}

// NewReader returns a Reader over buf.
func NewReader(buf []Word) Reader {
	return Reader{buf: buf}
}

// NextWord implements Source.
func (r *Reader) NextWord() (Word, error) {
	if r.pos >= len(r.buf) {
		return 0, ErrEndOfInput
	}
	w := r.buf[r.pos]
	r.pos++
	return w, nil
}

// Len returns the number of words consumed so far.
func (r *Reader) Len() int {
	return r.pos
}

// Remaining returns the number of unread words.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// Counter is a Sink that discards words and counts them. It never fails.
type Counter struct {
	n int
}

// PutWord implements Sink.
func (c *Counter) PutWord(Word) error {
	c.n++
	return nil
}

// Len returns the number of words counted.
func (c *Counter) Len() int {
	return c.n
}
