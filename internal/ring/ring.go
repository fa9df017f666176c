// Package ring implements a small peek-then-consume staging buffer over an
// arbitrary io.Reader.
//
// The tml pull reader needs to look at a kind byte and (for some kinds) the
// vbyte length that follows it before deciding how many bytes make up the
// next token, then either consume those bytes or leave them untouched for a
// caller that only wanted to peek. A plain io.Reader offers neither; Reader
// here stages bytes read off the source so they can be inspected multiple
// times before being discarded.
package ring

import (
	"io"

	"github.com/tmlformat/tml/errs"
)

// minCapacity is large enough to stage one full cell header: a 1-byte kind
// plus a maximum-length vbyte-64 (9 bytes).
const minCapacity = 10

// Reader stages bytes from src in an internal buffer so that Peek can look
// ahead without consuming, and Discard/Read can later consume exactly what
// was inspected.
type Reader struct {
	src   io.Reader
	buf   []byte
	start int // buf[start:end] is the unconsumed, staged window
	end   int
}

// New wraps src with a staging buffer sized for header peeks.
func New(src io.Reader) *Reader {
	return NewSize(src, minCapacity)
}

// NewSize wraps src with a staging buffer of at least the given capacity.
func NewSize(src io.Reader, capacity int) *Reader {
	if capacity < minCapacity {
		capacity = minCapacity
	}

	return &Reader{
		src: src,
		buf: make([]byte, capacity),
	}
}

// buffered returns the staged, unconsumed window.
func (r *Reader) buffered() []byte {
	return r.buf[r.start:r.end]
}

// fill ensures at least n bytes are staged, growing the buffer and reading
// from src as needed. It returns io.EOF (or io.ErrUnexpectedEOF if some but
// not all of n was available) when src is exhausted first.
func (r *Reader) fill(n int) error {
	if r.end-r.start >= n {
		return nil
	}

	// Compact: slide the unconsumed window down to the front.
	if r.start > 0 {
		copy(r.buf, r.buffered())
		r.end -= r.start
		r.start = 0
	}

	if n > len(r.buf) {
		grown := make([]byte, n)
		copy(grown, r.buf[:r.end])
		r.buf = grown
	}

	for r.end < n {
		m, err := r.src.Read(r.buf[r.end:n])
		r.end += m
		if err != nil {
			if r.end >= n {
				return nil
			}
			if err == io.EOF && r.end > 0 {
				return io.ErrUnexpectedEOF
			}

			return err
		}
		if m == 0 {
			return io.ErrNoProgress
		}
	}

	return nil
}

// Peek returns the next n bytes without consuming them. The returned slice
// is only valid until the next call to Peek, ReadFull, ReadByte, or Discard.
func (r *Reader) Peek(n int) ([]byte, error) {
	if err := r.fill(n); err != nil {
		return nil, err
	}

	return r.buf[r.start : r.start+n], nil
}

// Discard consumes n bytes that have already been staged, typically via a
// prior Peek. It panics if n exceeds what is currently staged; callers must
// Peek at least n bytes first.
func (r *Reader) Discard(n int) {
	if n > r.end-r.start {
		panic("ring: Discard: n exceeds staged bytes")
	}
	r.start += n
}

// ReadFull reads exactly len(p) bytes, consuming staged bytes first and then
// reading directly from src for the remainder. It returns io.ErrUnexpectedEOF
// if src is exhausted early.
func (r *Reader) ReadFull(p []byte) error {
	n := copy(p, r.buffered())
	r.start += n
	if n == len(p) {
		return nil
	}

	read, err := io.ReadFull(r.src, p[n:])
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			if n+read > 0 {
				return io.ErrUnexpectedEOF
			}

			return io.EOF
		}

		return err
	}

	return nil
}

// ReadByte consumes and returns a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.fill(1); err != nil {
		return 0, err
	}
	b := r.buf[r.start]
	r.start++

	return b, nil
}

// ErrShortRead is the same value as errs.ErrDeviceAccess. No function in
// this package returns it.
var ErrShortRead = errs.ErrDeviceAccess
