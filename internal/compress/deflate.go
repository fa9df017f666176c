// Package compress implements the tml compression envelope: a 4-byte
// big-endian original-length prefix followed by a raw DEFLATE stream. This
// envelope is a fixed wire contract, not a pluggable codec choice; the cell
// package applies it only to kinds and payload sizes the format designates
// as compressible.
package compress

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"

	"github.com/tmlformat/tml/errs"
)

// Threshold is the payload length, in bytes, at or below which a payload
// is never compressed even if the caller requests it: the 4-byte length
// envelope plus DEFLATE framing overhead would not pay for itself.
const Threshold = 127

// flateWriterPool and flateReaderPool reuse klauspost/compress/flate
// encoders and decoders the same way a warmed-up codec avoids per-call
// allocation: see compress/zstd_pure.go's pooled-encoder idiom in the
// example this module studied.
var flateWriterPool = sync.Pool{
	New: func() any {
		w, err := flate.NewWriter(io.Discard, flate.DefaultCompression)
		if err != nil {
			panic(fmt.Sprintf("compress: failed to create flate writer: %v", err))
		}

		return w
	},
}

var flateReaderPool = sync.Pool{
	New: func() any {
		return flate.NewReader(nil)
	},
}

// Encode compresses data and returns the envelope: a 4-byte big-endian
// original length followed by the raw DEFLATE stream.
func Encode(data []byte) ([]byte, error) {
	fw, _ := flateWriterPool.Get().(*flate.Writer)
	defer flateWriterPool.Put(fw)

	var buf buffer
	buf.grow(len(data)/2 + 4)
	buf.writeUint32(uint32(len(data)))

	fw.Reset(&buf)
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("compress: deflate write: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("compress: deflate close: %w", err)
	}

	return buf.b, nil
}

// Decode reverses Encode: it reads the 4-byte original-length prefix, then
// inflates exactly that many bytes from the remainder. It fails if the stream
// yields fewer bytes; any inflated data beyond that length is not read.
func Decode(envelope []byte) ([]byte, error) {
	if len(envelope) < 4 {
		return nil, fmt.Errorf("compress: envelope too short: %w", errs.ErrWrongDataFormat)
	}

	originalLen := binary.BigEndian.Uint32(envelope[:4])

	type resetter interface {
		Reset(io.Reader, []byte) error
	}

	fr, _ := flateReaderPool.Get().(io.ReadCloser)
	defer flateReaderPool.Put(fr)

	src := byteReader{b: envelope[4:]}
	if r, ok := fr.(resetter); ok {
		if err := r.Reset(&src, nil); err != nil {
			return nil, fmt.Errorf("compress: deflate reset: %w: %w", err, errs.ErrWrongDataFormat)
		}
	}

	out := make([]byte, originalLen)
	if _, err := io.ReadFull(fr, out); err != nil {
		return nil, fmt.Errorf("compress: deflate read: %w: %w", err, errs.ErrWrongDataFormat)
	}

	return out, nil
}

// buffer is a minimal growable byte sink; compress avoids importing the
// pool package to keep this leaf dependency-free of the cell/writer layer
// above it.
type buffer struct{ b []byte }

func (buf *buffer) grow(n int) {
	if cap(buf.b)-len(buf.b) < n {
		nb := make([]byte, len(buf.b), len(buf.b)+n)
		copy(nb, buf.b)
		buf.b = nb
	}
}

func (buf *buffer) Write(p []byte) (int, error) {
	buf.b = append(buf.b, p...)
	return len(p), nil
}

func (buf *buffer) writeUint32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	buf.b = append(buf.b, tmp[:]...)
}

type byteReader struct {
	b   []byte
	pos int
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n

	return n, nil
}
