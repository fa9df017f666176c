// Package tml provides a self-describing binary serialization format and
// its streaming codec: a frame/slot document model, a tagged Cell variant
// carrying any of the format's scalar/text/byte-array/temporal kinds, a
// stateful Writer, an incremental pull Reader, and a flat Record view for
// callers that want random access instead of a token loop.
//
// # Basic usage
//
// Writing a small document:
//
//	var buf bytes.Buffer
//	w, _ := writer.New(&buf)
//	w.StartFrameAscii("person")
//	w.WriteSlotAscii(cell.NewText(cell.String, "Ada"), "name", false)
//	w.WriteSlotAscii(cell.NewInt32(36), "age", false)
//	w.EndFrame()
//	w.Close()
//
// Reading it back:
//
//	r := reader.New(&buf)
//	for {
//	    tok, err := r.Next()
//	    if err != nil || tok == reader.Pending {
//	        break
//	    }
//	    switch tok {
//	    case reader.BeginFrame:
//	        fmt.Println("frame", r.Name().ToString(false))
//	    case reader.Slot:
//	        fmt.Println("slot", r.Name().ToString(false), "=", r.Value().ToString(false))
//	    }
//	}
//
// # Package structure
//
// This file is a thin convenience layer over the package structure: cell
// (the Cell variant and kind table), writer and reader (the stateful
// streaming halves), record (the flat materializer), nametag and timeslot
// (small value types a Cell can carry), vbyte and endian (the wire integer
// and byte-order primitives), and entity (HTML entity resolution used by
// Cell's text coercions). Advanced callers use those packages directly.
package tml

import (
	"io"

	"github.com/tmlformat/tml/cell"
	"github.com/tmlformat/tml/reader"
	"github.com/tmlformat/tml/record"
	"github.com/tmlformat/tml/writer"
)

// MimeType is the MIME media type historically associated with this wire
// format.
const MimeType = "application/x-bml"

// NewWriter creates a Writer that emits tokens to out.
func NewWriter(out io.Writer, opts ...writer.Option) (*writer.Writer, error) {
	return writer.New(out, opts...)
}

// NewReader creates a Reader that pulls tokens from src.
func NewReader(src io.Reader, opts ...reader.Option) *reader.Reader {
	return reader.New(src, opts...)
}

// NewReaderFromBytes creates a Reader over an in-memory document.
func NewReaderFromBytes(b []byte, opts ...reader.Option) *reader.Reader {
	return reader.FromBytes(b, opts...)
}

// NewRecord materializes a Bml cell's top-level slots into a Record.
func NewRecord(doc cell.Cell) (*record.Record, error) {
	return record.New(doc)
}
