// Package writer implements the stateful, streaming Writer half of the tml
// codec: StartFrame/EndFrame/WriteSlot calls that emit one well-formed
// frame-name/slot-name/value sequence at a time onto an io.Writer.
package writer

import (
	"fmt"
	"io"

	"github.com/tmlformat/tml/cell"
	"github.com/tmlformat/tml/errs"
	"github.com/tmlformat/tml/internal/pool"
	"github.com/tmlformat/tml/nametag"
	"github.com/tmlformat/tml/vbyte"
)

// Writer emits tml tokens to an underlying io.Writer, tracking nesting
// level and the implicit per-stream ASCII string table used to intern
// repeated frame/slot names.
type Writer struct {
	out     io.Writer
	owned   io.Closer
	scratch *pool.ByteBuffer

	level int
	cells int
	nulls int

	names map[string]uint32
}

// New creates a Writer that emits tokens to out. By default the Writer
// treats out as borrowed: Close releases only the Writer's own pooled
// buffer. Pass WithOwnedSink to have Close also close out.
func New(out io.Writer, opts ...Option) (*Writer, error) {
	if out == nil {
		return nil, fmt.Errorf("writer: New: %w", errs.ErrInvalidDevice)
	}

	w := &Writer{
		out:     out,
		scratch: pool.Get(),
		names:   make(map[string]uint32),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Close releases the Writer's pooled scratch buffer and, if WithOwnedSink
// was given, closes the underlying sink.
func (w *Writer) Close() error {
	if w.scratch != nil {
		pool.Put(w.scratch)
		w.scratch = nil
	}

	if w.owned != nil {
		closer := w.owned
		w.owned = nil

		return closer.Close()
	}

	return nil
}

// Level returns the current frame nesting depth.
func (w *Writer) Level() int { return w.level }

// CellCount returns the number of top-level (level-0) slots written so far.
func (w *Writer) CellCount() int { return w.cells }

// NullCount returns the number of top-level slots written with a Null
// value.
func (w *Writer) NullCount() int { return w.nulls }

// flush writes the scratch buffer's contents to out in one call and resets
// it for reuse.
func (w *Writer) flush() error {
	_, err := w.out.Write(w.scratch.Bytes())
	w.scratch.Reset()
	if err != nil {
		return fmt.Errorf("writer: flush: %w: %w", err, errs.ErrDeviceAccess)
	}

	return nil
}

func (w *Writer) begin() { w.level++ }

// StartFrame opens an unnamed frame.
func (w *Writer) StartFrame() error {
	w.scratch.MustWrite([]byte{byte(cell.FrameStart)})
	w.begin()

	return w.flush()
}

// StartFrameAtom opens a frame named by a plain 4-byte atom id. An id of 0
// is treated as unnamed.
func (w *Writer) StartFrameAtom(id uint32) error {
	if id == 0 {
		return w.StartFrame()
	}

	w.scratch.MustWrite([]byte{byte(cell.FrameStart)})
	w.begin()
	w.scratch.MustWrite([]byte{byte(cell.FrameName)})
	b, err := cell.Write(w.scratch.Bytes(), cell.NewAtom(id), true, false)
	if err != nil {
		return err
	}
	w.scratch.B = b

	return w.flush()
}

// StartFrameTag opens a frame named by a 4-byte NameTag.
func (w *Writer) StartFrameTag(name nametag.NameTag) error {
	if name.IsNull() {
		return w.StartFrame()
	}

	w.scratch.MustWrite([]byte{byte(cell.FrameStart)})
	w.begin()
	w.scratch.MustWrite([]byte{byte(cell.FrameNameTag)})
	w.scratch.MustWrite(name.Tag[:])

	return w.flush()
}

// StartFrameAscii opens a frame named by an ASCII string, using the
// implicit string table: the first occurrence of name in this stream is
// written literally (FrameNameStr); subsequent occurrences are written as
// an index into the table (FrameNameIdx). The index assigned to a new name
// is the table's size *before* this name is added.
func (w *Writer) StartFrameAscii(name string) error {
	if name == "" {
		return w.StartFrame()
	}

	w.scratch.MustWrite([]byte{byte(cell.FrameStart)})
	w.begin()
	w.writeName(name, cell.FrameNameStr, cell.FrameNameIdx)

	return w.flush()
}

// EndFrame closes the innermost open frame. Calling it with no frame open
// is a silent no-op, matching the format's historical tolerance for
// unbalanced EndFrame calls from hand-written streams.
func (w *Writer) EndFrame() error {
	if w.level == 0 {
		return nil
	}
	w.level--
	w.scratch.MustWrite([]byte{byte(cell.FrameEnd)})

	return w.flush()
}

// WriteSlot writes an unnamed slot. If v is Invalid, the call is a silent
// no-op.
func (w *Writer) WriteSlot(v cell.Cell, compress bool) error {
	if !v.IsValid() {
		return nil
	}

	return w.writeSlotValue(v, compress)
}

// WriteSlotAtom writes a slot named by a plain 4-byte atom id.
func (w *Writer) WriteSlotAtom(v cell.Cell, name uint32, compress bool) error {
	if !v.IsValid() {
		return nil
	}
	if name == 0 {
		return w.writeSlotValue(v, compress)
	}

	w.scratch.MustWrite([]byte{byte(cell.SlotName)})
	b, err := cell.Write(w.scratch.Bytes(), cell.NewAtom(name), true, false)
	if err != nil {
		return err
	}
	w.scratch.B = b

	return w.writeSlotValue(v, compress)
}

// WriteSlotTag writes a slot named by a 4-byte NameTag.
func (w *Writer) WriteSlotTag(v cell.Cell, name nametag.NameTag, compress bool) error {
	if !v.IsValid() {
		return nil
	}
	if name.IsNull() {
		return w.writeSlotValue(v, compress)
	}

	w.scratch.MustWrite([]byte{byte(cell.SlotNameTag)})
	w.scratch.MustWrite(name.Tag[:])

	return w.writeSlotValue(v, compress)
}

// WriteSlotAscii writes a slot named by an ASCII string, using the same
// literal-then-index interning policy as StartFrameAscii.
func (w *Writer) WriteSlotAscii(v cell.Cell, name string, compress bool) error {
	if !v.IsValid() {
		return nil
	}
	if name == "" {
		return w.writeSlotValue(v, compress)
	}

	w.writeName(name, cell.SlotNameStr, cell.SlotNameIdx)

	return w.writeSlotValue(v, compress)
}

// writeSlotValue appends v's wire encoding to whatever name prefix the
// caller already staged in the scratch buffer, then flushes and updates the
// top-level counters.
func (w *Writer) writeSlotValue(v cell.Cell, compress bool) error {
	b, err := cell.Write(w.scratch.Bytes(), v, false, compress)
	if err != nil {
		return fmt.Errorf("writer: write slot value: %w", err)
	}
	w.scratch.B = b

	if err := w.flush(); err != nil {
		return err
	}

	if w.level == 0 {
		w.cells++
		if v.IsNull() {
			w.nulls++
		}
	}

	return nil
}

// writeName implements the shared literal-then-index string table policy
// used by both frame names and slot names. A literal name is written as
// the wire-only *Str pseudo-kind followed by a vbyte-32 length (counting
// the trailing NUL) and the name bytes plus NUL; an interned repeat is
// written as the *Idx pseudo-kind followed by a vbyte-32 table index.
func (w *Writer) writeName(name string, literalKind, idxKind cell.Kind) {
	if idx, ok := w.names[name]; ok {
		w.scratch.MustWrite([]byte{byte(idxKind)})
		w.scratch.B = vbyte.EncodeUint32(w.scratch.B, idx)

		return
	}

	// Index assigned is the table's size *before* insertion: this is load-
	// bearing for compatibility with how earlier codec generations numbered
	// interned names, and must not be left to accidentally fall out of
	// whatever a map's size happens to be after the insert below.
	idx := uint32(len(w.names))
	w.names[name] = idx

	w.scratch.MustWrite([]byte{byte(literalKind)})
	payload := append([]byte(name), 0)
	w.scratch.B = vbyte.EncodeUint32(w.scratch.B, uint32(len(payload)))
	w.scratch.MustWrite(payload)
}
