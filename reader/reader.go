// Package reader implements the pull-token Reader half of the tml codec: a
// Next/Value loop that walks a frame/slot stream one token at a time.
//
// The format's predecessor modeled this as an explicit non-blocking state
// machine (Idle/FrameNamePending/SlotPeekPending/SlotValuePending) so a
// caller feeding bytes off a non-blocking socket could call fetchNext
// repeatedly and get Pending back until more bytes arrived. Go's io.Reader
// contract is synchronous - Read blocks until data or an error - so this
// Reader resolves a whole token per Next call; Pending survives only as the
// value Next returns at a clean token boundary when the source is
// exhausted, not as an intermediate state a caller must pump.
package reader

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tmlformat/tml/cell"
	"github.com/tmlformat/tml/errs"
	"github.com/tmlformat/tml/internal/pool"
	"github.com/tmlformat/tml/internal/ring"
)

// Token classifies what Next produced.
type Token int

const (
	// Pending means no further token is available right now: the source is
	// exhausted at a clean token boundary.
	Pending Token = iota
	BeginFrame
	EndFrame
	Slot
)

// IsUseful reports whether t represents an actual token, as opposed to
// Pending.
func (t Token) IsUseful() bool { return t != Pending }

func (t Token) String() string {
	switch t {
	case Pending:
		return "Pending"
	case BeginFrame:
		return "BeginFrame"
	case EndFrame:
		return "EndFrame"
	case Slot:
		return "Slot"
	default:
		return "Unknown"
	}
}

// Reader pulls tokens from an io.Reader, tracking nesting level and the
// implicit per-stream ASCII string table used to resolve interned
// frame/slot names.
type Reader struct {
	src   *ring.Reader
	owned io.Closer
	level int

	lastToken Token
	name      cell.Cell
	value     cell.Cell

	names      []string
	namesFree  func()
	peekedTok  Token
	peekedName cell.Cell
	peekedVal  cell.Cell
	havePeek   bool
}

// New wraps src as a token Reader. By default the Reader treats src as
// borrowed: Close releases only the Reader's own pooled string table. Pass
// WithOwnedSource to have Close also close src.
func New(src io.Reader, opts ...Option) *Reader {
	names, free := pool.GetStringSlice(8)

	r := &Reader{
		src:       ring.New(src),
		lastToken: Pending,
		names:     names,
		namesFree: free,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// FromBytes wraps an in-memory buffer as a token Reader.
func FromBytes(b []byte, opts ...Option) *Reader {
	return New(&byteReader{b: b}, opts...)
}

// Close releases the Reader's pooled string-table slice and, if
// WithOwnedSource was given, closes the underlying source.
func (r *Reader) Close() error {
	if r.namesFree != nil {
		r.namesFree()
		r.namesFree = nil
	}

	if r.owned != nil {
		closer := r.owned
		r.owned = nil

		return closer.Close()
	}

	return nil
}

// Level returns the current frame nesting depth.
func (r *Reader) Level() int { return r.level }

// Name returns the name cell (canonical Atom/Ascii/Tag) associated
// with the most recently produced BeginFrame or Slot token. It is the zero,
// Null-kind Cell for an unnamed frame or slot.
func (r *Reader) Name() cell.Cell { return r.name }

// Value returns the value cell associated with the most recently produced
// Slot token.
func (r *Reader) Value() cell.Cell { return r.value }

// Peek reports what Next would return without consuming the token.
// Calling Peek more than once in a row, or calling Next after Peek, returns
// the same staged token.
func (r *Reader) Peek() (Token, error) {
	if r.havePeek {
		return r.peekedTok, nil
	}

	tok, err := r.fetchNext()
	if err != nil {
		return Pending, err
	}
	r.havePeek = true
	r.peekedTok = tok
	r.peekedName = r.name
	r.peekedVal = r.value

	return tok, nil
}

// Next advances to and returns the next token.
func (r *Reader) Next() (Token, error) {
	if r.havePeek {
		r.havePeek = false
		r.name = r.peekedName
		r.value = r.peekedVal

		return r.peekedTok, nil
	}

	return r.fetchNext()
}

func (r *Reader) fetchNext() (Token, error) {
	typeByte, err := r.src.Peek(1)
	if err != nil {
		if errors.Is(err, io.EOF) {
			r.lastToken = Pending

			return Pending, nil
		}

		return Pending, fmt.Errorf("reader: fetchNext: %w: %w", err, errs.ErrDeviceAccess)
	}

	k := cell.Kind(typeByte[0] & cell.KindMask)

	switch {
	case k == cell.FrameStart:
		r.src.Discard(1)

		return r.fetchFrameStart()
	case k == cell.FrameEnd:
		r.src.Discard(1)
		r.level--
		r.lastToken = EndFrame

		return EndFrame, nil
	case isSlotNameKind(k):
		name, err := r.readNameToken()
		if err != nil {
			return Pending, err
		}
		r.name = name

		return r.fetchSlotValue()
	default:
		r.name = cell.Cell{}

		return r.fetchSlotValue()
	}
}

func (r *Reader) fetchFrameStart() (Token, error) {
	r.level++

	typeByte, err := r.src.Peek(1)
	if err != nil {
		if errors.Is(err, io.EOF) {
			// A frame opened with nothing else in the stream: treat the
			// frame as unnamed and let the caller observe EOF on the next
			// Next call.
			r.name = cell.Cell{}
			r.lastToken = BeginFrame

			return BeginFrame, nil
		}

		return Pending, fmt.Errorf("reader: fetchFrameStart: %w: %w", err, errs.ErrDeviceAccess)
	}

	k := cell.Kind(typeByte[0] & cell.KindMask)
	if !isFrameNameKind(k) {
		r.name = cell.Cell{}
		r.lastToken = BeginFrame

		return BeginFrame, nil
	}

	name, err := r.readNameToken()
	if err != nil {
		return Pending, err
	}
	r.name = name
	r.lastToken = BeginFrame

	return BeginFrame, nil
}

// readNameToken reads one frame/slot name token, resolving a *Str literal
// into the string table (appending it) and a *Idx index by looking it back
// up, yielding a canonical Atom/Ascii/Tag cell either way.
func (r *Reader) readNameToken() (cell.Cell, error) {
	h, err := r.peekHeader()
	if err != nil {
		return cell.Cell{}, err
	}

	full, err := r.src.Peek(h.TotalLen())
	if err != nil {
		return cell.Cell{}, fmt.Errorf("reader: readNameToken: %w", errs.ErrWrongDataFormat)
	}

	wireKind := h.Kind
	c, n, err := cell.Read(full)
	if err != nil {
		return cell.Cell{}, err
	}
	r.src.Discard(n)

	switch wireKind {
	case cell.FrameNameStr, cell.SlotNameStr:
		r.names = append(r.names, c.Text())
	case cell.FrameNameIdx, cell.SlotNameIdx:
		// An out-of-range index resolves to the empty name rather than an
		// error: the stream stays readable even when the table is shorter
		// than the index claims (e.g. a stream resumed mid-way).
		resolved := ""
		if idx := c.Id32(); int(idx) < len(r.names) {
			resolved = r.names[idx]
		}
		c = cell.NewText(cell.Ascii, resolved)
	}

	return c, nil
}

func (r *Reader) fetchSlotValue() (Token, error) {
	h, err := r.peekHeader()
	if err != nil {
		return Pending, err
	}

	full, err := r.src.Peek(h.TotalLen())
	if err != nil {
		return Pending, fmt.Errorf("reader: fetchSlotValue: %w", errs.ErrWrongDataFormat)
	}

	v, n, err := cell.Read(full)
	if err != nil {
		return Pending, err
	}
	r.src.Discard(n)
	r.value = v
	r.lastToken = Slot

	return Slot, nil
}

// peekHeader grows a peek window until cell.Peek can resolve a full header,
// or the underlying source runs out mid-header.
func (r *Reader) peekHeader() (cell.Header, error) {
	for n := 1; n <= cell.MaxHeaderLen(); n++ {
		buf, err := r.src.Peek(n)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return cell.Header{}, fmt.Errorf("reader: truncated header: %w", errs.ErrWrongDataFormat)
			}

			return cell.Header{}, fmt.Errorf("reader: peekHeader: %w: %w", err, errs.ErrDeviceAccess)
		}

		h, ok, perr := cell.Peek(buf)
		if perr != nil {
			return cell.Header{}, perr
		}
		if ok {
			return h, nil
		}
	}

	return cell.Header{}, fmt.Errorf("reader: header exceeds max length: %w", errs.ErrWrongDataFormat)
}

func isFrameNameKind(k cell.Kind) bool {
	switch k {
	case cell.FrameName, cell.FrameNameTag, cell.FrameNameStr, cell.FrameNameIdx:
		return true
	default:
		return false
	}
}

func isSlotNameKind(k cell.Kind) bool {
	switch k {
	case cell.SlotName, cell.SlotNameTag, cell.SlotNameStr, cell.SlotNameIdx:
		return true
	default:
		return false
	}
}

// SkipToEndFrame consumes tokens until the EndFrame that closes the frame
// the Reader is currently inside, leaving the Reader positioned just after
// it. It reports false if the stream runs out first.
func (r *Reader) SkipToEndFrame() (bool, error) {
	startLevel := r.level
	for {
		tok, err := r.Next()
		if err != nil {
			return false, err
		}
		if tok == Pending {
			return false, nil
		}
		if tok == EndFrame && r.level < startLevel {
			return true, nil
		}
	}
}

// ExtractString walks tokens until the current frame's EndFrame (or stream
// end) and concatenates the text of every UNISTR/CSTRING-family slot value
// it sees. If unicodeOnly is true, only String/Html/Xml values are
// included; otherwise Latin1/Ascii/Url values are included too. When
// separateBySpace is true, a space is inserted between concatenated
// fragments unless the accumulated text already ends in whitespace.
func (r *Reader) ExtractString(unicodeOnly, separateBySpace bool) (string, error) {
	var out strings.Builder
	startLevel := r.level

	for {
		tok, err := r.Next()
		if err != nil {
			return out.String(), err
		}
		if tok == Pending {
			return out.String(), nil
		}
		if tok == EndFrame && r.level < startLevel {
			return out.String(), nil
		}
		if tok != Slot {
			continue
		}

		if !isExtractableKind(r.value.Kind(), unicodeOnly) {
			continue
		}

		frag := r.value.ToString(false)
		if frag == "" {
			continue
		}
		if separateBySpace && out.Len() > 0 {
			s := out.String()
			if last := s[len(s)-1]; last != ' ' && last != '\t' && last != '\n' {
				out.WriteByte(' ')
			}
		}
		out.WriteString(frag)
	}
}

func isExtractableKind(k cell.Kind, unicodeOnly bool) bool {
	switch k {
	case cell.String, cell.Html, cell.Xml:
		return true
	case cell.Latin1, cell.Ascii, cell.Url:
		return !unicodeOnly
	default:
		return false
	}
}

// Dump writes a line per token (BeginFrame/EndFrame/Slot, indented by
// nesting level) to w, a debugging aid mirroring what hand inspection of a
// stream would show.
func (r *Reader) Dump(w io.Writer) error {
	for {
		tok, err := r.Next()
		if err != nil {
			return err
		}
		if tok == Pending {
			return nil
		}

		indent := strings.Repeat("  ", r.level)
		switch tok {
		case BeginFrame:
			fmt.Fprintf(w, "%sBeginFrame %s\n", indent, r.name.ToString(false))
		case EndFrame:
			fmt.Fprintf(w, "%sEndFrame\n", indent)
		case Slot:
			fmt.Fprintf(w, "%sSlot %s = %s\n", indent, r.name.ToString(false), r.value.ToString(false))
		}
	}
}

// byteReader adapts a plain []byte to io.Reader so FromBytes doesn't force
// callers to wrap one themselves.
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
