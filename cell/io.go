package cell

import (
	"bytes"
	"fmt"

	"github.com/tmlformat/tml/endian"
	"github.com/tmlformat/tml/errs"
	"github.com/tmlformat/tml/internal/compress"
	"github.com/tmlformat/tml/nametag"
	"github.com/tmlformat/tml/vbyte"
)

// wireEndian is the byte order every fixed-width scalar uses on the wire,
// regardless of host order.
var wireEndian = endian.GetBigEndianEngine()

// Header describes what Peek found at the front of a buffer without
// consuming it: the wire kind, the number of header bytes (type byte plus
// any length prefix), and the payload length that follows the header.
// Header is the zero value when Peek reports Pending.
type Header struct {
	Kind       Kind
	Compressed bool
	HdrLen     int
	PayloadLen int
}

// TotalLen is the full on-wire size of the token this header describes.
func (h Header) TotalLen() int { return h.HdrLen + h.PayloadLen }

// maxHeaderLen is 1 type byte plus the longest varint that can follow it:
// either a vbyte-32 length prefix or an inline vbyte-64 payload (Oid/Rid/
// Id64), whichever is longer.
const maxHeaderLen = 1 + vbyte.MaxLen64

// MaxHeaderLen is the most bytes Peek ever needs to resolve a header: one
// type byte plus the longest varint that can follow it.
func MaxHeaderLen() int { return maxHeaderLen }

// Peek reads at most maxHeaderLen bytes from src without consuming them and
// reports the token's kind and lengths. ok is false if src doesn't yet hold
// a complete header (the caller should read more and retry).
func Peek(src []byte) (h Header, ok bool, err error) {
	if len(src) == 0 {
		return Header{}, false, nil
	}

	typeByte := src[0]
	k := Kind(typeByte & KindMask)
	if !k.Valid() {
		return Header{}, false, fmt.Errorf("cell: unknown kind byte %d: %w", typeByte, errs.ErrInvalidProtocol)
	}
	compressed := typeByte&CompressFlag != 0
	if compressed && !k.compressible() {
		return Header{}, false, fmt.Errorf("cell: compression flag on non-compressible kind %d: %w", k, errs.ErrInvalidProtocol)
	}

	info := kindTable[k]
	rest := src[1:]

	switch info.family {
	case famFixed:
		return Header{Kind: k, HdrLen: 1, PayloadLen: info.fixedSize}, true, nil
	case famMByte32:
		n, ok := vbyte.PeekUint32(rest)
		if !ok {
			return Header{}, false, nil
		}

		return Header{Kind: k, HdrLen: 1 + n, PayloadLen: 0}, true, nil
	case famMByte64:
		n, ok := vbyte.PeekUint64(rest)
		if !ok {
			return Header{}, false, nil
		}

		return Header{Kind: k, HdrLen: 1 + n, PayloadLen: 0}, true, nil
	case famUnistr, famCstring, famBinary:
		ln, n, okDecode := vbyte.DecodeUint32(rest)
		if !okDecode {
			return Header{}, false, nil
		}

		return Header{Kind: k, Compressed: compressed, HdrLen: 1 + n, PayloadLen: int(ln)}, true, nil
	default:
		return Header{}, false, fmt.Errorf("cell: %w", errs.ErrIncompleteImplementation)
	}
}

// Read decodes one complete cell from src, which must hold at least
// Peek(src).TotalLen() bytes. On a wire-only name pseudo-kind, the returned
// Cell is coerced to its canonical kind (see canonicalOf).
func Read(src []byte) (c Cell, consumed int, err error) {
	h, ok, err := Peek(src)
	if err != nil {
		return Cell{}, 0, err
	}
	if !ok {
		return Cell{}, 0, fmt.Errorf("cell: truncated header: %w", errs.ErrWrongDataFormat)
	}
	if len(src) < h.TotalLen() {
		return Cell{}, 0, fmt.Errorf("cell: truncated payload: %w", errs.ErrWrongDataFormat)
	}

	body := src[h.HdrLen:h.TotalLen()]
	wireKind := h.Kind
	k := canonicalOf(wireKind)

	switch kindTable[wireKind].family {
	case famFixed:
		c, err = readFixed(k, body)
	case famMByte32:
		v, _, _ := vbyte.DecodeUint32(src[1:h.HdrLen])
		c, err = readMByte32(k, v)
	case famMByte64:
		v, _, _ := vbyte.DecodeUint64(src[1:h.HdrLen])
		c, err = readMByte64(k, v)
	case famUnistr:
		c, err = readText(k, body, h.Compressed)
	case famCstring:
		c, err = readCString(k, body, h.Compressed)
	case famBinary:
		c, err = readBinary(k, body, h.Compressed)
	default:
		err = fmt.Errorf("cell: %w", errs.ErrIncompleteImplementation)
	}
	if err != nil {
		return Cell{}, 0, err
	}

	return c, h.TotalLen(), nil
}

func readFixed(k Kind, body []byte) (Cell, error) {
	switch k {
	case Null, True, False, FrameStart, FrameEnd, Invalid:
		return Cell{kind: k}, nil
	case Int32:
		return NewInt32(int32(wireEndian.Uint32(body))), nil
	case UInt32:
		return NewUInt32(wireEndian.Uint32(body)), nil
	case Float:
		return Cell{kind: Float, num: uint64(wireEndian.Uint32(body))}, nil
	case Double:
		return Cell{kind: Double, num: wireEndian.Uint64(body)}, nil
	case UInt8:
		return NewUInt8(body[0]), nil
	case UInt16:
		return NewUInt16(wireEndian.Uint16(body)), nil
	case Int64:
		return NewInt64(int64(wireEndian.Uint64(body))), nil
	case UInt64:
		return NewUInt64(wireEndian.Uint64(body)), nil
	case Date:
		return Cell{kind: Date, num: uint64(wireEndian.Uint32(body))}, nil
	case Time:
		return Cell{kind: Time, num: uint64(wireEndian.Uint32(body))}, nil
	case DateTimeOld:
		t := wireEndian.Uint32(body[0:4])
		d := wireEndian.Uint32(body[4:8])

		return Cell{kind: DateTimeOld, pair0: t, pair1: d}, nil
	case DateTimeNew:
		d := wireEndian.Uint32(body[0:4])
		t := wireEndian.Uint32(body[4:8])

		return Cell{kind: DateTimeNew, pair0: t, pair1: d}, nil
	case TimeSlotKind:
		start := wireEndian.Uint16(body[0:2])
		dur := wireEndian.Uint16(body[2:4])

		return Cell{kind: TimeSlotKind, pair0: uint32(start), pair1: uint32(dur)}, nil
	case Atom:
		return NewAtom(wireEndian.Uint32(body)), nil
	case Uuid:
		var b [16]byte
		copy(b[:], body)

		return NewUuid(b), nil
	case Tag:
		var b [4]byte
		copy(b[:], body)

		return NewTag(nametag.FromBytes(b)), nil
	default:
		return Cell{}, fmt.Errorf("cell: fixed read: unhandled kind %d: %w", k, errs.ErrIncompleteImplementation)
	}
}

func readMByte32(k Kind, v uint32) (Cell, error) {
	switch k {
	case Sid:
		return NewSid(v), nil
	case Id32:
		return NewId32(v), nil
	default:
		return Cell{}, fmt.Errorf("cell: mbyte32 read: unhandled kind %d: %w", k, errs.ErrIncompleteImplementation)
	}
}

func readMByte64(k Kind, v uint64) (Cell, error) {
	switch k {
	case Oid:
		return NewOid(v), nil
	case Rid:
		return NewRid(v), nil
	case Id64:
		return NewId64(v), nil
	default:
		return Cell{}, fmt.Errorf("cell: mbyte64 read: unhandled kind %d: %w", k, errs.ErrIncompleteImplementation)
	}
}

func maybeDecompress(body []byte, compressed bool) ([]byte, error) {
	if !compressed {
		return body, nil
	}

	out, err := compress.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("cell: decompress payload: %w", err)
	}

	return out, nil
}

// readText decodes a UNISTR payload: UTF-8 bytes whose on-wire length counts
// a terminating NUL. The text is taken up to the first NUL, C-string style,
// so a missing or doubled terminator never leaks into the decoded value.
func readText(k Kind, body []byte, compressed bool) (Cell, error) {
	body, err := maybeDecompress(body, compressed)
	if err != nil {
		return Cell{}, err
	}

	if i := bytes.IndexByte(body, 0); i >= 0 {
		body = body[:i]
	}

	return Cell{kind: k, text: string(body)}, nil
}

// readCString decodes a CSTRING payload: ASCII/Latin1 bytes terminated by a
// NUL that's included in the on-wire length. A payload ending in two NULs is
// tolerated (trailing NULs are stripped), matching loosely-terminated data
// some legacy writers produced.
func readCString(k Kind, body []byte, compressed bool) (Cell, error) {
	body, err := maybeDecompress(body, compressed)
	if err != nil {
		return Cell{}, err
	}

	for len(body) > 0 && body[len(body)-1] == 0 {
		body = body[:len(body)-1]
	}

	return Cell{kind: k, text: string(body)}, nil
}

func readBinary(k Kind, body []byte, compressed bool) (Cell, error) {
	body, err := maybeDecompress(body, compressed)
	if err != nil {
		return Cell{}, err
	}

	return Cell{kind: k, raw: append([]byte(nil), body...)}, nil
}

// Write appends the wire encoding of c to dst and returns the extended
// slice. dataOnly omits the type byte, and the length prefix of
// length-prefixed kinds (used when writing an indexing key, not a stream
// token). requestCompress requests the compression flag, which is silently declined when the
// encoded payload is at or below compress.Threshold bytes.
func Write(dst []byte, c Cell, dataOnly bool, requestCompress bool) ([]byte, error) {
	k := c.kind
	if !k.Valid() {
		return nil, fmt.Errorf("cell: write: invalid kind %d: %w", k, errs.ErrInvalidProtocol)
	}

	info := kindTable[k]
	switch info.family {
	case famFixed:
		return writeFixed(dst, c, dataOnly)
	case famMByte32:
		if !dataOnly {
			dst = append(dst, byte(k))
		}

		return vbyte.EncodeUint32(dst, uint32(c.vid)), nil
	case famMByte64:
		if !dataOnly {
			dst = append(dst, byte(k))
		}

		return vbyte.EncodeUint64(dst, c.vid), nil
	case famUnistr:
		// The on-wire length counts a terminating NUL, same as CSTRING.
		payload := append([]byte(c.text), 0)

		return writeLengthPrefixed(dst, k, payload, dataOnly, requestCompress)
	case famCstring:
		if requiresASCII(k) && !isASCII(c.text) {
			return nil, fmt.Errorf("cell: write: kind %d requires ASCII content: %w", k, errs.ErrWrongDataFormat)
		}
		payload := append([]byte(c.text), 0)

		return writeLengthPrefixed(dst, k, payload, dataOnly, requestCompress)
	case famBinary:
		return writeLengthPrefixed(dst, k, c.raw, dataOnly, requestCompress)
	default:
		return nil, fmt.Errorf("cell: write: %w", errs.ErrIncompleteImplementation)
	}
}

func writeFixed(dst []byte, c Cell, dataOnly bool) ([]byte, error) {
	k := c.kind
	if !dataOnly {
		dst = append(dst, byte(k))
	}

	switch k {
	case Null, False:
		if dataOnly {
			// Keep the data-only rendering non-empty so an index key built
			// from this cell is never the empty byte string.
			dst = append(dst, 0)
		}

		return dst, nil
	case True:
		if dataOnly {
			dst = append(dst, 1)
		}

		return dst, nil
	case FrameStart, FrameEnd, Invalid:
		return dst, nil
	case Int32, UInt32, Float, Date, Time, Atom:
		return wireEndian.AppendUint32(dst, uint32(c.num)), nil
	case Double, Int64, UInt64:
		return wireEndian.AppendUint64(dst, c.num), nil
	case UInt8:
		return append(dst, byte(c.num)), nil
	case UInt16:
		return wireEndian.AppendUint16(dst, uint16(c.num)), nil
	case DateTimeOld:
		dst = wireEndian.AppendUint32(dst, c.pair0)
		dst = wireEndian.AppendUint32(dst, c.pair1)

		return dst, nil
	case DateTimeNew:
		dst = wireEndian.AppendUint32(dst, c.pair1)
		dst = wireEndian.AppendUint32(dst, c.pair0)

		return dst, nil
	case TimeSlotKind:
		dst = wireEndian.AppendUint16(dst, uint16(c.pair0))
		dst = wireEndian.AppendUint16(dst, uint16(c.pair1))

		return dst, nil
	case Tag:
		return append(dst, c.tag.Tag[:]...), nil
	case Uuid:
		var b [16]byte
		copy(b[:], c.raw)

		return append(dst, b[:]...), nil
	default:
		return nil, fmt.Errorf("cell: write fixed: unhandled kind %d: %w", k, errs.ErrIncompleteImplementation)
	}
}

// requiresASCII reports whether k's CSTRING payload must be pure ASCII
// (bytes < 0x80) rather than the wider Latin-1 byte range. Only Ascii and
// Url enforce this; Latin1 legitimately carries the full Latin-1 range, and
// the name-literal pseudo-kinds are not checked here (writer.writeName
// writes name bytes itself without going through Write).
func requiresASCII(k Kind) bool {
	switch k {
	case Ascii, Url:
		return true
	default:
		return false
	}
}

// isASCII reports whether every byte of s is in the 7-bit ASCII range.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}

	return true
}

// writeLengthPrefixed implements the UNISTR/CSTRING/BINARY write path:
// vbyte-32 length, optionally compressed payload.
func writeLengthPrefixed(dst []byte, k Kind, payload []byte, dataOnly bool, requestCompress bool) ([]byte, error) {
	compressed := requestCompress && k.compressible() && len(payload) > compress.Threshold
	if compressed {
		enc, err := compress.Encode(payload)
		if err != nil {
			return nil, fmt.Errorf("cell: compress payload: %w", err)
		}
		payload = enc
	}

	if !dataOnly {
		typeByte := byte(k)
		if compressed {
			typeByte |= CompressFlag
		}
		dst = append(dst, typeByte)
		dst = vbyte.EncodeUint32(dst, uint32(len(payload)))
	} else if len(payload) == 0 {
		// Same non-empty guarantee as the boolean placeholders above.
		return append(dst, 0), nil
	}

	return append(dst, payload...), nil
}
