package cell

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/tmlformat/tml/entity"
	"github.com/tmlformat/tml/errs"
)

// ToString renders the Cell as text: the decoded text for text kinds
// (optionally stripping HTML/XML markup and resolving entity references),
// decimal for numeric kinds, ISO-8601 for temporal kinds, a 4-character
// view for Tag, braced-canonical for Uuid, and for Bml the concatenation of
// every UNISTR slot payload in the embedded document.
//
// stripMarkup only applies to Html/Xml; it is ignored for other kinds.
func (c Cell) ToString(stripMarkup bool) string {
	switch c.kind {
	case Null, Invalid:
		return ""
	case True:
		return "true"
	case False:
		return "false"
	case Int32:
		return strconv.FormatInt(int64(c.Int32()), 10)
	case UInt32:
		return strconv.FormatUint(uint64(c.UInt32()), 10)
	case UInt8:
		return strconv.FormatUint(uint64(c.UInt8()), 10)
	case UInt16:
		return strconv.FormatUint(uint64(c.UInt16()), 10)
	case Int64:
		return strconv.FormatInt(c.Int64(), 10)
	case UInt64:
		return strconv.FormatUint(c.UInt64(), 10)
	case Float:
		return strconv.FormatFloat(float64(c.Float()), 'g', -1, 32)
	case Double:
		return strconv.FormatFloat(c.Double(), 'g', -1, 64)
	case Date:
		return c.Date().Format("2006-01-02")
	case Time:
		h, m, s, ms := c.Time()
		return formatClock(h, m, s, ms)
	case DateTimeOld, DateTimeNew:
		return formatISO8601(c)
	case TimeSlotKind:
		ts := c.TimeSlot()
		return fmt.Sprintf("%d+%d", ts.Start, ts.Duration)
	case Atom:
		return strconv.FormatUint(uint64(c.Atom()), 10)
	case Oid:
		return strconv.FormatUint(c.Oid(), 10)
	case Rid:
		return strconv.FormatUint(c.Rid(), 10)
	case Id64:
		return strconv.FormatUint(c.Id64(), 10)
	case Sid:
		return strconv.FormatUint(uint64(c.Sid()), 10)
	case Id32:
		return strconv.FormatUint(uint64(c.Id32()), 10)
	case Tag:
		return c.tag.String()
	case Latin1, Ascii, String, Url:
		return c.text
	case Html, Xml:
		if stripMarkup {
			return entity.StripMarkup(c.text)
		}

		return c.text
	case Uuid:
		return formatUuid(c.raw)
	case Bml:
		return concatBmlText(c.raw)
	default:
		return ""
	}
}

func formatClock(h, m, s, ms int) string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func formatISO8601(c Cell) string {
	h, m, s, ms := c.Time()
	date := c.Date()
	suffix := ""
	if c.IsUTC() {
		suffix = "Z"
	}

	return fmt.Sprintf("%sT%02d:%02d:%02d.%03d%s", date.Format("2006-01-02"), h, m, s, ms, suffix)
}

func formatUuid(b []byte) string {
	if len(b) != 16 {
		return ""
	}

	return fmt.Sprintf("{%08x-%04x-%04x-%04x-%012x}",
		b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

// concatBmlText scans every token of the embedded document, at any nesting
// depth, and joins the text of every UNISTR-family payload, space-separated.
func concatBmlText(doc []byte) string {
	var parts []string
	pos := 0
	for pos < len(doc) {
		h, ok, err := Peek(doc[pos:])
		if err != nil || !ok {
			break
		}
		if pos+h.TotalLen() > len(doc) {
			break
		}
		if kindTable[h.Kind].family == famUnistr {
			c, n, err := Read(doc[pos:])
			if err == nil && n > 0 {
				parts = append(parts, c.text)
			}
		}
		pos += h.TotalLen()
	}

	return strings.Join(parts, " ")
}

// ToID64 coerces an integer-like cell (Atom, Oid, Rid, Sid, Id32, Id64,
// UInt64, UInt32, Int32, Int64) to its raw u64 bits. Non-integer kinds fail with
// errs.ErrIncompleteImplementation.
func (c Cell) ToID64() (uint64, error) {
	switch c.kind {
	case Atom:
		return uint64(c.Atom()), nil
	case Oid:
		return c.Oid(), nil
	case Rid:
		return c.Rid(), nil
	case Id64:
		return c.Id64(), nil
	case Sid:
		return uint64(c.Sid()), nil
	case Id32:
		return uint64(c.Id32()), nil
	case UInt64:
		return c.UInt64(), nil
	case UInt32:
		return uint64(c.UInt32()), nil
	case Int32:
		return uint64(uint32(c.Int32())), nil
	case Int64:
		return uint64(c.Int64()), nil
	default:
		return 0, fmt.Errorf("cell: ToID64: kind %d not integer-like: %w", c.kind, errs.ErrIncompleteImplementation)
	}
}

// Equal reports whether two cells have the same kind and equal payload.
// Text and byte-array comparisons are bytewise; scalar comparisons compare
// the fixed-width payload bits directly (no numeric cross-kind equality).
func (c Cell) Equal(other Cell) bool {
	if c.kind != other.kind {
		return false
	}

	switch kindTable[c.kind].family {
	case famUnistr, famCstring:
		return c.text == other.text
	case famBinary:
		return bytes.Equal(c.raw, other.raw)
	case famMByte32, famMByte64:
		return c.vid == other.vid
	default:
		switch c.kind {
		case Tag:
			return c.tag.Equal(other.tag)
		case Uuid:
			return bytes.Equal(c.raw, other.raw)
		default:
			return c.num == other.num && c.pair0 == other.pair0 && c.pair1 == other.pair1
		}
	}
}
