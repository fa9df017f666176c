package cell

import (
	"math"
	"time"

	"github.com/tmlformat/tml/nametag"
	"github.com/tmlformat/tml/timeslot"
)

// Cell is a discriminated union: exactly one kind is active at a time, and
// its payload lives in whichever of the fields below that kind's family
// uses. Constructing a Cell via one of the typed New* constructors leaves
// every other field at its zero value; callers must not read a
// field that doesn't belong to the Cell's current Kind.
type Cell struct {
	kind Kind

	num   uint64         // fixed-scalar bit pattern: ints, float/double bits, Date/Time, Atom id
	pair0 uint32         // DateTime packed time (+UTC flag) / TimeSlot start
	pair1 uint32         // DateTime Julian date / TimeSlot duration
	vid   uint64         // vbyte-32/64 integer payload: Oid/Rid/Id64/Sid/Id32/*Idx
	tag   nametag.NameTag // Tag / FrameNameTag / SlotNameTag raw 4 bytes
	text  string         // UNISTR/CSTRING payload: String/Html/Xml/Latin1/Ascii/Url/*Str
	raw   []byte         // byte payload: Lob/Img/Pic/Bml (BINARY) and Uuid (fixed 16 bytes)
}

// Kind reports the Cell's active kind.
func (c Cell) Kind() Kind { return c.kind }

// IsNull reports whether the Cell is the Null kind.
func (c Cell) IsNull() bool { return c.kind == Null }

// IsValid reports whether the Cell carries a recognized, non-Invalid kind.
func (c Cell) IsValid() bool { return c.kind != Invalid && c.kind.Valid() }

// reset clears every payload field; callers set kind and the relevant field
// immediately after.
func (c *Cell) reset() {
	*c = Cell{}
}

// NewNull returns the Null cell.
func NewNull() Cell { return Cell{kind: Null} }

// NewInvalid returns the Invalid cell, used as a zero/unset sentinel.
func NewInvalid() Cell { return Cell{kind: Invalid} }

// NewBool returns True or False.
func NewBool(v bool) Cell {
	if v {
		return Cell{kind: True}
	}

	return Cell{kind: False}
}

// Bool returns the Cell's boolean value; non-boolean kinds report false.
func (c Cell) Bool() bool { return c.kind == True }

// NewInt32 returns an Int32 cell.
func NewInt32(v int32) Cell { return Cell{kind: Int32, num: uint64(uint32(v))} }

// Int32 returns the Cell's value if it's Int32, else 0.
func (c Cell) Int32() int32 {
	if c.kind != Int32 {
		return 0
	}

	return int32(uint32(c.num))
}

// NewUInt32 returns a UInt32 cell.
func NewUInt32(v uint32) Cell { return Cell{kind: UInt32, num: uint64(v)} }

// UInt32 returns the Cell's value if it's UInt32, else 0.
func (c Cell) UInt32() uint32 {
	if c.kind != UInt32 {
		return 0
	}

	return uint32(c.num)
}

// NewUInt8 returns a UInt8 cell.
func NewUInt8(v uint8) Cell { return Cell{kind: UInt8, num: uint64(v)} }

// UInt8 returns the Cell's value if it's UInt8, else 0.
func (c Cell) UInt8() uint8 {
	if c.kind != UInt8 {
		return 0
	}

	return uint8(c.num)
}

// NewUInt16 returns a UInt16 cell.
func NewUInt16(v uint16) Cell { return Cell{kind: UInt16, num: uint64(v)} }

// UInt16 returns the Cell's value if it's UInt16, else 0.
func (c Cell) UInt16() uint16 {
	if c.kind != UInt16 {
		return 0
	}

	return uint16(c.num)
}

// NewInt64 returns an Int64 cell.
func NewInt64(v int64) Cell { return Cell{kind: Int64, num: uint64(v)} }

// Int64 returns the Cell's value if it's Int64, else 0.
func (c Cell) Int64() int64 {
	if c.kind != Int64 {
		return 0
	}

	return int64(c.num)
}

// NewUInt64 returns a UInt64 cell.
func NewUInt64(v uint64) Cell { return Cell{kind: UInt64, num: v} }

// UInt64 returns the Cell's value if it's UInt64, else 0.
func (c Cell) UInt64() uint64 {
	if c.kind != UInt64 {
		return 0
	}

	return c.num
}

// NewFloat returns a Float (32-bit) cell.
func NewFloat(v float32) Cell { return Cell{kind: Float, num: uint64(math.Float32bits(v))} }

// Float returns the Cell's value if it's Float, else 0.
func (c Cell) Float() float32 {
	if c.kind != Float {
		return 0
	}

	return math.Float32frombits(uint32(c.num))
}

// NewDouble returns a Double (64-bit) cell.
func NewDouble(v float64) Cell { return Cell{kind: Double, num: math.Float64bits(v)} }

// Double returns the Cell's value if it's Double, else 0.
func (c Cell) Double() float64 {
	if c.kind != Double {
		return 0
	}

	return math.Float64frombits(c.num)
}

// NewDate returns a Date cell from a calendar date (time-of-day is ignored).
func NewDate(t time.Time) Cell { return Cell{kind: Date, num: uint64(uint32(julianDay(t)))} }

// Date returns the Cell's calendar date if it's Date or DateTime*, else the
// zero time.
func (c Cell) Date() time.Time {
	switch c.kind {
	case Date:
		return dateFromJulian(int32(uint32(c.num)))
	case DateTimeOld, DateTimeNew:
		return dateFromJulian(int32(c.pair1))
	default:
		return time.Time{}
	}
}

// NewTime returns a Time cell from a time-of-day (date component is ignored).
func NewTime(t time.Time) Cell { return Cell{kind: Time, num: uint64(packTime(t))} }

// Time returns the Cell's time-of-day components if it's Time or
// DateTime*, else zeros.
func (c Cell) Time() (hour, min, sec, msec int) {
	switch c.kind {
	case Time:
		return unpackTime(uint32(c.num))
	case DateTimeOld, DateTimeNew:
		return unpackTime(c.pair0)
	default:
		return 0, 0, 0, 0
	}
}

// NewDateTime returns a DateTimeNew cell (the only kind new data should be
// written as; DateTimeOld exists purely so old streams keep decoding).
func NewDateTime(t time.Time, utc bool) Cell {
	c := Cell{kind: DateTimeNew}
	c.pair1 = uint32(julianDay(t))
	c.pair0 = packTime(t)
	if utc {
		c.pair0 |= utcFlag
	}

	return c
}

// IsUTC reports whether a DateTime cell carries the UTC flag.
func (c Cell) IsUTC() bool {
	if c.kind != DateTimeOld && c.kind != DateTimeNew {
		return false
	}

	return c.pair0&utcFlag != 0
}

// NewTimeSlot returns a TimeSlot cell, or Null if ts is invalid.
func NewTimeSlot(ts timeslot.TimeSlot) Cell {
	if !ts.IsValid() {
		return Cell{kind: Null}
	}

	return Cell{kind: TimeSlotKind, pair0: uint32(uint16(ts.Start)), pair1: uint32(ts.Duration)}
}

// TimeSlot returns the Cell's TimeSlot value if it's TimeSlotKind, else the
// invalid slot.
func (c Cell) TimeSlot() timeslot.TimeSlot {
	if c.kind != TimeSlotKind {
		return timeslot.New(timeslot.Invalid, 0)
	}

	return timeslot.New(int16(uint16(c.pair0)), uint16(c.pair1))
}

// NewAtom returns an Atom cell: a plain 4-byte integer name id.
func NewAtom(id uint32) Cell { return Cell{kind: Atom, num: uint64(id)} }

// Atom returns the Cell's atom id if it's Atom, else 0.
func (c Cell) Atom() uint32 {
	if c.kind != Atom {
		return 0
	}

	return uint32(c.num)
}

// NewTag returns a Tag cell wrapping a NameTag.
func NewTag(t nametag.NameTag) Cell { return Cell{kind: Tag, tag: t} }

// Tag returns the Cell's NameTag if it's Tag, else the null tag.
func (c Cell) Tag() nametag.NameTag {
	if c.kind != Tag {
		return nametag.Null
	}

	return c.tag
}

// NewOid returns an Oid cell (vbyte-64 family).
func NewOid(v uint64) Cell { return Cell{kind: Oid, vid: v} }

// Oid returns the Cell's value if it's Oid, else 0.
func (c Cell) Oid() uint64 { return c.vidIf(Oid) }

// NewRid returns a Rid cell (vbyte-64 family).
func NewRid(v uint64) Cell { return Cell{kind: Rid, vid: v} }

// Rid returns the Cell's value if it's Rid, else 0.
func (c Cell) Rid() uint64 { return c.vidIf(Rid) }

// NewId64 returns an Id64 cell (vbyte-64 family).
func NewId64(v uint64) Cell { return Cell{kind: Id64, vid: v} }

// Id64 returns the Cell's value if it's Id64, else 0.
func (c Cell) Id64() uint64 { return c.vidIf(Id64) }

// NewSid returns a Sid cell (vbyte-32 family).
func NewSid(v uint32) Cell { return Cell{kind: Sid, vid: uint64(v)} }

// Sid returns the Cell's value if it's Sid, else 0.
func (c Cell) Sid() uint32 { return uint32(c.vidIf(Sid)) }

// NewId32 returns an Id32 cell (vbyte-32 family).
func NewId32(v uint32) Cell { return Cell{kind: Id32, vid: uint64(v)} }

// Id32 returns the Cell's value if it's Id32, else 0.
func (c Cell) Id32() uint32 { return uint32(c.vidIf(Id32)) }

func (c Cell) vidIf(k Kind) uint64 {
	if c.kind != k {
		return 0
	}

	return c.vid
}

// NewText returns a text cell of the given kind (String/Html/Xml/Latin1/
// Ascii/Url). It panics if kind isn't one of those; callers pick a constant.
func NewText(kind Kind, s string) Cell {
	switch kind {
	case String, Html, Xml, Latin1, Ascii, Url:
		return Cell{kind: kind, text: s}
	default:
		panic("cell: NewText: not a text kind")
	}
}

// Text returns the Cell's decoded text if its kind is a text family member,
// else "".
func (c Cell) Text() string {
	if kindTable[c.kind].family == famUnistr || kindTable[c.kind].family == famCstring {
		return c.text
	}

	return ""
}

// NewBytes returns a byte-array cell of the given kind (Lob/Img/Pic/Bml).
func NewBytes(kind Kind, b []byte) Cell {
	switch kind {
	case Lob, Img, Pic, Bml:
		return Cell{kind: kind, raw: b}
	default:
		panic("cell: NewBytes: not a byte-array kind")
	}
}

// Bytes returns the Cell's raw bytes if its kind is Lob/Img/Pic/Bml/Uuid,
// else nil.
func (c Cell) Bytes() []byte {
	switch c.kind {
	case Lob, Img, Pic, Bml, Uuid:
		return c.raw
	default:
		return nil
	}
}

// NewUuid returns a Uuid cell from a 16-byte value.
func NewUuid(b [16]byte) Cell {
	return Cell{kind: Uuid, raw: append([]byte(nil), b[:]...)}
}
