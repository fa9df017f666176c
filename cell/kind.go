// Package cell implements the Cell tagged variant: the single payload type
// that carries every scalar, textual, binary, temporal, and identity value
// on the tml wire, plus the framing and name pseudo-kinds used only between
// a Writer and a Reader.
package cell

// Kind is a frozen wire type code. The low 7 bits of a wire type byte carry
// a Kind; the MSB is the independent compression flag (see CompressFlag).
// These numeric codes are frozen: existing stored data depends on them, so
// new kinds may only be added, never renumbered.
type Kind byte

// Complete kind-code table. Gaps between blocks are deliberate: they mirror
// gaps in the codec this format succeeds and are reserved for future kinds.
const (
	Null  Kind = 0
	True  Kind = 1
	False Kind = 2
	Int32 Kind = 3
	Double Kind = 4
	Float Kind = 5

	Date        Kind = 10
	Time        Kind = 11
	DateTimeOld Kind = 12
	Tag         Kind = 13
	UInt8       Kind = 14
	Int64       Kind = 15
	TimeSlotKind Kind = 16
	DateTimeNew Kind = 17
	UInt16      Kind = 18

	Atom  Kind = 20
	Url   Kind = 22
	Uuid  Kind = 23
	Oid   Kind = 24
	Id32  Kind = 25
	Id64  Kind = 26
	Sid   Kind = 27
	Rid   Kind = 28
	UInt64 Kind = 29
	UInt32 Kind = 30

	Latin1 Kind = 40
	String Kind = 41
	Html   Kind = 42
	Xml    Kind = 43
	Ascii  Kind = 44

	Lob Kind = 60
	Img Kind = 64
	Pic Kind = 65
	Bml Kind = 66

	FrameStart   Kind = 110
	FrameName    Kind = 111
	FrameEnd     Kind = 112
	SlotName     Kind = 113
	FrameNameStr Kind = 114
	SlotNameStr  Kind = 115
	FrameNameTag Kind = 116
	SlotNameTag  Kind = 117
	FrameNameIdx Kind = 118
	SlotNameIdx  Kind = 119

	Invalid Kind = 127
)

// CompressFlag is the MSB of a wire type byte: when set, the following
// length-prefixed payload is wrapped in the deflate envelope (see the
// internal/compress package) instead of written raw.
const CompressFlag byte = 0x80

// KindMask isolates the 7-bit kind code from a wire type byte.
const KindMask byte = 0x7F

// family identifies the shape a kind's payload takes on the wire.
type family int

const (
	famFixed family = iota // fixed byte count, no length prefix
	famUnistr
	famCstring
	famBinary
	famMByte32
	famMByte64
)

type kindInfo struct {
	family    family
	fixedSize int // only meaningful when family == famFixed
}

// kindTable maps every valid Kind to its wire family. Indexed directly by
// Kind since the codes are dense enough (0-127) for a flat array.
var kindTable = [128]kindInfo{
	Null:  {famFixed, 0},
	True:  {famFixed, 0},
	False: {famFixed, 0},
	Int32: {famFixed, 4},
	Double: {famFixed, 8},
	Float:  {famFixed, 4},

	Date:        {famFixed, 4},
	Time:        {famFixed, 4},
	DateTimeOld:  {famFixed, 8},
	Tag:          {famFixed, 4},
	UInt8:        {famFixed, 1},
	Int64:        {famFixed, 8},
	TimeSlotKind: {famFixed, 4},
	DateTimeNew:  {famFixed, 8},
	UInt16:       {famFixed, 2},

	Atom:   {famFixed, 4},
	Url:    {famCstring, 0},
	Uuid:   {famFixed, 16},
	Oid:    {famMByte64, 0},
	Id32:   {famMByte32, 0},
	Id64:   {famMByte64, 0},
	Sid:    {famMByte32, 0},
	Rid:    {famMByte64, 0},
	UInt64: {famFixed, 8},
	UInt32: {famFixed, 4},

	Latin1: {famCstring, 0},
	String: {famUnistr, 0},
	Html:   {famUnistr, 0},
	Xml:    {famUnistr, 0},
	Ascii:  {famCstring, 0},

	Lob: {famBinary, 0},
	Img: {famBinary, 0},
	Pic: {famBinary, 0},
	Bml: {famBinary, 0},

	FrameStart:   {famFixed, 0},
	FrameName:    {famFixed, 4},
	FrameEnd:     {famFixed, 0},
	SlotName:     {famFixed, 4},
	FrameNameStr: {famCstring, 0},
	SlotNameStr:  {famCstring, 0},
	FrameNameTag: {famFixed, 4},
	SlotNameTag:  {famFixed, 4},
	FrameNameIdx: {famMByte32, 0},
	SlotNameIdx:  {famMByte32, 0},

	Invalid: {famFixed, 0},
}

var validKinds = [128]bool{
	Null: true, True: true, False: true, Int32: true, Double: true, Float: true,
	Date: true, Time: true, DateTimeOld: true, Tag: true, UInt8: true, Int64: true,
	TimeSlotKind: true, DateTimeNew: true, UInt16: true,
	Atom: true, Url: true, Uuid: true, Oid: true, Id32: true, Id64: true, Sid: true, Rid: true,
	UInt64: true, UInt32: true,
	Latin1: true, String: true, Html: true, Xml: true, Ascii: true,
	Lob: true, Img: true, Pic: true, Bml: true,
	FrameStart: true, FrameName: true, FrameEnd: true, SlotName: true,
	FrameNameStr: true, SlotNameStr: true, FrameNameTag: true, SlotNameTag: true,
	FrameNameIdx: true, SlotNameIdx: true,
	Invalid: true,
}

// Valid reports whether k is a recognized kind code.
func (k Kind) Valid() bool {
	if k >= 128 {
		return false
	}

	return validKinds[k]
}

// compressible reports whether k's family may carry the compression flag.
// Only variable-length text/byte-array families are eligible.
func (k Kind) compressible() bool {
	switch kindTable[k].family {
	case famUnistr, famCstring, famBinary:
		return true
	default:
		return false
	}
}

// isNamePseudo reports whether k is one of the wire-only name pseudo-kinds
// that a materialized Cell never carries as its own kind.
func isNamePseudo(k Kind) bool {
	switch k {
	case FrameName, FrameNameStr, FrameNameIdx, FrameNameTag,
		SlotName, SlotNameStr, SlotNameIdx, SlotNameTag:
		return true
	default:
		return false
	}
}

// canonicalOf maps a wire-only name pseudo-kind to the canonical kind a
// materialized name Cell carries: FrameName/SlotName -> Atom,
// *Str -> Ascii, *Idx -> Id32, *Tag -> Tag.
func canonicalOf(k Kind) Kind {
	switch k {
	case FrameName, SlotName:
		return Atom
	case FrameNameStr, SlotNameStr:
		return Ascii
	case FrameNameIdx, SlotNameIdx:
		return Id32
	case FrameNameTag, SlotNameTag:
		return Tag
	default:
		return k
	}
}
