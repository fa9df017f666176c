package cell

import (
	"encoding/binary"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmlformat/tml/errs"
	"github.com/tmlformat/tml/internal/compress"
	"github.com/tmlformat/tml/nametag"
)

func roundTrip(t *testing.T, c Cell) Cell {
	t.Helper()

	enc, err := Write(nil, c, false, true)
	require.NoError(t, err)

	h, ok, err := Peek(enc)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, len(enc), h.TotalLen())

	got, consumed, err := Read(enc)
	require.NoError(t, err)
	assert.Equal(t, len(enc), consumed)

	return got
}

func TestWriteRead_FixedScalars(t *testing.T) {
	cells := []Cell{
		NewNull(), NewInvalid(), NewBool(true), NewBool(false),
		NewInt32(-7), NewUInt32(7), NewUInt8(9), NewUInt16(9000),
		NewInt64(-1), NewUInt64(1 << 40), NewFloat(1.5), NewDouble(2.5),
		NewAtom(99), NewTag(nametag.FromString("abcd")),
	}

	for _, c := range cells {
		got := roundTrip(t, c)
		assert.True(t, c.Equal(got), "kind %d round-trip mismatch", c.Kind())
	}
}

func TestWriteRead_Uuid(t *testing.T) {
	var id [16]byte
	for i := range id {
		id[i] = byte(i * 3)
	}
	c := NewUuid(id)

	enc, err := Write(nil, c, false, true)
	require.NoError(t, err)
	// type byte + 16 raw bytes, no length prefix
	assert.Len(t, enc, 17)

	got := roundTrip(t, c)
	assert.True(t, c.Equal(got))
}

func TestWriteRead_VbyteFamilies(t *testing.T) {
	cells := []Cell{NewOid(1 << 40), NewRid(42), NewId64(0), NewSid(99), NewId32(0xFFFFFFF)}

	for _, c := range cells {
		got := roundTrip(t, c)
		assert.True(t, c.Equal(got))
	}
}

func TestWriteRead_TextFamilies(t *testing.T) {
	cells := []Cell{
		NewText(String, "hello"),
		NewText(Html, "<b>hi</b>"),
		NewText(Xml, "<a/>"),
		NewText(Latin1, "caf"),
		NewText(Ascii, "plain"),
		NewText(Url, "http://example.com"),
	}

	for _, c := range cells {
		got := roundTrip(t, c)
		assert.True(t, c.Equal(got))
	}
}

func TestWriteRead_EmptyText(t *testing.T) {
	c := NewText(Ascii, "")
	got := roundTrip(t, c)
	assert.Equal(t, "", got.Text())
}

func TestWrite_NonASCIIAsciiKindRejected(t *testing.T) {
	_, err := Write(nil, NewText(Ascii, "caf\xe9"), false, false)
	require.ErrorIs(t, err, errs.ErrWrongDataFormat)
}

func TestWrite_NonASCIIUrlKindRejected(t *testing.T) {
	_, err := Write(nil, NewText(Url, "http://example.com/\xe9"), false, false)
	require.ErrorIs(t, err, errs.ErrWrongDataFormat)
}

func TestWrite_NonASCIILatin1KindAllowed(t *testing.T) {
	// Latin1 carries the full Latin-1 byte range; only Ascii and Url get
	// the stricter 7-bit check.
	_, err := Write(nil, NewText(Latin1, "caf\xe9"), false, false)
	require.NoError(t, err)
}

func TestWriteRead_ByteArrayFamilies(t *testing.T) {
	cells := []Cell{
		NewBytes(Lob, []byte{1, 2, 3}),
		NewBytes(Img, []byte{}),
		NewBytes(Pic, []byte("picture-bytes")),
		NewBytes(Bml, []byte("nested-doc")),
	}

	for _, c := range cells {
		got := roundTrip(t, c)
		assert.True(t, c.Equal(got))
	}
}

func TestWrite_CompressionBelowThresholdIsDeclined(t *testing.T) {
	c := NewText(String, "short")
	enc, err := Write(nil, c, false, true)
	require.NoError(t, err)

	h, ok, err := Peek(enc)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, h.Compressed)
}

func TestWrite_CompressionAboveThresholdIsApplied(t *testing.T) {
	long := strings.Repeat("a", compress.Threshold+50)
	c := NewText(String, long)
	enc, err := Write(nil, c, false, true)
	require.NoError(t, err)

	h, ok, err := Peek(enc)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, h.Compressed)

	got, _, err := Read(enc)
	require.NoError(t, err)
	assert.Equal(t, long, got.Text())
}

func TestWrite_NoCompressRequestNeverCompresses(t *testing.T) {
	long := strings.Repeat("b", compress.Threshold+50)
	c := NewText(String, long)
	enc, err := Write(nil, c, false, false)
	require.NoError(t, err)

	h, ok, err := Peek(enc)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, h.Compressed)
}

func TestWrite_InvalidKindFails(t *testing.T) {
	var c Cell // zero value has kind Null; this test is in package cell, so it can set the unexported kind field
	c.kind = Kind(6) // a gap in the table
	_, err := Write(nil, c, false, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidProtocol)
}

func TestPeek_EmptyIsPending(t *testing.T) {
	_, ok, err := Peek(nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPeek_UnknownKindByteErrors(t *testing.T) {
	_, _, err := Peek([]byte{6}) // gap kind code
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidProtocol)
}

func TestPeek_CompressFlagOnNonCompressibleKindErrors(t *testing.T) {
	_, _, err := Peek([]byte{byte(Int32) | CompressFlag})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidProtocol)
}

func TestPeek_TruncatedLengthPrefixIsPending(t *testing.T) {
	// A String kind byte with no length bytes following yet.
	_, ok, err := Peek([]byte{byte(String)})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPeek_TruncatedMByteValueIsPending(t *testing.T) {
	_, ok, err := Peek([]byte{byte(Oid)})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRead_TruncatedPayloadErrors(t *testing.T) {
	enc, err := Write(nil, NewInt32(5), false, false)
	require.NoError(t, err)

	_, _, err = Read(enc[:len(enc)-1])
	require.Error(t, err)
}

func TestRead_NamePseudoKindCoercesToCanonical(t *testing.T) {
	// FrameName on the wire carries a plain 4-byte id, same layout as Atom.
	enc := []byte{byte(FrameName), 0, 0, 0, 42}

	got, consumed, err := Read(enc)
	require.NoError(t, err)
	assert.Equal(t, len(enc), consumed)
	assert.Equal(t, Atom, got.Kind())
	assert.Equal(t, uint32(42), got.Atom())
}

func TestRead_DateTimeOldAndNewDecodeToSameInstant(t *testing.T) {
	// Legacy streams order the pair (time, date); new streams order it
	// (date, time). Both must decode to the same date/time/UTC triple.
	dt := time.Date(2020, time.June, 15, 14, 30, 0, 0, time.UTC)
	c := NewDateTime(dt, true)

	encNew, err := Write(nil, c, false, false)
	require.NoError(t, err)
	require.Equal(t, byte(DateTimeNew), encNew[0])

	encOld := []byte{byte(DateTimeOld)}
	encOld = append(encOld, encNew[5:9]...) // packed time (+UTC flag)
	encOld = append(encOld, encNew[1:5]...) // julian day

	oldCell, _, err := Read(encOld)
	require.NoError(t, err)
	newCell, _, err := Read(encNew)
	require.NoError(t, err)

	assert.Equal(t, DateTimeOld, oldCell.Kind())
	assert.Equal(t, newCell.Date(), oldCell.Date())

	h1, m1, s1, ms1 := newCell.Time()
	h2, m2, s2, ms2 := oldCell.Time()
	assert.Equal(t, [4]int{h1, m1, s1, ms1}, [4]int{h2, m2, s2, ms2})

	assert.True(t, oldCell.IsUTC())
	assert.True(t, newCell.IsUTC())
}

func TestWrite_DateTimeRoundTripKeepsUTCFlag(t *testing.T) {
	dt := time.Date(2020, time.June, 15, 14, 30, 0, 0, time.UTC)

	got := roundTrip(t, NewDateTime(dt, true))
	assert.True(t, got.IsUTC())
	assert.Equal(t, "2020-06-15", got.Date().Format("2006-01-02"))

	got = roundTrip(t, NewDateTime(dt, false))
	assert.False(t, got.IsUTC())
}

func TestWrite_CompressedEnvelopeCarriesOriginalLength(t *testing.T) {
	text := strings.Repeat("x", 200)
	enc, err := Write(nil, NewText(Latin1, text), false, true)
	require.NoError(t, err)

	require.Equal(t, byte(Latin1)|CompressFlag, enc[0])

	h, ok, err := Peek(enc)
	require.NoError(t, err)
	require.True(t, ok)

	// The envelope leads with the original payload length: the 200 text
	// bytes plus the terminating NUL the length always counts.
	envelope := enc[h.HdrLen:]
	want := uint32(len(text) + 1)
	assert.Equal(t, want, binary.BigEndian.Uint32(envelope[:4]))
}

func TestReadCString_TrimsTrailingNULs(t *testing.T) {
	// Ascii kind byte + vbyte length(3) + "ab" + NUL
	enc := []byte{byte(Ascii), 3, 'a', 'b', 0}

	got, consumed, err := Read(enc)
	require.NoError(t, err)
	assert.Equal(t, len(enc), consumed)
	assert.Equal(t, "ab", got.Text())
}

func TestWrite_UnistrIncludesTerminatingNUL(t *testing.T) {
	enc, err := Write(nil, NewText(String, "hi"), false, false)
	require.NoError(t, err)

	// type byte, vbyte length 3 (two text bytes + NUL), "hi\x00"
	assert.Equal(t, []byte{byte(String), 3, 'h', 'i', 0}, enc)

	got, consumed, err := Read(enc)
	require.NoError(t, err)
	assert.Equal(t, len(enc), consumed)
	assert.Equal(t, "hi", got.Text())
}

func TestDataOnlyWrite_BooleanPlaceholders(t *testing.T) {
	for _, tc := range []struct {
		c    Cell
		want byte
	}{
		{NewNull(), 0},
		{NewBool(false), 0},
		{NewBool(true), 1},
	} {
		enc, err := Write(nil, tc.c, true, false)
		require.NoError(t, err)
		assert.Equal(t, []byte{tc.want}, enc, "kind %d", tc.c.Kind())
	}
}

func TestDataOnlyWrite_EmptyBinaryPlaceholder(t *testing.T) {
	enc, err := Write(nil, NewBytes(Lob, nil), true, false)
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, enc)
}

func TestDataOnlyWrite_OmitsTypeByteAndLength(t *testing.T) {
	c := NewInt32(5)
	enc, err := Write(nil, c, true, false)
	require.NoError(t, err)
	assert.Len(t, enc, 4) // just the 4 big-endian payload bytes
}

func TestMaxHeaderLen(t *testing.T) {
	// One type byte plus a maximum-length vbyte-64: the widest header any
	// kind can need (an Oid/Rid/Id64 carrying a value near 2^64).
	assert.Equal(t, 1+9, MaxHeaderLen())
}

func TestPeek_MaxLengthOidHeaderResolves(t *testing.T) {
	enc, err := Write(nil, NewOid(^uint64(0)), false, false)
	require.NoError(t, err)
	require.Len(t, enc, 10)

	h, ok, err := Peek(enc)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, len(enc), h.TotalLen())
}
