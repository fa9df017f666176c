package cell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmlformat/tml/errs"
	"github.com/tmlformat/tml/nametag"
	"github.com/tmlformat/tml/timeslot"
)

func TestToString_Scalars(t *testing.T) {
	assert.Equal(t, "", NewNull().ToString(false))
	assert.Equal(t, "", NewInvalid().ToString(false))
	assert.Equal(t, "true", NewBool(true).ToString(false))
	assert.Equal(t, "false", NewBool(false).ToString(false))
	assert.Equal(t, "-5", NewInt32(-5).ToString(false))
	assert.Equal(t, "5", NewUInt32(5).ToString(false))
	assert.Equal(t, "7", NewUInt8(7).ToString(false))
	assert.Equal(t, "60000", NewUInt16(60000).ToString(false))
}

func TestToString_Date(t *testing.T) {
	d := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-15", NewDate(d).ToString(false))
}

func TestToString_Time(t *testing.T) {
	tm := time.Date(2000, 1, 1, 1, 2, 3, 4*int(time.Millisecond), time.UTC)
	assert.Equal(t, "01:02:03.004", NewTime(tm).ToString(false))
}

func TestToString_DateTimeISO8601(t *testing.T) {
	dt := time.Date(2024, time.March, 15, 1, 2, 3, 4*int(time.Millisecond), time.UTC)
	assert.Equal(t, "2024-03-15T01:02:03.004Z", NewDateTime(dt, true).ToString(false))
	assert.Equal(t, "2024-03-15T01:02:03.004", NewDateTime(dt, false).ToString(false))
}

func TestToString_TimeSlot(t *testing.T) {
	c := NewTimeSlot(timeslot.New(600, 30))
	assert.Equal(t, "600+30", c.ToString(false))
}

func TestToString_Tag(t *testing.T) {
	c := NewTag(nametag.FromString("abcd"))
	assert.Equal(t, "abcd", c.ToString(false))
}

func TestToString_TextKinds(t *testing.T) {
	assert.Equal(t, "plain", NewText(Ascii, "plain").ToString(false))
	assert.Equal(t, "<b>x</b>", NewText(Html, "<b>x</b>").ToString(false))
	assert.Equal(t, "x", NewText(Html, "<b>x</b>").ToString(true))
}

func TestToString_Uuid(t *testing.T) {
	var id [16]byte
	for i := range id {
		id[i] = byte(i)
	}
	c := NewUuid(id)
	assert.Equal(t, "{00010203-0405-0607-0809-0a0b0c0d0e0f}", c.ToString(false))
}

func TestToID64_IntegerLikeKinds(t *testing.T) {
	v, err := NewAtom(5).ToID64()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v)

	v, err = NewOid(7).ToID64()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)

	v, err = NewUInt64(9).ToID64()
	require.NoError(t, err)
	assert.Equal(t, uint64(9), v)
}

func TestToID64_NonIntegerKindFails(t *testing.T) {
	_, err := NewText(Ascii, "x").ToID64()
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrIncompleteImplementation)
}

func TestEqual_DifferentKindsNeverEqual(t *testing.T) {
	assert.False(t, NewInt32(1).Equal(NewUInt32(1)))
}

func TestEqual_Uuid(t *testing.T) {
	var a, b [16]byte
	a[0] = 1
	b[0] = 1
	assert.True(t, NewUuid(a).Equal(NewUuid(b)))

	b[0] = 2
	assert.False(t, NewUuid(a).Equal(NewUuid(b)))
}

func TestEqual_Tag(t *testing.T) {
	a := NewTag(nametag.FromString("abcd"))
	b := NewTag(nametag.FromString("abcd"))
	c := NewTag(nametag.FromString("wxyz"))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestEqual_Text(t *testing.T) {
	assert.True(t, NewText(String, "x").Equal(NewText(String, "x")))
	assert.False(t, NewText(String, "x").Equal(NewText(String, "y")))
}

func TestEqual_ByteArray(t *testing.T) {
	assert.True(t, NewBytes(Lob, []byte{1, 2}).Equal(NewBytes(Lob, []byte{1, 2})))
	assert.False(t, NewBytes(Lob, []byte{1, 2}).Equal(NewBytes(Lob, []byte{1, 3})))
}
