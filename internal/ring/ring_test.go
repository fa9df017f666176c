package ring

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeek_DoesNotConsume(t *testing.T) {
	r := New(bytes.NewReader([]byte("hello world")))

	b1, err := r.Peek(5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b1))

	b2, err := r.Peek(5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b2))
}

func TestPeekThenDiscard(t *testing.T) {
	r := New(bytes.NewReader([]byte("abcdefghij")))

	b, err := r.Peek(3)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(b))

	r.Discard(3)

	b, err = r.Peek(3)
	require.NoError(t, err)
	assert.Equal(t, "def", string(b))
}

func TestDiscard_PanicsIfExceedsStaged(t *testing.T) {
	r := New(bytes.NewReader([]byte("ab")))
	_, err := r.Peek(2)
	require.NoError(t, err)

	assert.Panics(t, func() { r.Discard(3) })
}

func TestPeek_GrowsBufferPastInitialCapacity(t *testing.T) {
	src := bytes.Repeat([]byte("x"), 100)
	r := New(bytes.NewReader(src))

	b, err := r.Peek(100)
	require.NoError(t, err)
	assert.Len(t, b, 100)
}

func TestPeek_EOFBeforeEnoughBytes(t *testing.T) {
	r := New(bytes.NewReader([]byte("ab")))
	_, err := r.Peek(5)
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestPeek_EmptySourceIsEOF(t *testing.T) {
	r := New(bytes.NewReader(nil))
	_, err := r.Peek(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadByte_ConsumesOneByte(t *testing.T) {
	r := New(bytes.NewReader([]byte("xyz")))

	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('x'), b)

	b, err = r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('y'), b)
}

func TestReadFull_ConsumesStagedThenSource(t *testing.T) {
	r := New(bytes.NewReader([]byte("abcdefghij")))

	_, err := r.Peek(3) // stage "abc" without consuming
	require.NoError(t, err)

	out := make([]byte, 6)
	require.NoError(t, r.ReadFull(out))
	assert.Equal(t, "abcdef", string(out))
}

func TestReadFull_ShortSourceIsUnexpectedEOF(t *testing.T) {
	r := New(bytes.NewReader([]byte("ab")))

	out := make([]byte, 5)
	err := r.ReadFull(out)
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadFull_EmptySourceIsEOF(t *testing.T) {
	r := New(bytes.NewReader(nil))

	out := make([]byte, 5)
	err := r.ReadFull(out)
	require.Error(t, err)
	assert.ErrorIs(t, err, io.EOF)
}

func TestNewSize_EnforcesMinCapacity(t *testing.T) {
	r := NewSize(bytes.NewReader([]byte("hello")), 1)
	b, err := r.Peek(5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestInterleavedPeekDiscardReadByte(t *testing.T) {
	r := New(bytes.NewReader([]byte("0123456789")))

	b, err := r.Peek(2)
	require.NoError(t, err)
	assert.Equal(t, "01", string(b))
	r.Discard(2)

	bb, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('2'), bb)

	b, err = r.Peek(3)
	require.NoError(t, err)
	assert.Equal(t, "345", string(b))
}
