// Package vbyte implements the two continuation-bit variable-length unsigned
// integer encodings used on the tml wire: a 5-byte-max flavor for values that
// fit a uint32, and a 9-byte-max flavor for values that fit a uint64.
//
// Both encodings pack 7 payload bits per byte with the high bit set on every
// byte but the last, except that the final byte of a *maximum-length*
// encoding carries a full 8 bits instead of 7 (it has no continuation bit to
// spare). This asymmetry must be preserved exactly: it is load-bearing for
// data already persisted by this format's predecessors.
package vbyte

import "github.com/tmlformat/tml/errs"

// MaxLen32 is the largest number of bytes a vbyte-32 encoding can occupy.
const MaxLen32 = 5

// MaxLen64 is the largest number of bytes a vbyte-64 encoding can occupy.
const MaxLen64 = 9

// EncodeUint32 appends the vbyte-32 encoding of v to dst and returns the
// extended slice.
func EncodeUint32(dst []byte, v uint32) []byte {
	switch {
	case v <= 0x7F:
		return append(dst, byte(v))
	case v <= 0x3FFF:
		return append(dst,
			byte((v>>7)&0x7F)|0x80,
			byte(v&0x7F),
		)
	case v <= 0x1FFFFF:
		return append(dst,
			byte((v>>14)&0x7F)|0x80,
			byte((v>>7)&0x7F)|0x80,
			byte(v&0x7F),
		)
	case v <= 0xFFFFFFF:
		return append(dst,
			byte((v>>21)&0x7F)|0x80,
			byte((v>>14)&0x7F)|0x80,
			byte((v>>7)&0x7F)|0x80,
			byte(v&0x7F),
		)
	default:
		return append(dst,
			byte((v>>29)&0x7F)|0x80,
			byte((v>>22)&0x7F)|0x80,
			byte((v>>15)&0x7F)|0x80,
			byte((v>>8)&0x7F)|0x80,
			byte(v&0xFF),
		)
	}
}

// EncodeUint64 appends the vbyte-64 encoding of v to dst and returns the
// extended slice.
//
// Byte count is chosen by the smallest n in [1,8] such that v fits in n*7
// bits; beyond that, a 9th full byte is appended to cover the remaining bits
// of a uint64.
func EncodeUint64(dst []byte, v uint64) []byte {
	switch {
	case v <= 0x7F:
		return append(dst, byte(v))
	case v <= 0x3FFF:
		return append(dst, byte((v>>7)&0x7F)|0x80, byte(v&0x7F))
	case v <= 0x1FFFFF:
		return append(dst,
			byte((v>>14)&0x7F)|0x80,
			byte((v>>7)&0x7F)|0x80,
			byte(v&0x7F),
		)
	case v <= 0xFFFFFFF:
		return append(dst,
			byte((v>>21)&0x7F)|0x80,
			byte((v>>14)&0x7F)|0x80,
			byte((v>>7)&0x7F)|0x80,
			byte(v&0x7F),
		)
	case v <= 0x7FFFFFFFF:
		return append(dst,
			byte((v>>28)&0x7F)|0x80,
			byte((v>>21)&0x7F)|0x80,
			byte((v>>14)&0x7F)|0x80,
			byte((v>>7)&0x7F)|0x80,
			byte(v&0x7F),
		)
	case v <= 0x3FFFFFFFFFF:
		return append(dst,
			byte((v>>35)&0x7F)|0x80,
			byte((v>>28)&0x7F)|0x80,
			byte((v>>21)&0x7F)|0x80,
			byte((v>>14)&0x7F)|0x80,
			byte((v>>7)&0x7F)|0x80,
			byte(v&0x7F),
		)
	case v <= 0x1FFFFFFFFFFFF:
		return append(dst,
			byte((v>>42)&0x7F)|0x80,
			byte((v>>35)&0x7F)|0x80,
			byte((v>>28)&0x7F)|0x80,
			byte((v>>21)&0x7F)|0x80,
			byte((v>>14)&0x7F)|0x80,
			byte((v>>7)&0x7F)|0x80,
			byte(v&0x7F),
		)
	case v <= 0xFFFFFFFFFFFFFF:
		return append(dst,
			byte((v>>49)&0x7F)|0x80,
			byte((v>>42)&0x7F)|0x80,
			byte((v>>35)&0x7F)|0x80,
			byte((v>>28)&0x7F)|0x80,
			byte((v>>21)&0x7F)|0x80,
			byte((v>>14)&0x7F)|0x80,
			byte((v>>7)&0x7F)|0x80,
			byte(v&0x7F),
		)
	default:
		return append(dst,
			byte((v>>57)&0x7F)|0x80,
			byte((v>>50)&0x7F)|0x80,
			byte((v>>43)&0x7F)|0x80,
			byte((v>>36)&0x7F)|0x80,
			byte((v>>29)&0x7F)|0x80,
			byte((v>>22)&0x7F)|0x80,
			byte((v>>15)&0x7F)|0x80,
			byte((v>>8)&0x7F)|0x80,
			byte(v&0xFF),
		)
	}
}

// PeekUint32 returns the number of bytes a vbyte-32 value would consume from
// the front of src without consuming anything. It returns ok=false if src is
// a truncated prefix of a valid encoding.
func PeekUint32(src []byte) (n int, ok bool) {
	return peek(src, MaxLen32)
}

// PeekUint64 returns the number of bytes a vbyte-64 value would consume from
// the front of src without consuming anything. It returns ok=false if src is
// a truncated prefix of a valid encoding.
func PeekUint64(src []byte) (n int, ok bool) {
	return peek(src, maxLen)
}

const maxLen = MaxLen64

func peek(src []byte, maxN int) (int, bool) {
	n := 0
	for n < len(src) && n < maxN-1 {
		if src[n]&0x80 == 0 {
			break
		}
		n++
	}

	if n < maxN-1 {
		// The byte that stopped the loop above (continuation clear, or we
		// ran out of scan room) must itself be present.
		if n >= len(src) {
			return 0, false
		}
	}
	n++
	if n > len(src) {
		return 0, false
	}

	return n, true
}

// DecodeUint32 decodes a vbyte-32 value from the front of src. It returns the
// decoded value, the number of bytes consumed, and ok=false if src is a
// truncated prefix.
func DecodeUint32(src []byte) (v uint32, n int, ok bool) {
	n, ok = PeekUint32(src)
	if !ok {
		return 0, 0, false
	}

	var out uint32
	for j := range n {
		if j < MaxLen32-1 {
			out <<= 7
			out |= uint32(src[j]) & 0x7F
		} else {
			out <<= 8
			out |= uint32(src[j])
		}
	}

	return out, n, true
}

// DecodeUint64 decodes a vbyte-64 value from the front of src. It returns the
// decoded value, the number of bytes consumed, and ok=false if src is a
// truncated prefix.
func DecodeUint64(src []byte) (v uint64, n int, ok bool) {
	n, ok = PeekUint64(src)
	if !ok {
		return 0, 0, false
	}

	var out uint64
	for j := range n {
		if j < MaxLen64-1 {
			out <<= 7
			out |= uint64(src[j]) & 0x7F
		} else {
			out <<= 8
			out |= uint64(src[j])
		}
	}

	return out, n, true
}

// ErrOverflow reports that a value exceeds the representable range for its
// vbyte flavor. It is the same value as errs.ErrWrongDataFormat. Neither
// EncodeUint32 nor EncodeUint64 can overflow since their inputs are already
// width-bound, and no function in this module returns it.
var ErrOverflow = errs.ErrWrongDataFormat
