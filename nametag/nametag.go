// Package nametag implements the 4-byte ASCII tag used as a compact,
// O(1)-comparable name for frames and slots on the tml wire.
package nametag

import "github.com/tmlformat/tml/endian"

// Size is the fixed wire width of a NameTag.
const Size = 4

// NameTag is a 4-byte buffer aliased with a big-endian uint32 id so that two
// tags compare equal (or order) by a single integer comparison instead of a
// byte-by-byte scan.
type NameTag struct {
	Tag [Size]byte
}

// Null is the zero NameTag; ID() == 0 for it.
var Null NameTag

// FromString builds a NameTag from up to the first 4 bytes of s. Shorter
// names are zero-padded for deterministic equality and hashing.
func FromString(s string) NameTag {
	var nt NameTag
	n := len(s)
	if n > Size {
		n = Size
	}
	copy(nt.Tag[:], s[:n])

	return nt
}

// FromBytes builds a NameTag from a raw 4-byte buffer, as read directly off
// the wire.
func FromBytes(b [Size]byte) NameTag {
	return NameTag{Tag: b}
}

// ID returns the big-endian uint32 view of the tag bytes. ID() == 0 iff the
// tag is null.
func (nt NameTag) ID() uint32 {
	return endian.GetBigEndianEngine().Uint32(nt.Tag[:])
}

// IsNull reports whether the tag is the zero value.
func (nt NameTag) IsNull() bool {
	return nt.ID() == 0
}

// String returns the tag's 4-character ASCII view, trailing NUL bytes
// included verbatim (callers that want a trimmed view should TrimRight the
// result themselves).
func (nt NameTag) String() string {
	return string(nt.Tag[:])
}

// Equal reports whether two tags carry the same id.
func (nt NameTag) Equal(other NameTag) bool {
	return nt.ID() == other.ID()
}

// Less orders tags by id, for use in sorted containers.
func (nt NameTag) Less(other NameTag) bool {
	return nt.ID() < other.ID()
}
