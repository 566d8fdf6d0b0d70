package ecmastr

import (
	"bytes"
	"math"

	"github.com/embeddedjs/ecmastr/internal/jsnumber"
)

// Equals reports whether the two strings have the same content. Unequal
// hashes reject immediately; matching scalar descriptors accept without
// touching content; everything else falls through to the slow path.
func (s *String) Equals(other *String) bool {
	if s == other {
		return true
	}
	if s.hash != other.hash {
		return false
	}
	if s.container == other.container && s.scalarPayloadEqual(other) {
		return true
	}
	return s.equalsSlow(other)
}

// scalarPayloadEqual reports whether two descriptors with the same
// container are equal by payload alone. Only containers whose payload
// determines content byte for byte qualify.
func (s *String) scalarPayloadEqual(other *String) bool {
	switch s.container {
	case ContainerInterned, ContainerSmallUint, ContainerMagic, ContainerMagicEx:
		return s.value == other.value
	default:
		return false
	}
}

func (s *String) equalsSlow(other *String) bool {
	if s.container == other.container {
		switch s.container {
		case ContainerInterned, ContainerSmallUint, ContainerMagic, ContainerMagicEx:
			// Equal payloads were accepted on the fast path, and these
			// containers store equal content under equal payloads only.
			return false
		case ContainerNumber:
			if math.IsNaN(s.number) && math.IsNaN(other.number) {
				return true
			}
			return s.number == other.number
		default:
			if s.length != other.length || len(s.data) != len(other.data) {
				return false
			}
			return bytes.Equal(s.data, other.data)
		}
	}

	if s.Size() != other.Size() {
		return false
	}

	var scratch1, scratch2 [jsnumber.MaxStringifiedLength]byte
	return bytes.Equal(s.contentView(scratch1[:0]), other.contentView(scratch2[:0]))
}

// Less reports whether s sorts before other in the relational comparison
// order: a proper prefix sorts first, otherwise the first differing code
// unit decides. Byte order of the encoding matches code unit order, so
// the decision runs over content bytes.
func (s *String) Less(other *String) bool {
	if s.Equals(other) {
		return false
	}

	var scratch1, scratch2 [jsnumber.MaxStringifiedLength]byte
	return bytes.Compare(s.contentView(scratch1[:0]), other.contentView(scratch2[:0])) < 0
}
