package ecmastr

import (
	"math"

	"github.com/embeddedjs/ecmastr/internal/cesu8"
	"github.com/embeddedjs/ecmastr/internal/ecmaerrors"
	"github.com/embeddedjs/ecmastr/internal/jsnumber"
	"github.com/embeddedjs/ecmastr/littab"
)

// contentView returns the string's encoded content. Containers holding
// their content directly return a view of that storage; SmallUint and
// Number render into scratch, which the caller passes with zero length
// and at least jsnumber.MaxStringifiedLength capacity.
func (s *String) contentView(scratch []byte) []byte {
	switch s.container {
	case ContainerInterned:
		return s.ctx.literals.CharsetBytes(littab.Handle(s.value))
	case ContainerMagic:
		return littab.MagicBytes(littab.MagicID(s.value))
	case ContainerMagicEx:
		return s.ctx.extended.Bytes(littab.ExtMagicID(s.value))
	case ContainerSmallUint:
		return jsnumber.AppendUint32(scratch, s.value)
	case ContainerNumber:
		return jsnumber.AppendFloat(scratch, s.number)
	default:
		return s.data
	}
}

// CopyBytes writes the string's content into buf and returns the number
// of bytes written. When buf is too small, or has zero length, nothing is
// written and the negated required size is returned instead.
func (s *String) CopyBytes(buf []byte) int {
	required := s.Size()
	if required > len(buf) || len(buf) == 0 {
		return -required
	}

	var scratch [jsnumber.MaxStringifiedLength]byte
	n := copy(buf, s.contentView(scratch[:0]))
	ecmaerrors.Assertf(n == required, "CopyBytes", "wrote %d of %d bytes", n, required)
	return n
}

// Bytes returns the string's content as a freshly allocated Go byte
// slice.
func (s *String) Bytes() []byte {
	var scratch [jsnumber.MaxStringifiedLength]byte
	view := s.contentView(scratch[:0])

	out := make([]byte, len(view))
	copy(out, view)
	return out
}

// String returns the content as a Go string, converting surrogate pairs
// back into supplementary characters.
func (s *String) String() string {
	var scratch [jsnumber.MaxStringifiedLength]byte
	return cesu8.ToUTF8(s.contentView(scratch[:0]))
}

// CharAt returns the code unit at the given position. The position must
// be below Length.
func (s *String) CharAt(index int) uint16 {
	ecmaerrors.Assertf(index >= 0 && index < s.Length(), "CharAt",
		"position %d out of range", index)

	var scratch [jsnumber.MaxStringifiedLength]byte
	return cesu8.CodeUnitAt(s.contentView(scratch[:0]), index)
}

// ByteAt returns the content byte at the given offset. The offset must be
// below Size.
func (s *String) ByteAt(index int) byte {
	ecmaerrors.Assertf(index >= 0 && index < s.Size(), "ByteAt",
		"offset %d out of range", index)

	var scratch [jsnumber.MaxStringifiedLength]byte
	return s.contentView(scratch[:0])[index]
}

// ToNumber converts the string to a number per the language's string to
// number conversion. Descriptors that already hold a number convert
// without materializing content.
func (s *String) ToNumber() float64 {
	switch s.container {
	case ContainerSmallUint:
		return float64(s.value)
	case ContainerNumber:
		return s.number
	default:
		var scratch [jsnumber.MaxStringifiedLength]byte
		return jsnumber.Parse(s.contentView(scratch[:0]))
	}
}

// ArrayIndex reports whether the string is a valid array index and
// returns the index when it is. A valid index is the canonical decimal
// rendering of a uint32 below the maximum, so "01", "-1", and
// "4294967295" all fail.
func (s *String) ArrayIndex() (uint32, bool) {
	var index uint32
	ok := true

	if s.container == ContainerSmallUint {
		index = s.value
	} else {
		index = jsnumber.ToUint32(s.ToNumber())

		canonical := s.ctx.FromUint32(index)
		ok = s.Equals(canonical)
		canonical.Deref()
	}

	if index == math.MaxUint32 {
		ok = false
	}
	return index, ok
}
