package ecmastr

import (
	"github.com/embeddedjs/ecmastr/internal/cesu8"
	"github.com/embeddedjs/ecmastr/internal/ecmaerrors"
	"github.com/embeddedjs/ecmastr/internal/jsnumber"
)

// Concat returns the concatenation of s and other as a new reference.
// When either side is empty the other side is shared through Dup instead
// of copied. The result must stay within the string size ceiling.
func (s *String) Concat(other *String) *String {
	size1 := s.Size()
	size2 := other.Size()
	if size1 == 0 {
		return other.Dup()
	}
	if size2 == 0 {
		return s.Dup()
	}

	newSize := size1 + size2
	ecmaerrors.Assertf(newSize <= MaxStringSize, "Concat",
		"combined size %d exceeds %d", newSize, MaxStringSize)

	block := s.ctx.alloc.Alloc(newSize)
	var scratch [jsnumber.MaxStringifiedLength]byte
	n := copy(block, s.contentView(scratch[:0]))
	copy(block[n:], other.contentView(scratch[:0]))

	// The content hash folds bytes left to right, so the hash of the
	// whole is the first side's hash folded over the second side's bytes.
	return &String{
		ctx:       s.ctx,
		refs:      1,
		container: ContainerChunk,
		hash:      cesu8.HashCombine(s.hash, block[size1:]),
		data:      block,
		length:    uint16(s.Length() + other.Length()),
	}
}

// Substring returns the code units in [start, end) as a new reference.
// Both bounds must be within the string's length; an empty range yields
// the empty string.
func (s *String) Substring(start, end int) *String {
	length := s.Length()
	ecmaerrors.Assertf(start >= 0 && start <= length, "Substring",
		"start %d out of range", start)
	ecmaerrors.Assertf(end >= 0 && end <= length, "Substring",
		"end %d out of range", end)

	if start >= end {
		return s.ctx.Empty()
	}

	var scratch [jsnumber.MaxStringifiedLength]byte
	view := s.contentView(scratch[:0])

	from := 0
	for range start {
		from += cesu8.CharSize(view[from])
	}
	to := from
	for range end - start {
		to += cesu8.CharSize(view[to])
	}

	return s.ctx.FromBytes(view[from:to])
}

// Trim returns the string stripped of leading and trailing whitespace and
// line terminators, as a new reference.
func (s *String) Trim() *String {
	var scratch [jsnumber.MaxStringifiedLength]byte
	view := s.contentView(scratch[:0])

	for len(view) > 0 {
		unit, n := cesu8.DecodeCodeUnit(view)
		if !cesu8.IsWhiteSpace(unit) && !cesu8.IsLineTerminator(unit) {
			break
		}
		view = view[n:]
	}
	for len(view) > 0 {
		unit, n := cesu8.DecodeLastCodeUnit(view)
		if !cesu8.IsWhiteSpace(unit) && !cesu8.IsLineTerminator(unit) {
			break
		}
		view = view[:len(view)-n]
	}

	if len(view) == 0 {
		return s.ctx.Empty()
	}
	return s.ctx.FromBytes(view)
}
