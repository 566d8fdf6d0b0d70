// Package ecmastr implements the string values of an embedded ECMAScript
// engine: reference counted descriptors whose content lives in one of six
// containers, from a uint32 rendered on demand to an allocator backed
// chunk of encoded code units.
//
// Content is held in a UTF-16-code-unit-preserving UTF-8 form (see the
// internal cesu8 package), every descriptor carries a content hash, and
// equality gates on the hash before touching content. Strings, their
// Context, and every collaborator are confined to one goroutine.
package ecmastr

import (
	"math"

	"github.com/embeddedjs/ecmastr/internal/cesu8"
	"github.com/embeddedjs/ecmastr/internal/ecmaerrors"
	"github.com/embeddedjs/ecmastr/internal/jsnumber"
	"github.com/embeddedjs/ecmastr/littab"
)

// Size and length ceilings of a single string. Both stem from the 16-bit
// header fields of chunk storage.
const (
	MaxStringSize   = math.MaxUint16
	MaxStringLength = math.MaxUint16
)

// String is a reference counted string value. Strings are created through
// a Context, shared with Dup, and released with Deref; they are immutable
// for their whole lifetime.
type String struct {
	ctx       *Context
	refs      uint32
	container Container
	hash      uint32

	// Exactly one of the payload fields below is active, selected by
	// container.
	value  uint32  // SmallUint value, magic string id, or literal handle
	number float64 // Number content
	data   []byte  // Chunk content, an allocator block
	length uint16  // Chunk code unit count
}

// FromBytes creates a string from encoded content. Content matching a
// magic string yields the magic container; anything else is copied into an
// allocator chunk.
func (c *Context) FromBytes(b []byte) *String {
	ecmaerrors.Assertf(cesu8.Valid(b), "FromBytes", "content is not well formed")
	ecmaerrors.Assertf(len(b) <= MaxStringSize, "FromBytes",
		"size %d exceeds %d", len(b), MaxStringSize)

	if id, ok := littab.LookupMagic(b); ok {
		return c.newMagic(id)
	}
	if id, ok := c.extended.Lookup(b); ok {
		return c.newMagicEx(id)
	}
	return c.newChunk(b, cesu8.Length(b), cesu8.HashBytes(b))
}

// FromCodeUnit creates a single code unit string.
func (c *Context) FromCodeUnit(unit uint16) *String {
	var buf [3]byte
	return c.FromBytes(buf[:cesu8.EncodeCodeUnit(buf[:], unit)])
}

// FromUint32 creates a string rendering v in decimal. The value stays in
// the descriptor; content is produced on demand.
func (c *Context) FromUint32(v uint32) *String {
	var scratch [jsnumber.MaxStringifiedLength]byte
	digits := jsnumber.AppendUint32(scratch[:0], v)

	return &String{
		ctx:       c,
		refs:      1,
		container: ContainerSmallUint,
		hash:      cesu8.HashBytes(digits),
		value:     v,
	}
}

// FromNumber creates a string rendering f per the language's number to
// string conversion. Values that round-trip through uint32 take the
// SmallUint container, renderings that match a magic string take the
// magic containers, and everything else keeps the number in the
// descriptor.
func (c *Context) FromNumber(f float64) *String {
	u := jsnumber.ToUint32(f)
	if f == float64(u) {
		return c.FromUint32(u)
	}

	var scratch [jsnumber.MaxStringifiedLength]byte
	render := jsnumber.AppendFloat(scratch[:0], f)

	if id, ok := littab.LookupMagic(render); ok {
		return c.newMagic(id)
	}
	if id, ok := c.extended.Lookup(render); ok {
		return c.newMagicEx(id)
	}

	return &String{
		ctx:       c,
		refs:      1,
		container: ContainerNumber,
		hash:      cesu8.HashBytes(render),
		number:    f,
	}
}

// FromLiteral creates a string referring to an interned literal. Records
// backed by magic strings come out in the magic containers.
func (c *Context) FromLiteral(h littab.Handle) *String {
	switch c.literals.Kind(h) {
	case littab.KindMagic:
		return c.newMagic(c.literals.MagicID(h))
	case littab.KindMagicEx:
		return c.newMagicEx(c.literals.ExtMagicID(h))
	default:
		return &String{
			ctx:       c,
			refs:      1,
			container: ContainerInterned,
			hash:      c.literals.CharsetHash(h),
			value:     uint32(h),
		}
	}
}

// FromMagic creates a string referring to a fixed magic string.
func (c *Context) FromMagic(id littab.MagicID) *String {
	ecmaerrors.Assertf(int(id) < littab.MagicCount(), "FromMagic",
		"invalid magic string id %d", id)
	return c.newMagic(id)
}

// FromExtendedMagic creates a string referring to an extended magic
// string registered with the Context.
func (c *Context) FromExtendedMagic(id littab.ExtMagicID) *String {
	ecmaerrors.Assertf(int(id) < c.extended.Count(), "FromExtendedMagic",
		"invalid extended magic string id %d", id)
	return c.newMagicEx(id)
}

// FromGoString creates a string from a Go string, converting supplementary
// characters to surrogate pairs.
func (c *Context) FromGoString(s string) *String {
	return c.FromBytes(cesu8.FromUTF8(s))
}

// Empty returns a new reference to the empty string.
func (c *Context) Empty() *String {
	return c.newMagic(littab.EmptyMagicID)
}

func (c *Context) newMagic(id littab.MagicID) *String {
	return &String{
		ctx:       c,
		refs:      1,
		container: ContainerMagic,
		hash:      cesu8.HashBytes(littab.MagicBytes(id)),
		value:     uint32(id),
	}
}

func (c *Context) newMagicEx(id littab.ExtMagicID) *String {
	return &String{
		ctx:       c,
		refs:      1,
		container: ContainerMagicEx,
		hash:      cesu8.HashBytes(c.extended.Bytes(id)),
		value:     uint32(id),
	}
}

func (c *Context) newChunk(b []byte, length int, hash uint32) *String {
	block := c.alloc.Alloc(len(b))
	copy(block, b)

	return &String{
		ctx:       c,
		refs:      1,
		container: ContainerChunk,
		hash:      hash,
		data:      block,
		length:    uint16(length),
	}
}

// Dup returns an additional reference to the string. When the reference
// counter saturates, the lookup cache is dropped and the collector runs to
// release references; if the counter still has not moved the content is
// copied into an independent descriptor instead.
func (s *String) Dup() *String {
	ecmaerrors.Assertf(s.refs > 0, "Dup", "use after final release")

	s.refs++
	if s.refs == 0 {
		// The counter wrapped around.
		s.refs--
		current := s.refs

		if s.ctx.lookup != nil {
			s.ctx.lookup.InvalidateAll()
		}
		if s.ctx.collect != nil {
			s.ctx.collect.Run()
		}

		if current == s.refs {
			return s.deepCopy()
		}

		s.refs++
		ecmaerrors.Assertf(s.refs != 0, "Dup", "reference counter still saturated")
	}
	return s
}

// Deref releases one reference. Releasing the last reference frees the
// owned payload; the descriptor must not be used afterwards.
func (s *String) Deref() {
	ecmaerrors.Assertf(s.refs > 0, "Deref", "use after final release")

	s.refs--
	if s.refs != 0 {
		return
	}

	if s.container == ContainerChunk {
		s.ctx.alloc.Free(s.data)
		s.data = nil
	}
}

func (s *String) deepCopy() *String {
	var dup *String

	switch s.container {
	case ContainerInterned, ContainerSmallUint, ContainerMagic, ContainerMagicEx:
		clone := *s
		clone.refs = 1
		dup = &clone
	case ContainerNumber:
		dup = s.ctx.FromNumber(s.number)
	default:
		block := s.ctx.alloc.Alloc(len(s.data))
		copy(block, s.data)
		clone := *s
		clone.refs = 1
		clone.data = block
		dup = &clone
	}

	ecmaerrors.Assertf(s.Equals(dup), "Dup", "copy does not match its source")
	return dup
}

// AssertDiscardable checks that the string holds its single reference and
// owns no payload, so a stack held value can be abandoned without Deref.
func (s *String) AssertDiscardable() {
	ecmaerrors.Assertf(s.refs == 1, "AssertDiscardable",
		"string has %d references", s.refs)
	switch s.container {
	case ContainerInterned, ContainerSmallUint, ContainerMagic, ContainerMagicEx:
	default:
		panic(ecmaerrors.NewAssertionError("AssertDiscardable",
			"%s strings must be released with Deref", s.container))
	}
}

// Container returns the string's content container.
func (s *String) Container() Container {
	return s.container
}

// Hash returns the content hash computed when the string was created.
func (s *String) Hash() uint32 {
	return s.hash
}

// Length returns the number of code units in the string.
func (s *String) Length() int {
	switch s.container {
	case ContainerInterned:
		return s.ctx.literals.CharsetLength(littab.Handle(s.value))
	case ContainerMagic:
		return cesu8.Length(littab.MagicBytes(littab.MagicID(s.value)))
	case ContainerMagicEx:
		return cesu8.Length(s.ctx.extended.Bytes(littab.ExtMagicID(s.value)))
	case ContainerSmallUint:
		return jsnumber.Uint32DigitCount(s.value)
	case ContainerNumber:
		// Number renderings are ASCII, so length equals size.
		return s.renderedNumberSize()
	default:
		return int(s.length)
	}
}

// Size returns the number of content bytes in the string's encoded form.
func (s *String) Size() int {
	switch s.container {
	case ContainerInterned:
		return s.ctx.literals.CharsetSize(littab.Handle(s.value))
	case ContainerMagic:
		return len(littab.MagicBytes(littab.MagicID(s.value)))
	case ContainerMagicEx:
		return len(s.ctx.extended.Bytes(littab.ExtMagicID(s.value)))
	case ContainerSmallUint:
		return jsnumber.Uint32DigitCount(s.value)
	case ContainerNumber:
		return s.renderedNumberSize()
	default:
		return len(s.data)
	}
}

func (s *String) renderedNumberSize() int {
	var scratch [jsnumber.MaxStringifiedLength]byte
	return len(jsnumber.AppendFloat(scratch[:0], s.number))
}

// IsMagic reports whether the string refers to a fixed magic string and
// returns its id when it does. Every constructor except Concat yields the
// magic container for magic content, so checking the container suffices.
func (s *String) IsMagic() (littab.MagicID, bool) {
	if s.container == ContainerMagic {
		return littab.MagicID(s.value), true
	}
	return 0, false
}

// IsExtendedMagic reports whether the string refers to an extended magic
// string and returns its id when it does.
func (s *String) IsExtendedMagic() (littab.ExtMagicID, bool) {
	if s.container == ContainerMagicEx {
		return littab.ExtMagicID(s.value), true
	}
	return 0, false
}
