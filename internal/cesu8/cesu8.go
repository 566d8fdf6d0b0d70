// Package cesu8 implements the UTF-16-code-unit-preserving UTF-8 variant
// used for string payloads, plus the content hash computed over it.
//
// Encoded units are one to three bytes. Unpaired surrogate halves are
// representable in their three byte form; four byte sequences and overlong
// encodings are not valid. A consequence of the encoding is that byte-wise
// lexicographic order of two valid buffers equals UTF-16 code-unit order of
// the strings they encode.
package cesu8

import "unicode/utf16"

const (
	hashBasis = 2166136261
	hashPrime = 16777619
)

// Valid reports whether b is a well-formed sequence of encoded code units.
func Valid(b []byte) bool {
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c < 0x80:
			i++
		case c < 0xC2:
			// Stray continuation byte or overlong two byte form.
			return false
		case c < 0xE0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return false
			}
			i += 2
		case c < 0xF0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return false
			}
			if c == 0xE0 && b[i+1] < 0xA0 {
				return false
			}
			i += 3
		default:
			// Four byte sequences encode supplementary characters, which
			// must instead appear as a surrogate pair of three byte units.
			return false
		}
	}
	return true
}

// CharSize returns the encoded size of the unit starting with the given
// byte. The byte must start a unit in a valid buffer.
func CharSize(first byte) int {
	switch {
	case first < 0x80:
		return 1
	case first < 0xE0:
		return 2
	default:
		return 3
	}
}

// CodeUnitSize returns the number of bytes needed to encode unit.
func CodeUnitSize(unit uint16) int {
	switch {
	case unit < 0x80:
		return 1
	case unit < 0x800:
		return 2
	default:
		return 3
	}
}

// EncodeCodeUnit writes the encoding of unit at the start of dst and
// returns the number of bytes written. dst must have room for
// CodeUnitSize(unit) bytes.
func EncodeCodeUnit(dst []byte, unit uint16) int {
	switch {
	case unit < 0x80:
		dst[0] = byte(unit)
		return 1
	case unit < 0x800:
		dst[0] = 0xC0 | byte(unit>>6)
		dst[1] = 0x80 | byte(unit)&0x3F
		return 2
	default:
		dst[0] = 0xE0 | byte(unit>>12)
		dst[1] = 0x80 | byte(unit>>6)&0x3F
		dst[2] = 0x80 | byte(unit)&0x3F
		return 3
	}
}

// AppendCodeUnit appends the encoding of unit to dst.
func AppendCodeUnit(dst []byte, unit uint16) []byte {
	var buf [3]byte
	return append(dst, buf[:EncodeCodeUnit(buf[:], unit)]...)
}

// DecodeCodeUnit decodes the unit at the start of b and returns it with its
// encoded size. b must begin a unit of a valid buffer.
func DecodeCodeUnit(b []byte) (uint16, int) {
	c := b[0]
	switch {
	case c < 0x80:
		return uint16(c), 1
	case c < 0xE0:
		return uint16(c&0x1F)<<6 | uint16(b[1]&0x3F), 2
	default:
		return uint16(c&0x0F)<<12 | uint16(b[1]&0x3F)<<6 | uint16(b[2]&0x3F), 3
	}
}

// DecodeLastCodeUnit decodes the unit ending at len(b) and returns it with
// its encoded size. b must end on a unit boundary of a valid buffer.
func DecodeLastCodeUnit(b []byte) (uint16, int) {
	i := len(b) - 1
	for b[i]&0xC0 == 0x80 {
		i--
	}
	return DecodeCodeUnit(b[i:])
}

// Length returns the number of code units encoded in b.
func Length(b []byte) int {
	n := 0
	for _, c := range b {
		if c&0xC0 != 0x80 {
			n++
		}
	}
	return n
}

// CodeUnitAt returns the code unit at the given unit index in b.
func CodeUnitAt(b []byte, index int) uint16 {
	pos := 0
	for ; index > 0; index-- {
		pos += CharSize(b[pos])
	}
	unit, _ := DecodeCodeUnit(b[pos:])
	return unit
}

// IsWhiteSpace reports whether unit is ECMAScript whitespace: tab, vertical
// tab, form feed, space, no-break space, byte order mark, or a Unicode
// space separator.
func IsWhiteSpace(unit uint16) bool {
	switch unit {
	case 0x0009, 0x000B, 0x000C, 0x0020, 0x00A0, 0x1680, 0x180E,
		0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return unit >= 0x2000 && unit <= 0x200A
}

// IsLineTerminator reports whether unit is an ECMAScript line terminator.
func IsLineTerminator(unit uint16) bool {
	return unit == 0x000A || unit == 0x000D || unit == 0x2028 || unit == 0x2029
}

// HashBytes returns the content hash of b. The hash is a 32-bit byte fold,
// so HashCombine(HashBytes(a), b) equals HashBytes of the concatenation of
// a and b.
func HashBytes(b []byte) uint32 {
	return HashCombine(hashBasis, b)
}

// HashCombine folds the bytes of b into an existing hash.
func HashCombine(h uint32, b []byte) uint32 {
	for _, c := range b {
		h = (h ^ uint32(c)) * hashPrime
	}
	return h
}

// FromUTF8 converts a Go string to the encoded form. Supplementary
// characters become surrogate pairs; invalid UTF-8 becomes the replacement
// character.
func FromUTF8(s string) []byte {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		if r >= 0x10000 {
			r1, r2 := utf16.EncodeRune(r)
			buf = AppendCodeUnit(buf, uint16(r1))
			buf = AppendCodeUnit(buf, uint16(r2))
			continue
		}
		buf = AppendCodeUnit(buf, uint16(r))
	}
	return buf
}

// ToUTF8 converts a valid encoded buffer to a Go string. Surrogate pairs
// are recombined; unpaired halves become the replacement character.
func ToUTF8(b []byte) string {
	units := make([]uint16, 0, Length(b))
	for i := 0; i < len(b); {
		unit, size := DecodeCodeUnit(b[i:])
		units = append(units, unit)
		i += size
	}
	return string(utf16.Decode(units))
}
