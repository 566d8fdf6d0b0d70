// Package jsnumber implements the ECMAScript conversions between numbers
// and their string forms.
package jsnumber

import (
	"math"
	"strconv"

	"github.com/dop251/goja/ftoa"

	"github.com/embeddedjs/ecmastr/internal/cesu8"
)

// MaxStringifiedLength is an upper bound on the byte length of any number
// rendered by AppendFloat, suitable for sizing stack scratch buffers.
const MaxStringifiedLength = 64

var powersOfTen = [...]uint32{
	1,
	10,
	100,
	1000,
	10000,
	100000,
	1000000,
	10000000,
	100000000,
	1000000000,
}

// AppendFloat appends the ECMAScript rendering of f to dst. The output is
// always ASCII.
func AppendFloat(dst []byte, f float64) []byte {
	switch {
	case f == 0:
		// Covers negative zero as well; both render as "0".
		return append(dst, '0')
	case math.IsNaN(f):
		return append(dst, "NaN"...)
	case math.IsInf(f, 1):
		return append(dst, "Infinity"...)
	case math.IsInf(f, -1):
		return append(dst, "-Infinity"...)
	}
	var scratch [MaxStringifiedLength]byte
	return append(dst, ftoa.FToStr(f, ftoa.ModeStandard, 0, scratch[:0])...)
}

// AppendUint32 appends the decimal rendering of v to dst.
func AppendUint32(dst []byte, v uint32) []byte {
	return strconv.AppendUint(dst, uint64(v), 10)
}

// Uint32DigitCount returns the number of decimal digits in v.
func Uint32DigitCount(v uint32) int {
	n := 1
	for n < len(powersOfTen) && v >= powersOfTen[n] {
		n++
	}
	return n
}

// Parse implements the ECMAScript string-to-number conversion over an
// encoded buffer. Surrounding whitespace and line terminators are ignored,
// a blank buffer converts to zero, and anything outside the numeric
// grammar converts to NaN.
func Parse(b []byte) float64 {
	b = trim(b)
	if len(b) == 0 {
		return 0
	}

	// Hex literals take no sign, fraction, or exponent.
	if len(b) > 1 && b[0] == '0' && (b[1] == 'x' || b[1] == 'X') {
		return parseHex(b[2:])
	}

	neg := false
	rest := b
	switch rest[0] {
	case '+':
		rest = rest[1:]
	case '-':
		neg = true
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return math.NaN()
	}

	if string(rest) == "Infinity" {
		if neg {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	if !validDecimal(rest) {
		return math.NaN()
	}
	// Out of range input reports an error but still yields the nearest
	// representable value, an infinity, which is what the conversion
	// calls for.
	f, _ := strconv.ParseFloat(string(b), 64)
	return f
}

// ToUint32 implements the ECMAScript ToUint32 operation.
func ToUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return 0
	}
	const two32 = 65536.0 * 65536.0
	d := math.Mod(math.Trunc(f), two32)
	if d < 0 {
		d += two32
	}
	return uint32(d)
}

func trim(b []byte) []byte {
	for len(b) > 0 {
		unit, size := cesu8.DecodeCodeUnit(b)
		if !cesu8.IsWhiteSpace(unit) && !cesu8.IsLineTerminator(unit) {
			break
		}
		b = b[size:]
	}
	for len(b) > 0 {
		unit, size := cesu8.DecodeLastCodeUnit(b)
		if !cesu8.IsWhiteSpace(unit) && !cesu8.IsLineTerminator(unit) {
			break
		}
		b = b[:len(b)-size]
	}
	return b
}

func validDecimal(b []byte) bool {
	i := 0
	digits := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
		digits++
	}
	if i < len(b) && b[i] == '.' {
		i++
		for i < len(b) && b[i] >= '0' && b[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		i++
		if i < len(b) && (b[i] == '+' || b[i] == '-') {
			i++
		}
		expDigits := 0
		for i < len(b) && b[i] >= '0' && b[i] <= '9' {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return false
		}
	}
	return i == len(b)
}

func parseHex(digits []byte) float64 {
	if len(digits) == 0 {
		return math.NaN()
	}
	f := 0.0
	for _, c := range digits {
		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return math.NaN()
		}
		f = f*16 + float64(d)
	}
	return f
}
