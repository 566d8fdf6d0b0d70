package littab

import (
	"sort"

	"github.com/embeddedjs/ecmastr/internal/ecmaerrors"
)

// MagicID identifies an entry of the fixed magic string table.
type MagicID uint16

// EmptyMagicID is the id of the empty string, always the first table entry.
const EmptyMagicID MagicID = 0

// MagicLengthLimit is the maximum byte size of a magic string. Candidate
// buffers above the limit skip table lookups entirely.
const MagicLengthLimit = 32

// magicStrings is ordered by length, then byte order, so ids double as
// binary search positions. The empty string must stay first.
var magicStrings = []string{
	"",
	"E",
	"PI",
	"LN2",
	"NaN",
	"abs",
	"cos",
	"exp",
	"get",
	"log",
	"map",
	"max",
	"min",
	"pop",
	"pow",
	"set",
	"sin",
	"tan",
	"Date",
	"JSON",
	"LN10",
	"Math",
	"acos",
	"asin",
	"atan",
	"bind",
	"call",
	"ceil",
	"eval",
	"exec",
	"join",
	"keys",
	"name",
	"null",
	"push",
	"some",
	"sort",
	"sqrt",
	"test",
	"true",
	"Array",
	"Error",
	"LOG2E",
	"SQRT2",
	"apply",
	"atan2",
	"every",
	"false",
	"floor",
	"index",
	"input",
	"isNaN",
	"match",
	"parse",
	"round",
	"shift",
	"slice",
	"split",
	"value",
	"LOG10E",
	"Number",
	"Object",
	"RegExp",
	"String",
	"charAt",
	"concat",
	"escape",
	"filter",
	"global",
	"length",
	"number",
	"object",
	"reduce",
	"search",
	"source",
	"splice",
	"string",
	"substr",
	"Boolean",
	"SQRT1_2",
	"boolean",
	"compile",
	"forEach",
	"indexOf",
	"isArray",
	"message",
	"replace",
	"reverse",
	"toFixed",
	"unshift",
	"valueOf",
	"Function",
	"Infinity",
	"function",
	"isFinite",
	"parseInt",
	"toString",
	"writable",
	"arguments",
	"decodeURI",
	"encodeURI",
	"prototype",
	"stringify",
	"substring",
	"undefined",
	"charCodeAt",
	"enumerable",
	"parseFloat",
	"constructor",
	"lastIndexOf",
	"toLowerCase",
	"toPrecision",
	"toUpperCase",
	"configurable",
	"isPrototypeOf",
	"localeCompare",
	"toExponential",
	"defineProperty",
	"getPrototypeOf",
	"hasOwnProperty",
	"decodeURIComponent",
	"encodeURIComponent",
	"propertyIsEnumerable",
}

var magicBytes = buildMagicBytes()

func buildMagicBytes() [][]byte {
	out := make([][]byte, len(magicStrings))
	for i, s := range magicStrings {
		out[i] = []byte(s)
	}
	return out
}

// MagicCount returns the number of fixed magic strings.
func MagicCount() int {
	return len(magicStrings)
}

// MagicBytes returns the content of a fixed magic string. The returned
// slice is the table's storage and must not be modified.
func MagicBytes(id MagicID) []byte {
	ecmaerrors.Assertf(int(id) < len(magicStrings), "MagicBytes", "invalid magic string id %d", id)
	return magicBytes[id]
}

// LookupMagic finds the fixed magic string with the given content.
func LookupMagic(b []byte) (MagicID, bool) {
	if len(b) > len(magicStrings[len(magicStrings)-1]) {
		return 0, false
	}
	i := sort.Search(len(magicStrings), func(i int) bool {
		e := magicStrings[i]
		if len(e) != len(b) {
			return len(e) > len(b)
		}
		return e >= string(b)
	})
	if i < len(magicStrings) && magicStrings[i] == string(b) {
		return MagicID(i), true
	}
	return 0, false
}
