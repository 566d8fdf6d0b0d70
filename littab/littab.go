// Package littab holds the engine's literal machinery: the fixed table of
// built-in magic strings, the extended magic strings an embedder registers
// at setup, and the interned literal table populated from parsed source.
package littab

import (
	"bytes"
	"fmt"
	"iter"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/embeddedjs/ecmastr/internal/cesu8"
	"github.com/embeddedjs/ecmastr/internal/ecmaerrors"
)

// Kind constants for the different literal record kinds.
type Kind int

const (
	// KindCharset is a literal owning its character content.
	KindCharset Kind = iota
	// KindMagic is a literal referring to a fixed magic string.
	KindMagic
	// KindMagicEx is a literal referring to an extended magic string.
	KindMagicEx
)

// String returns a human-readable name for the Kind.
func (k Kind) String() string {
	switch k {
	case KindCharset:
		return "Charset"
	case KindMagic:
		return "Magic"
	case KindMagicEx:
		return "MagicEx"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Handle refers to a record of a literal Table. The zero Handle is never
// issued and refers to no record.
type Handle uint16

type record struct {
	bytes  []byte
	hash   uint32
	kind   Kind
	magic  uint16
	size   uint16
	length uint16
}

// Table is the interned literal table. Interning the same content twice
// yields the same Handle; content matching a magic string is recorded as a
// reference to the magic table rather than a copy. A Table is not safe for
// concurrent use.
type Table struct {
	ext     *ExtendedTable
	records []record
	index   map[uint64][]Handle
}

// NewTable returns an empty literal table. Content matching an entry of
// ext is interned as an extended magic reference; ext may be nil.
func NewTable(ext *ExtendedTable) *Table {
	return &Table{
		ext:   ext,
		index: make(map[uint64][]Handle),
	}
}

// Intern adds content to the table and returns its Handle, reusing an
// existing record when the content is already present. The content is
// copied; the caller's buffer may be reused afterwards.
func (t *Table) Intern(b []byte) Handle {
	ecmaerrors.Assertf(cesu8.Valid(b), "Intern", "literal content is not well formed")
	ecmaerrors.Assertf(len(b) <= math.MaxUint16, "Intern",
		"literal size %d exceeds %d", len(b), math.MaxUint16)

	sum := xxhash.Sum64(b)
	for _, h := range t.index[sum] {
		if bytes.Equal(t.contentBytes(h), b) {
			return h
		}
	}

	var rec record
	if id, ok := LookupMagic(b); ok {
		rec = record{kind: KindMagic, magic: uint16(id)}
	} else if id, ok := t.ext.Lookup(b); ok {
		rec = record{kind: KindMagicEx, magic: uint16(id)}
	} else {
		owned := make([]byte, len(b))
		copy(owned, b)
		rec = record{
			kind:   KindCharset,
			bytes:  owned,
			size:   uint16(len(b)),
			length: uint16(cesu8.Length(b)),
			hash:   cesu8.HashBytes(b),
		}
	}

	ecmaerrors.Assertf(len(t.records) < math.MaxUint16, "Intern", "literal table is full")
	t.records = append(t.records, rec)
	h := Handle(len(t.records))
	t.index[sum] = append(t.index[sum], h)
	return h
}

// Count returns the number of records in the table.
func (t *Table) Count() int {
	return len(t.records)
}

// Kind returns the kind of the record behind h.
func (t *Table) Kind(h Handle) Kind {
	return t.record(h).kind
}

// MagicID returns the fixed magic string a KindMagic record refers to.
func (t *Table) MagicID(h Handle) MagicID {
	rec := t.record(h)
	ecmaerrors.Assertf(rec.kind == KindMagic, "MagicID",
		"literal %d is %s, not Magic", h, rec.kind)
	return MagicID(rec.magic)
}

// ExtMagicID returns the extended magic string a KindMagicEx record refers
// to.
func (t *Table) ExtMagicID(h Handle) ExtMagicID {
	rec := t.record(h)
	ecmaerrors.Assertf(rec.kind == KindMagicEx, "ExtMagicID",
		"literal %d is %s, not MagicEx", h, rec.kind)
	return ExtMagicID(rec.magic)
}

// CharsetBytes returns the content of a KindCharset record. The returned
// slice is the table's storage and must not be modified.
func (t *Table) CharsetBytes(h Handle) []byte {
	return t.charset(h).bytes
}

// CharsetSize returns the byte size of a KindCharset record.
func (t *Table) CharsetSize(h Handle) int {
	return int(t.charset(h).size)
}

// CharsetLength returns the code unit count of a KindCharset record.
func (t *Table) CharsetLength(h Handle) int {
	return int(t.charset(h).length)
}

// CharsetHash returns the content hash of a KindCharset record.
func (t *Table) CharsetHash(h Handle) uint32 {
	return t.charset(h).hash
}

// Handles iterates over every issued Handle in issue order.
func (t *Table) Handles() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		for i := range t.records {
			if !yield(Handle(i + 1)) {
				return
			}
		}
	}
}

func (t *Table) record(h Handle) *record {
	ecmaerrors.Assertf(h != 0 && int(h) <= len(t.records), "Handle",
		"invalid literal handle %d", h)
	return &t.records[h-1]
}

func (t *Table) charset(h Handle) *record {
	rec := t.record(h)
	ecmaerrors.Assertf(rec.kind == KindCharset, "Handle",
		"literal %d is %s, not Charset", h, rec.kind)
	return rec
}

func (t *Table) contentBytes(h Handle) []byte {
	rec := t.record(h)
	switch rec.kind {
	case KindMagic:
		return MagicBytes(MagicID(rec.magic))
	case KindMagicEx:
		return t.ext.Bytes(ExtMagicID(rec.magic))
	default:
		return rec.bytes
	}
}
