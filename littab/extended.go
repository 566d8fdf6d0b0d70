package littab

import (
	"bytes"
	"sort"

	"github.com/embeddedjs/ecmastr/internal/cesu8"
	"github.com/embeddedjs/ecmastr/internal/ecmaerrors"
)

// ExtMagicID identifies an entry of an engine's extended magic string
// table.
type ExtMagicID uint16

// ExtendedTable holds the magic strings an embedder registers at engine
// setup, on top of the fixed table. A nil table has no entries.
type ExtendedTable struct {
	entries [][]byte
}

// NewExtendedTable registers the given names as extended magic strings.
// Names are Go strings and are converted to the engine encoding. A name
// that is empty, exceeds MagicLengthLimit bytes, duplicates another name,
// or duplicates a fixed magic string indicates an embedder bug and is
// fatal.
func NewExtendedTable(names []string) *ExtendedTable {
	entries := make([][]byte, 0, len(names))
	for _, name := range names {
		b := cesu8.FromUTF8(name)
		ecmaerrors.Assertf(len(b) > 0, "NewExtendedTable",
			"extended magic string must not be empty")
		ecmaerrors.Assertf(len(b) <= MagicLengthLimit, "NewExtendedTable",
			"extended magic string %q is %d bytes, above the %d byte limit",
			name, len(b), MagicLengthLimit)
		_, exists := LookupMagic(b)
		ecmaerrors.Assertf(!exists, "NewExtendedTable",
			"extended magic string %q duplicates a fixed magic string", name)
		entries = append(entries, b)
	}

	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i]) != len(entries[j]) {
			return len(entries[i]) < len(entries[j])
		}
		return bytes.Compare(entries[i], entries[j]) < 0
	})
	for i := 1; i < len(entries); i++ {
		ecmaerrors.Assertf(!bytes.Equal(entries[i-1], entries[i]),
			"NewExtendedTable", "duplicate extended magic string %q", entries[i])
	}

	return &ExtendedTable{entries: entries}
}

// Count returns the number of registered entries.
func (t *ExtendedTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Bytes returns the content of an extended magic string. The returned
// slice is the table's storage and must not be modified.
func (t *ExtendedTable) Bytes(id ExtMagicID) []byte {
	ecmaerrors.Assertf(t != nil && int(id) < len(t.entries), "Bytes",
		"invalid extended magic string id %d", id)
	return t.entries[id]
}

// Lookup finds the extended magic string with the given content.
func (t *ExtendedTable) Lookup(b []byte) (ExtMagicID, bool) {
	if t == nil || len(t.entries) == 0 {
		return 0, false
	}
	if len(b) > len(t.entries[len(t.entries)-1]) {
		return 0, false
	}
	i := sort.Search(len(t.entries), func(i int) bool {
		e := t.entries[i]
		if len(e) != len(b) {
			return len(e) > len(b)
		}
		return bytes.Compare(e, b) >= 0
	})
	if i < len(t.entries) && bytes.Equal(t.entries[i], b) {
		return ExtMagicID(i), true
	}
	return 0, false
}
