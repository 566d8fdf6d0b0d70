// Package lcache provides the property lookup cache: a direct mapped
// table that lets property resolution skip the prototype walk for
// recently resolved (owner, name) pairs.
package lcache

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/embeddedjs/ecmastr"
	"github.com/embeddedjs/ecmastr/internal/ecmaerrors"
)

// rowLength is the number of entries scanned per row. Inserts into a
// full row evict its oldest entry.
const rowLength = 2

// Options configure a Cache.
type Options struct {
	// RowCount is the number of cache rows. Power of two counts index
	// with a mask instead of a modulo.
	RowCount int
}

// DefaultOptions returns the built-in cache defaults.
func DefaultOptions() Options {
	return Options{RowCount: 128}
}

func (o Options) normalized() Options {
	out := o
	if out.RowCount <= 0 {
		out.RowCount = DefaultOptions().RowCount
	}
	return out
}

type entry struct {
	name  *ecmastr.String
	value any
	owner uint64
}

// Cache maps (owner, property name) pairs to resolved values. Owners are
// opaque object identities chosen by the engine.
//
// Entries hold their name weakly: the cache takes no reference, and the
// string Context drops the whole cache before collecting, so an entry
// cannot outlive its name. The cache implements ecmastr.LookupCache and
// is wired in through ecmastr.Options.
type Cache struct {
	rows    []entry
	rowMask uint64
}

// New creates a Cache from opts.
func New(opts Options) *Cache {
	opts = opts.normalized()
	c := &Cache{rows: make([]entry, opts.RowCount*rowLength)}
	if opts.RowCount&(opts.RowCount-1) == 0 {
		c.rowMask = uint64(opts.RowCount - 1)
	}
	return c
}

func (c *Cache) row(owner uint64, name *ecmastr.String) []entry {
	var key [12]byte
	binary.LittleEndian.PutUint64(key[:8], owner)
	binary.LittleEndian.PutUint32(key[8:], name.Hash())
	h := xxhash.Sum64(key[:])

	var i uint64
	if c.rowMask != 0 {
		i = h & c.rowMask
	} else {
		i = h % uint64(len(c.rows)/rowLength)
	}
	return c.rows[i*rowLength : (i+1)*rowLength]
}

// Lookup returns the value cached for the property, if any. Names match
// by string content, not by descriptor identity.
func (c *Cache) Lookup(owner uint64, name *ecmastr.String) (any, bool) {
	ecmaerrors.Assertf(name != nil, "Lookup", "property name must not be nil")

	row := c.row(owner, name)
	for i := range row {
		e := &row[i]
		if e.name != nil && e.owner == owner && e.name.Equals(name) {
			return e.value, true
		}
	}
	return nil, false
}

// Insert caches value for the property. An entry for the same property
// is refreshed in place; otherwise the row's oldest entry makes room.
func (c *Cache) Insert(owner uint64, name *ecmastr.String, value any) {
	ecmaerrors.Assertf(name != nil, "Insert", "property name must not be nil")

	row := c.row(owner, name)
	for i := range row {
		e := &row[i]
		if e.name != nil && e.owner == owner && e.name.Equals(name) {
			e.value = value
			return
		}
	}

	copy(row[1:], row[:len(row)-1])
	row[0] = entry{name: name, value: value, owner: owner}
}

// Invalidate drops the entry for one property, if cached. Deleting or
// reconfiguring a property must invalidate it before the next lookup.
func (c *Cache) Invalidate(owner uint64, name *ecmastr.String) {
	ecmaerrors.Assertf(name != nil, "Invalidate", "property name must not be nil")

	row := c.row(owner, name)
	for i := range row {
		e := &row[i]
		if e.name != nil && e.owner == owner && e.name.Equals(name) {
			*e = entry{}
			return
		}
	}
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() {
	clear(c.rows)
}
