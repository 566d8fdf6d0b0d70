package ecmastr

import (
	"github.com/embeddedjs/ecmastr/jsheap"
	"github.com/embeddedjs/ecmastr/littab"
)

// Collector frees engine objects that may hold string references. The
// Context invokes it when a reference counter saturates, after dropping
// the lookup cache, so references can be released before Dup falls back to
// copying the content.
type Collector interface {
	Run()
}

// LookupCache caches property lookups keyed by string values. It must
// drop every entry on InvalidateAll; a collection cycle runs right after
// and must not observe cached references.
type LookupCache interface {
	InvalidateAll()
}

// Options holds the configuration of a Context.
type Options struct {
	// Allocator serves chunk payloads. The default allocates from the Go
	// heap; embedders with a fixed memory budget pass a jsheap.FixedRegion
	// or their own implementation.
	Allocator jsheap.Allocator

	// ExtendedMagicStrings registers embedder defined magic strings, given
	// as Go strings. Their content must not duplicate a fixed magic string
	// or each other.
	ExtendedMagicStrings []string

	// LookupCache, when set, is invalidated whenever a reference counter
	// saturates.
	LookupCache LookupCache

	// Collector, when set, runs whenever a reference counter saturates.
	Collector Collector
}

// DefaultOptions returns the built-in context defaults.
func DefaultOptions() Options {
	return Options{
		Allocator: jsheap.System(),
	}
}

func (o Options) normalized() Options {
	if o.Allocator == nil {
		o.Allocator = DefaultOptions().Allocator
	}
	return o
}

// Context owns the engine wide string state: the allocator for chunk
// content, the literal table, the extended magic string table, and the
// saturation hooks. All strings created through a Context share it and
// must stay on its goroutine.
type Context struct {
	alloc    jsheap.Allocator
	literals *littab.Table
	extended *littab.ExtendedTable
	lookup   LookupCache
	collect  Collector
}

// New creates a Context from opts.
func New(opts Options) *Context {
	opts = opts.normalized()

	var ext *littab.ExtendedTable
	if len(opts.ExtendedMagicStrings) > 0 {
		ext = littab.NewExtendedTable(opts.ExtendedMagicStrings)
	}

	return &Context{
		alloc:    opts.Allocator,
		literals: littab.NewTable(ext),
		extended: ext,
		lookup:   opts.LookupCache,
		collect:  opts.Collector,
	}
}

// Literals returns the context's literal table. The parser interns source
// literals through it and turns the handles into strings with FromLiteral.
func (c *Context) Literals() *littab.Table {
	return c.literals
}
