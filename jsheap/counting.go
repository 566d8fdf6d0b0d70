package jsheap

import "github.com/embeddedjs/ecmastr/internal/ecmaerrors"

// Counting wraps another Allocator and keeps allocation statistics. It is
// the instrument used to verify that operations allocate and release the
// blocks they are supposed to.
type Counting struct {
	inner Allocator
	stats Stats
}

// NewCounting returns a Counting allocator drawing blocks from inner, or
// from System() when inner is nil.
func NewCounting(inner Allocator) *Counting {
	if inner == nil {
		inner = System()
	}
	return &Counting{inner: inner}
}

func (c *Counting) Alloc(size int) []byte {
	block := c.inner.Alloc(size)
	c.stats.Allocs++
	c.stats.LiveBytes += uint64(size)
	if c.stats.LiveBytes > c.stats.PeakBytes {
		c.stats.PeakBytes = c.stats.LiveBytes
	}
	return block
}

func (c *Counting) Free(block []byte) {
	ecmaerrors.Assertf(c.stats.LiveBytes >= uint64(len(block)), "Free",
		"free of %d bytes underflows live accounting", len(block))
	c.stats.Frees++
	c.stats.LiveBytes -= uint64(len(block))
	c.inner.Free(block)
}

// Stats returns a snapshot of the allocator's counters.
func (c *Counting) Stats() Stats {
	return c.stats
}
