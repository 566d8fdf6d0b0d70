package jsheap

import (
	"sort"
	"unsafe"

	"github.com/embeddedjs/ecmastr/internal/ecmaerrors"
)

const blockAlign = 8

// FixedRegion is an Allocator serving blocks from one contiguous mapping
// of fixed size. Embedders use it to give an engine a bounded string heap.
// Freed space is kept in an offset-sorted list and coalesced with its
// neighbors; allocation is first fit. Exhaustion is fatal, as the engine
// has no way to continue without its heap.
type FixedRegion struct {
	region []byte
	free   []span
	stats  Stats
	closed bool
}

type span struct {
	off  int
	size int
}

// NewFixedRegion maps an anonymous region of the given size, which must be
// a positive multiple of the block alignment.
func NewFixedRegion(size int) (*FixedRegion, error) {
	ecmaerrors.Assertf(size > 0 && size%blockAlign == 0, "NewFixedRegion",
		"region size %d must be a positive multiple of %d", size, blockAlign)
	region, err := mapRegion(size)
	if err != nil {
		return nil, err
	}
	return &FixedRegion{
		region: region,
		free:   []span{{off: 0, size: size}},
	}, nil
}

func (r *FixedRegion) Alloc(size int) []byte {
	ecmaerrors.Assertf(!r.closed, "Alloc", "region is closed")
	ecmaerrors.Assertf(size > 0, "Alloc", "block size %d must be positive", size)

	need := alignUp(size)
	for i, s := range r.free {
		if s.size < need {
			continue
		}
		if s.size == need {
			r.free = append(r.free[:i], r.free[i+1:]...)
		} else {
			r.free[i] = span{off: s.off + need, size: s.size - need}
		}
		r.stats.Allocs++
		r.stats.LiveBytes += uint64(size)
		if r.stats.LiveBytes > r.stats.PeakBytes {
			r.stats.PeakBytes = r.stats.LiveBytes
		}
		return r.region[s.off : s.off+size : s.off+need]
	}
	panic(ecmaerrors.NewAssertionError("Alloc", "region exhausted allocating %d bytes", size))
}

func (r *FixedRegion) Free(block []byte) {
	ecmaerrors.Assertf(!r.closed, "Free", "region is closed")
	ecmaerrors.Assertf(len(block) > 0, "Free", "block must carry its allocated size")

	base := uintptr(unsafe.Pointer(unsafe.SliceData(r.region)))
	p := uintptr(unsafe.Pointer(unsafe.SliceData(block)))
	ecmaerrors.Assertf(p >= base && p+uintptr(len(block)) <= base+uintptr(len(r.region)),
		"Free", "block is not from this region")

	off := int(p - base)
	size := alignUp(len(block))
	ecmaerrors.Assertf(off%blockAlign == 0, "Free", "block offset %d is not aligned", off)
	ecmaerrors.Assertf(cap(block) == size, "Free",
		"block length %d does not match its allocated size", len(block))

	i := sort.Search(len(r.free), func(i int) bool { return r.free[i].off >= off })
	if i > 0 {
		prev := r.free[i-1]
		ecmaerrors.Assertf(prev.off+prev.size <= off, "Free",
			"block at offset %d overlaps free space", off)
	}
	if i < len(r.free) {
		ecmaerrors.Assertf(off+size <= r.free[i].off, "Free",
			"block at offset %d overlaps free space", off)
	}

	mergePrev := i > 0 && r.free[i-1].off+r.free[i-1].size == off
	mergeNext := i < len(r.free) && off+size == r.free[i].off
	switch {
	case mergePrev && mergeNext:
		r.free[i-1].size += size + r.free[i].size
		r.free = append(r.free[:i], r.free[i+1:]...)
	case mergePrev:
		r.free[i-1].size += size
	case mergeNext:
		r.free[i].off = off
		r.free[i].size += size
	default:
		r.free = append(r.free, span{})
		copy(r.free[i+1:], r.free[i:])
		r.free[i] = span{off: off, size: size}
	}

	ecmaerrors.Assertf(r.stats.LiveBytes >= uint64(len(block)), "Free",
		"free of %d bytes underflows live accounting", len(block))
	r.stats.Frees++
	r.stats.LiveBytes -= uint64(len(block))
}

// Stats returns a snapshot of the region's counters.
func (r *FixedRegion) Stats() Stats {
	return r.stats
}

// Close releases the mapping. Blocks handed out by the region must not be
// used afterwards. Close is idempotent.
func (r *FixedRegion) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	region := r.region
	r.region = nil
	r.free = nil
	return unmapRegion(region)
}

func alignUp(size int) int {
	return (size + blockAlign - 1) &^ (blockAlign - 1)
}
