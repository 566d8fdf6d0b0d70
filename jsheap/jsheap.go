// Package jsheap provides the block allocators that string chunk payloads
// and operation scratch buffers are carved from.
//
// A block's length carries its allocated size: Free must be handed a block
// whose length equals the size requested from Alloc.
package jsheap

import "github.com/embeddedjs/ecmastr/internal/ecmaerrors"

// Allocator hands out byte blocks for string chunk payloads and short
// lived materialization buffers.
//
// Alloc returns a block of exactly the requested size, which must be
// positive. Free releases a block previously returned by Alloc on the same
// allocator. Implementations are not safe for concurrent use, matching the
// single goroutine engine model.
type Allocator interface {
	Alloc(size int) []byte
	Free(block []byte)
}

// Stats reports the allocation activity of an allocator.
type Stats struct {
	Allocs    uint64
	Frees     uint64
	LiveBytes uint64
	PeakBytes uint64
}

type systemAllocator struct{}

func (systemAllocator) Alloc(size int) []byte {
	ecmaerrors.Assertf(size > 0, "Alloc", "block size %d must be positive", size)
	return make([]byte, size)
}

func (systemAllocator) Free(block []byte) {
	ecmaerrors.Assertf(len(block) > 0, "Free", "block must carry its allocated size")
}

// System returns the Allocator backed by the Go runtime heap. Free is a
// no-op; blocks are reclaimed by the garbage collector once unreferenced.
func System() Allocator {
	return systemAllocator{}
}
