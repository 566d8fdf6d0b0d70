package littab

import (
	"strconv"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"

	"github.com/embeddedjs/ecmastr/internal/cesu8"
)

func TestInternCharset(t *testing.T) {
	table := NewTable(nil)

	h := table.Intern([]byte("hello"))
	require.Equal(t, Handle(1), h)
	require.Equal(t, KindCharset, table.Kind(h))
	require.Equal(t, []byte("hello"), table.CharsetBytes(h))
	require.Equal(t, 5, table.CharsetSize(h))
	require.Equal(t, 5, table.CharsetLength(h))
	require.Equal(t, cesu8.HashBytes([]byte("hello")), table.CharsetHash(h))
}

func TestInternDeduplicates(t *testing.T) {
	table := NewTable(nil)

	h1 := table.Intern([]byte("hello"))
	h2 := table.Intern([]byte("hello"))
	h3 := table.Intern([]byte("world"))

	require.Equal(t, h1, h2)
	require.NotEqual(t, h1, h3)
	require.Equal(t, 2, table.Count())

	// The table owns a copy, not the caller's buffer.
	buf := []byte("mutate")
	h4 := table.Intern(buf)
	buf[0] = 'X'
	require.Equal(t, []byte("mutate"), table.CharsetBytes(h4))
}

func TestInternMagic(t *testing.T) {
	table := NewTable(nil)

	h := table.Intern([]byte("length"))
	require.Equal(t, KindMagic, table.Kind(h))
	require.Equal(t, []byte("length"), MagicBytes(table.MagicID(h)))
	require.Equal(t, h, table.Intern([]byte("length")))

	empty := table.Intern(nil)
	require.Equal(t, KindMagic, table.Kind(empty))
	require.Equal(t, EmptyMagicID, table.MagicID(empty))
}

func TestInternExtendedMagic(t *testing.T) {
	ext := NewExtendedTable([]string{"console"})
	table := NewTable(ext)

	h := table.Intern([]byte("console"))
	require.Equal(t, KindMagicEx, table.Kind(h))
	require.Equal(t, []byte("console"), ext.Bytes(table.ExtMagicID(h)))
	require.Equal(t, h, table.Intern([]byte("console")))
}

func TestInternNonASCII(t *testing.T) {
	table := NewTable(nil)
	content := cesu8.FromUTF8("héllo")

	h := table.Intern(content)
	require.Equal(t, KindCharset, table.Kind(h))
	require.Equal(t, 6, table.CharsetSize(h))
	require.Equal(t, 5, table.CharsetLength(h))
}

func TestInternHashCollision(t *testing.T) {
	table := NewTable(nil)
	first := table.Intern([]byte("collide-a"))

	// File the existing record under the second content's sum as well, as
	// if the two contents collided.
	sum := xxhash.Sum64([]byte("collide-b"))
	table.index[sum] = append(table.index[sum], first)

	second := table.Intern([]byte("collide-b"))
	require.NotEqual(t, first, second)
	require.Equal(t, []byte("collide-b"), table.CharsetBytes(second))
}

func TestHandles(t *testing.T) {
	table := NewTable(nil)
	table.Intern([]byte("a"))
	table.Intern([]byte("b"))
	table.Intern([]byte("c"))

	var handles []Handle
	for h := range table.Handles() {
		handles = append(handles, h)
	}
	require.Equal(t, []Handle{1, 2, 3}, handles)
}

func TestHandleValidation(t *testing.T) {
	table := NewTable(nil)
	magic := table.Intern([]byte("length"))
	charset := table.Intern([]byte("ordinary"))

	require.Panics(t, func() { table.Kind(0) }, "zero handle")
	require.Panics(t, func() { table.Kind(42) }, "unissued handle")
	require.Panics(t, func() { table.CharsetBytes(magic) }, "kind mismatch")
	require.Panics(t, func() { table.MagicID(charset) }, "kind mismatch")
	require.Panics(t, func() { table.ExtMagicID(charset) }, "kind mismatch")
}

func TestInternValidation(t *testing.T) {
	table := NewTable(nil)

	require.Panics(t, func() { table.Intern([]byte{0x80}) }, "malformed content")
	require.Panics(t, func() {
		table.Intern(make([]byte, 1<<16))
	}, "above the size ceiling")
}

func TestInternCapacity(t *testing.T) {
	table := NewTable(nil)

	var buf []byte
	for i := range 65535 {
		buf = strconv.AppendUint(buf[:0], uint64(i), 10)
		table.Intern(buf)
	}
	require.Equal(t, 65535, table.Count())

	require.Panics(t, func() { table.Intern([]byte("one too many")) })
}
