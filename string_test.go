package ecmastr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embeddedjs/ecmastr/jsheap"
	"github.com/embeddedjs/ecmastr/littab"
)

type collectorFunc func()

func (f collectorFunc) Run() { f() }

type invalidateSpy struct {
	calls int
}

func (s *invalidateSpy) InvalidateAll() { s.calls++ }

func TestFromBytesContainers(t *testing.T) {
	ctx := New(Options{ExtendedMagicStrings: []string{"println"}})

	tests := []struct {
		name      string
		content   string
		container Container
	}{
		{"empty is magic", "", ContainerMagic},
		{"magic content", "prototype", ContainerMagic},
		{"extended magic content", "println", ContainerMagicEx},
		{"plain content", "neither magic nor digits", ContainerChunk},
		{"digits are not magic", "42", ContainerChunk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ctx.FromBytes([]byte(tt.content))
			defer s.Deref()

			require.Equal(t, tt.container, s.Container())
			require.Equal(t, tt.content, s.String())
			require.Equal(t, len(tt.content), s.Size())
		})
	}
}

func TestFromBytesRejectsMalformed(t *testing.T) {
	ctx := New(Options{})

	require.Panics(t, func() { ctx.FromBytes([]byte{0xFF}) })
	require.Panics(t, func() { ctx.FromBytes([]byte{0xC2}) })
	require.Panics(t, func() { ctx.FromBytes([]byte("\xf0\x9d\x9f\x98")) })
}

func TestFromCodeUnit(t *testing.T) {
	ctx := New(Options{})

	tests := []struct {
		name    string
		unit    uint16
		size    int
		content string
	}{
		{"ascii", 'x', 1, "x"},
		{"two byte", 0x00E9, 2, "é"},
		{"three byte", 0x3042, 3, "あ"},
		{"lone high surrogate", 0xD835, 3, "�"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ctx.FromCodeUnit(tt.unit)
			defer s.Deref()

			require.Equal(t, 1, s.Length())
			require.Equal(t, tt.size, s.Size())
			require.Equal(t, tt.unit, s.CharAt(0))
			require.Equal(t, tt.content, s.String())
		})
	}
}

func TestFromUint32(t *testing.T) {
	ctx := New(Options{})

	s := ctx.FromUint32(4294967295)
	defer s.Deref()

	require.Equal(t, ContainerSmallUint, s.Container())
	require.Equal(t, "4294967295", s.String())
	require.Equal(t, 10, s.Size())
	require.Equal(t, 10, s.Length())
	require.Equal(t, byte('4'), s.ByteAt(0))
	require.Equal(t, uint16('5'), s.CharAt(9))
}

func TestFromNumberContainers(t *testing.T) {
	ctx := New(Options{})

	tests := []struct {
		name      string
		value     float64
		container Container
		content   string
	}{
		{"integral uint32", 42, ContainerSmallUint, "42"},
		{"zero", 0, ContainerSmallUint, "0"},
		{"negative zero", math.Copysign(0, -1), ContainerSmallUint, "0"},
		{"max uint32", 4294967295, ContainerSmallUint, "4294967295"},
		{"not a number", math.NaN(), ContainerMagic, "NaN"},
		{"positive infinity", math.Inf(1), ContainerMagic, "Infinity"},
		{"negative infinity", math.Inf(-1), ContainerNumber, "-Infinity"},
		{"fraction", 1.5, ContainerNumber, "1.5"},
		{"negative", -7, ContainerNumber, "-7"},
		{"above uint32 range", 4294967296, ContainerNumber, "4294967296"},
		{"large exponent", 1e21, ContainerNumber, "1e+21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ctx.FromNumber(tt.value)
			defer s.Deref()

			require.Equal(t, tt.container, s.Container())
			require.Equal(t, tt.content, s.String())
			require.Equal(t, len(tt.content), s.Size())
			require.Equal(t, len(tt.content), s.Length())
		})
	}
}

func TestFromLiteral(t *testing.T) {
	ctx := New(Options{ExtendedMagicStrings: []string{"println"}})
	literals := ctx.Literals()

	t.Run("charset literal", func(t *testing.T) {
		h := literals.Intern([]byte("someVariableName"))
		s := ctx.FromLiteral(h)
		defer s.Deref()

		require.Equal(t, ContainerInterned, s.Container())
		require.Equal(t, "someVariableName", s.String())
		require.Equal(t, literals.CharsetHash(h), s.Hash())
	})

	t.Run("magic literal", func(t *testing.T) {
		h := literals.Intern([]byte("prototype"))
		s := ctx.FromLiteral(h)
		defer s.Deref()

		require.Equal(t, ContainerMagic, s.Container())
		id, ok := s.IsMagic()
		require.True(t, ok)
		require.Equal(t, []byte("prototype"), littab.MagicBytes(id))
	})

	t.Run("extended magic literal", func(t *testing.T) {
		h := literals.Intern([]byte("println"))
		s := ctx.FromLiteral(h)
		defer s.Deref()

		require.Equal(t, ContainerMagicEx, s.Container())
		_, ok := s.IsExtendedMagic()
		require.True(t, ok)
	})
}

func TestFromGoString(t *testing.T) {
	ctx := New(Options{})

	s := ctx.FromGoString("a\U0001D7D8b")
	defer s.Deref()

	// The supplementary character becomes a surrogate pair: two code
	// units, six bytes.
	require.Equal(t, 4, s.Length())
	require.Equal(t, 8, s.Size())
	require.Equal(t, uint16(0xD835), s.CharAt(1))
	require.Equal(t, uint16(0xDFD8), s.CharAt(2))
	require.Equal(t, "a\U0001D7D8b", s.String())
}

func TestEmpty(t *testing.T) {
	ctx := New(Options{})

	s := ctx.Empty()
	defer s.Deref()

	require.Equal(t, ContainerMagic, s.Container())
	require.Equal(t, 0, s.Size())
	require.Equal(t, 0, s.Length())
	require.Equal(t, "", s.String())

	id, ok := s.IsMagic()
	require.True(t, ok)
	require.Equal(t, littab.EmptyMagicID, id)
}

func TestHashMatchesContent(t *testing.T) {
	ctx := New(Options{ExtendedMagicStrings: []string{"println"}})

	// Strings with the same content hash alike no matter which container
	// holds them.
	chunk := ctx.FromBytes([]byte("1024"))
	small := ctx.FromUint32(1024)
	interned := ctx.FromLiteral(ctx.Literals().Intern([]byte("1024")))
	defer chunk.Deref()
	defer small.Deref()
	defer interned.Deref()

	require.Equal(t, chunk.Hash(), small.Hash())
	require.Equal(t, chunk.Hash(), interned.Hash())

	magic := ctx.FromBytes([]byte("prototype"))
	number := ctx.FromNumber(1.5)
	rendered := ctx.FromBytes([]byte("1.5"))
	defer magic.Deref()
	defer number.Deref()
	defer rendered.Deref()

	require.NotEqual(t, chunk.Hash(), magic.Hash())
	require.Equal(t, rendered.Hash(), number.Hash())
}

func TestDupDerefLifecycle(t *testing.T) {
	counting := jsheap.NewCounting(nil)
	ctx := New(Options{Allocator: counting})

	s := ctx.FromBytes([]byte("owned content"))
	require.Equal(t, uint64(1), counting.Stats().Allocs)

	d := s.Dup()
	require.Same(t, s, d)
	require.Equal(t, uint64(1), counting.Stats().Allocs)

	d.Deref()
	require.Equal(t, uint64(0), counting.Stats().Frees)

	s.Deref()
	require.Equal(t, uint64(1), counting.Stats().Frees)
	require.Equal(t, uint64(0), counting.Stats().LiveBytes)
}

func TestDerefAfterFinalRelease(t *testing.T) {
	ctx := New(Options{})

	s := ctx.FromBytes([]byte("short lived"))
	s.Deref()

	require.PanicsWithError(t, "ecmastr: Deref: use after final release", func() {
		s.Deref()
	})
	require.PanicsWithError(t, "ecmastr: Dup: use after final release", func() {
		s.Dup()
	})
}

func TestDupSaturationCopies(t *testing.T) {
	counting := jsheap.NewCounting(nil)
	spy := &invalidateSpy{}
	ctx := New(Options{Allocator: counting, LookupCache: spy})

	t.Run("chunk content", func(t *testing.T) {
		s := ctx.FromBytes([]byte("pinned everywhere"))
		s.refs = math.MaxUint32

		d := s.Dup()
		require.NotSame(t, s, d)
		require.True(t, s.Equals(d))
		require.Equal(t, uint32(math.MaxUint32), s.refs)
		require.Equal(t, uint32(1), d.refs)
		require.Equal(t, 1, spy.calls)

		// The copy owns its own block.
		require.Equal(t, uint64(2), counting.Stats().Allocs)
		d.Deref()
		require.Equal(t, uint64(1), counting.Stats().Frees)
	})

	t.Run("descriptor only content", func(t *testing.T) {
		s := ctx.FromUint32(7)
		s.refs = math.MaxUint32

		d := s.Dup()
		require.NotSame(t, s, d)
		require.True(t, s.Equals(d))
		require.Equal(t, uint32(1), d.refs)
		d.Deref()
	})

	t.Run("number content", func(t *testing.T) {
		s := ctx.FromNumber(2.5)
		s.refs = math.MaxUint32

		d := s.Dup()
		require.NotSame(t, s, d)
		require.Equal(t, ContainerNumber, d.Container())
		require.Equal(t, "2.5", d.String())
		d.Deref()
	})
}

func TestDupSaturationRetriesAfterCollection(t *testing.T) {
	var s *String
	released := false

	ctx := New(Options{Collector: collectorFunc(func() {
		// The collector drops references some engine object was holding.
		s.refs -= 3
		released = true
	})})

	s = ctx.FromBytes([]byte("pinned everywhere"))
	s.refs = math.MaxUint32

	d := s.Dup()
	require.True(t, released)
	require.Same(t, s, d)
	require.Equal(t, uint32(math.MaxUint32-2), s.refs)
}

func TestAssertDiscardable(t *testing.T) {
	ctx := New(Options{ExtendedMagicStrings: []string{"println"}})

	t.Run("descriptor only strings pass", func(t *testing.T) {
		for _, s := range []*String{
			ctx.Empty(),
			ctx.FromUint32(3),
			ctx.FromBytes([]byte("println")),
			ctx.FromLiteral(ctx.Literals().Intern([]byte("ident"))),
		} {
			s.AssertDiscardable()
			s.Deref()
		}
	})

	t.Run("owned content fails", func(t *testing.T) {
		s := ctx.FromBytes([]byte("owned content"))
		defer s.Deref()

		require.Panics(t, s.AssertDiscardable)
	})

	t.Run("shared strings fail", func(t *testing.T) {
		s := ctx.FromUint32(3)
		d := s.Dup()
		defer s.Deref()
		defer d.Deref()

		require.Panics(t, s.AssertDiscardable)
	})
}

func TestIsMagic(t *testing.T) {
	ctx := New(Options{ExtendedMagicStrings: []string{"println"}})

	s := ctx.FromBytes([]byte("length"))
	defer s.Deref()
	_, ok := s.IsMagic()
	require.True(t, ok)

	e := ctx.FromBytes([]byte("println"))
	defer e.Deref()
	_, ok = e.IsMagic()
	require.False(t, ok)
	_, ok = e.IsExtendedMagic()
	require.True(t, ok)

	c := ctx.FromBytes([]byte("not in any table"))
	defer c.Deref()
	_, ok = c.IsMagic()
	require.False(t, ok)
	_, ok = c.IsExtendedMagic()
	require.False(t, ok)
}

func TestFromMagicValidation(t *testing.T) {
	ctx := New(Options{})

	s := ctx.FromMagic(littab.EmptyMagicID)
	defer s.Deref()
	require.Equal(t, "", s.String())

	require.Panics(t, func() { ctx.FromMagic(littab.MagicID(littab.MagicCount())) })
	require.Panics(t, func() { ctx.FromExtendedMagic(0) })
}

func TestStringSizeCeiling(t *testing.T) {
	ctx := New(Options{})

	content := make([]byte, MaxStringSize+1)
	for i := range content {
		content[i] = 'a'
	}

	require.Panics(t, func() { ctx.FromBytes(content) })

	s := ctx.FromBytes(content[:MaxStringSize])
	defer s.Deref()
	require.Equal(t, MaxStringSize, s.Size())
}
