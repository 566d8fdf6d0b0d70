package ecmastr

import "fmt"

// Container identifies where a String keeps its content.
type Container uint8

const (
	// ContainerInterned strings refer to a literal table record.
	ContainerInterned Container = iota
	// ContainerChunk strings own an allocator block of encoded content.
	ContainerChunk
	// ContainerNumber strings keep a float64 in the descriptor and render
	// it on demand.
	ContainerNumber
	// ContainerSmallUint strings keep a uint32 in the descriptor and
	// render its decimal digits on demand.
	ContainerSmallUint
	// ContainerMagic strings refer to a fixed magic string.
	ContainerMagic
	// ContainerMagicEx strings refer to an extended magic string
	// registered with the Context.
	ContainerMagicEx
)

// String returns a name for the container.
func (c Container) String() string {
	switch c {
	case ContainerInterned:
		return "Interned"
	case ContainerChunk:
		return "Chunk"
	case ContainerNumber:
		return "Number"
	case ContainerSmallUint:
		return "SmallUint"
	case ContainerMagic:
		return "Magic"
	case ContainerMagicEx:
		return "MagicEx"
	default:
		return fmt.Sprintf("Container(%d)", uint8(c))
	}
}
