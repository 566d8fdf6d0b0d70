//go:build unix

package jsheap

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapRegion reserves an anonymous read-write mapping of the given size.
func mapRegion(size int) ([]byte, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, os.NewSyscallError("mmap", err)
	}
	return data, nil
}

func unmapRegion(region []byte) error {
	if err := unix.Munmap(region); err != nil {
		return os.NewSyscallError("munmap", err)
	}
	return nil
}
