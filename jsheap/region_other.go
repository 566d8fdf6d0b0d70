//go:build !unix

package jsheap

// mapRegion falls back to a garbage collected slice on hosts without
// anonymous mappings.
func mapRegion(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func unmapRegion([]byte) error {
	return nil
}
