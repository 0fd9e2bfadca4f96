//go:build !linux && !darwin

package pool

// allocBytes falls back to a heap slice on platforms without the anonymous
// mmap path. Go's allocator guarantees the 8-byte base alignment we need.
func allocBytes(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func freeBytes(_ []byte) error {
	return nil
}
