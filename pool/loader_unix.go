//go:build linux || darwin

package pool

import (
	"golang.org/x/sys/unix"
)

// allocBytes maps an anonymous private region so the arena sits outside the
// Go heap and starts page-aligned.
func allocBytes(size int) ([]byte, error) {
	return unix.Mmap(
		-1,
		0,
		size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE,
	)
}

func freeBytes(data []byte) error {
	if data == nil {
		return nil
	}
	return unix.Munmap(data)
}
