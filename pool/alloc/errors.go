package alloc

import "errors"

var (
	// ErrOutOfMemory indicates that no free block large enough was found.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrInvalidPointer indicates a nil, out-of-bounds, or not-in-use handle.
	ErrInvalidPointer = errors.New("alloc: invalid pointer")
)
