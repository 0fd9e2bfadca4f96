package fixed

import "errors"

var (
	// ErrOutOfMemory indicates the free list is empty.
	ErrOutOfMemory = errors.New("fixed: out of memory")

	// ErrInvalidPointer indicates an out-of-bounds or misaligned slot handle.
	ErrInvalidPointer = errors.New("fixed: invalid pointer")

	// ErrDoubleFree indicates a release of a slot that is already free.
	ErrDoubleFree = errors.New("fixed: slot already free")

	// ErrTooLarge indicates a request exceeding the slot capacity.
	ErrTooLarge = errors.New("fixed: request exceeds slot size")

	// ErrBadConfig indicates invalid slot geometry at initialization.
	ErrBadConfig = errors.New("fixed: invalid configuration")
)
