// Package pool provides the fixed byte arena that the allocation engines
// carve blocks out of. A Pool is created once, never resized, and exclusively
// owned by the allocator built on top of it; all block metadata lives inside
// the arena bytes, encoded through internal/format.
package pool

import (
	"fmt"

	"github.com/joshuapare/poolkit/internal/format"
)

// Pool is the arena, backed by an anonymous mapping (linux/darwin) or a plain
// byte slice (others). The backing guarantees at least 8-byte base alignment.
type Pool struct {
	data   []byte
	closed bool
}

// New allocates an arena of exactly size bytes. The size must be positive and
// a multiple of the platform alignment so that slot geometry validation in
// the fixed engine stays meaningful.
func New(size int) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("pool: size must be positive, got %d", size)
	}
	if !format.IsAligned8(size) {
		return nil, fmt.Errorf("pool: size %d is not %d-byte aligned (next aligned size is %d)",
			size, format.Alignment, format.Align8(size))
	}

	data, err := allocBytes(size)
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	return &Pool{data: data}, nil
}

// Bytes returns the arena contents. The slice aliases the backing store;
// engines mutate it in place.
func (p *Pool) Bytes() []byte { return p.data }

// Size returns the arena length in bytes.
func (p *Pool) Size() int { return len(p.data) }

// Close releases the backing store. The arena must not be used afterwards.
func (p *Pool) Close() error {
	if p == nil || p.closed {
		return nil
	}
	p.closed = true
	data := p.data
	p.data = nil
	return freeBytes(data)
}
