// Package alloc implements the variable-size allocation engine over a pool
// arena.
//
// # Overview
//
// Blocks form an intrusive, address-ordered, doubly linked list embedded in
// the arena: each block is a 16-byte header followed by its payload, and the
// header carries the payload size, a status tag, and offset links to the
// logical neighbors. The engine is a best-fit allocator:
//
//   - Alloc scans the list for the smallest free block that satisfies the
//     request and splits off the remainder when it can hold another header.
//   - Free validates the handle, marks the block free, and coalesces with the
//     next neighbor first, then the previous one, so a run of adjacent free
//     blocks always collapses to a single node before the call returns.
//   - Resize shrinks or grows in place when the layout allows it and falls
//     back to allocate-copy-free otherwise.
//
// # Handles
//
// Callers hold Ref values: the arena offset of a block payload. NilRef (0) is
// the null handle; a payload can never start at offset 0 because the first
// header does. Handles are only valid between the Alloc (or Resize) that
// produced them and the matching Free; the engine validates bounds and the
// status tag on every Free/Resize, but a caller writing past its payload into
// the next header is not detected.
//
// # Usage
//
//	p, _ := pool.New(256)
//	a, _ := alloc.New(p)
//
//	ref, buf, err := a.Alloc(64)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// Later:
//	err = a.Free(ref)
//
// # Thread safety
//
// Allocator instances are not thread-safe. Split, coalesce, and
// absorb-then-split leave the list transiently inconsistent mid-operation,
// so concurrent callers must hold an exclusive lock for the full duration of
// each operation.
package alloc
