package alloc

import (
	"fmt"
	"os"

	"github.com/joshuapare/poolkit/internal/format"
	"github.com/joshuapare/poolkit/pool"
)

// Runtime debug flag for allocation logging - controlled by POOLKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("POOLKIT_LOG_ALLOC") != ""

// headOffset is where the first block header lives. The first header is
// written at the arena base by Init and never moves: splits create headers
// after it and coalescing only ever removes later nodes.
const headOffset int32 = 0

// Allocator is the variable-size engine. It owns the pool for its lifetime;
// all state besides the counters lives inside the arena bytes.
type Allocator struct {
	p     *pool.Pool
	stats Stats
}

// New builds an allocator over p and initializes the arena as a single free
// block. The pool must hold at least one block header.
func New(p *pool.Pool) (*Allocator, error) {
	if p == nil || p.Size() < format.BlockHeaderSize {
		return nil, fmt.Errorf(
			"alloc: pool must hold at least one %d-byte block header",
			format.BlockHeaderSize,
		)
	}
	a := &Allocator{p: p}
	a.Init()
	return a, nil
}

// Init resets the arena to a single free block spanning the whole pool.
// Idempotent; discards any prior block structure and counters.
func (a *Allocator) Init() {
	data := a.p.Bytes()
	writeBlock(data, headOffset,
		uint32(a.p.Size()-format.BlockHeaderSize),
		format.TagFree, format.NilOffset, format.NilOffset)
	a.stats = Stats{}
}

// Alloc grants a block of exactly size payload bytes using best-fit search.
// It returns the payload handle and the payload slice, or ErrOutOfMemory
// when no free block can satisfy the request.
func (a *Allocator) Alloc(size uint32) (Ref, []byte, error) {
	a.stats.AllocCalls++
	data := a.p.Bytes()

	// Best-fit: smallest free block that still fits. Strict < comparison, so
	// the first of several equal-size candidates in list order wins.
	best := format.NilOffset
	var bestSize uint32
	for off := headOffset; off != format.NilOffset; off = blockNext(data, off) {
		sz := blockSize(data, off)
		if blockTag(data, off) != format.TagFree || sz < size {
			continue
		}
		if best == format.NilOffset || sz < bestSize {
			best = off
			bestSize = sz
		}
	}

	if best == format.NilOffset {
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[ALLOC] Alloc(%d): no candidate, out of memory\n", size)
		}
		return NilRef, nil, ErrOutOfMemory
	}

	// Never grant a block whose payload would extend past the arena end.
	if int64(best)+format.BlockHeaderSize+int64(size) > int64(a.p.Size()) {
		return NilRef, nil, ErrOutOfMemory
	}

	if uint64(bestSize) >= uint64(size)+format.BlockHeaderSize {
		// Split: carve a new free header right after the granted payload.
		// It inherits the old next link; the granted size is truncated to
		// the request.
		a.stats.SplitCount++
		remOff := best + format.BlockHeaderSize + int32(size)
		oldNext := blockNext(data, best)
		writeBlock(data, remOff, bestSize-size-format.BlockHeaderSize,
			format.TagFree, best, oldNext)
		if oldNext != format.NilOffset {
			setBlockPrev(data, oldNext, remOff)
		}
		setBlockNext(data, best, remOff)
		setBlockSize(data, best, size)
	}
	// Without room for another header the whole block is granted as-is;
	// the slack stays attached so a later Free returns it intact.

	setBlockTag(data, best, format.TagUsed)
	granted := blockSize(data, best)
	a.stats.BytesAllocated += int64(granted)

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] Alloc(%d): granted %d at 0x%X\n", size, granted, best)
	}

	payload := data[best+format.BlockHeaderSize : best+format.BlockHeaderSize+int32(granted)]
	return Ref(best) + format.BlockHeaderSize, payload, nil
}

// Free releases the block behind ref and coalesces it with free neighbors,
// next first, then previous. Rejected handles leave the arena untouched.
func (a *Allocator) Free(ref Ref) error {
	a.stats.FreeCalls++

	hdr, err := a.headerOf(ref)
	if err != nil {
		return err
	}
	data := a.p.Bytes()

	setBlockTag(data, hdr, format.TagFree)
	a.stats.BytesFreed += int64(blockSize(data, hdr))

	// Merge with the next block first. Doing next before previous means a
	// run of adjacent free blocks collapses into one surviving node.
	if nxt := blockNext(data, hdr); nxt != format.NilOffset && blockTag(data, nxt) == format.TagFree {
		a.stats.CoalesceForward++
		setBlockSize(data, hdr, blockSize(data, hdr)+blockSize(data, nxt)+format.BlockHeaderSize)
		nn := blockNext(data, nxt)
		setBlockNext(data, hdr, nn)
		if nn != format.NilOffset {
			setBlockPrev(data, nn, hdr)
		}
	}

	// Then merge into the previous block if it is free.
	if prv := blockPrev(data, hdr); prv != format.NilOffset && blockTag(data, prv) == format.TagFree {
		a.stats.CoalesceBackward++
		setBlockSize(data, prv, blockSize(data, prv)+blockSize(data, hdr)+format.BlockHeaderSize)
		nn := blockNext(data, hdr)
		setBlockNext(data, prv, nn)
		if nn != format.NilOffset {
			setBlockPrev(data, nn, prv)
		}
	}

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] Free(0x%X)\n", ref)
	}
	return nil
}

// Resize changes the payload capacity behind ref to newSize.
//
// A nil ref degenerates to Alloc; newSize 0 degenerates to Free and a nil
// result (the legacy realloc contract). Shrinking and growing into a free
// next neighbor happen in place; otherwise the payload is relocated via
// allocate-copy-free. A failed relocation leaves the old block untouched.
func (a *Allocator) Resize(ref Ref, newSize uint32) (Ref, []byte, error) {
	if ref == NilRef {
		return a.Alloc(newSize)
	}
	a.stats.ResizeCalls++

	if newSize == 0 {
		if err := a.Free(ref); err != nil {
			return NilRef, nil, err
		}
		return NilRef, nil, nil
	}

	hdr, err := a.headerOf(ref)
	if err != nil {
		return NilRef, nil, err
	}
	data := a.p.Bytes()
	cur := blockSize(data, hdr)

	if newSize <= cur {
		// Shrink in place. Only split when the freed remainder can carry a
		// header; the recorded size becomes newSize either way, so a
		// too-small remainder is left as unreachable slack.
		if cur-newSize >= format.BlockHeaderSize {
			a.stats.SplitCount++
			remOff := hdr + format.BlockHeaderSize + int32(newSize)
			oldNext := blockNext(data, hdr)
			writeBlock(data, remOff, cur-newSize-format.BlockHeaderSize,
				format.TagFree, hdr, oldNext)
			if oldNext != format.NilOffset {
				setBlockPrev(data, oldNext, remOff)
			}
			setBlockNext(data, hdr, remOff)
		}
		setBlockSize(data, hdr, newSize)
		return ref, payloadOf(data, hdr), nil
	}

	// Grow in place when the next block is free and together they cover the
	// request. The payload address never changes on this path.
	if nxt := blockNext(data, hdr); nxt != format.NilOffset &&
		blockTag(data, nxt) == format.TagFree &&
		uint64(cur)+uint64(blockSize(data, nxt))+format.BlockHeaderSize >= uint64(newSize) {

		total := cur + blockSize(data, nxt) + format.BlockHeaderSize
		nn := blockNext(data, nxt)
		setBlockNext(data, hdr, nn)
		if nn != format.NilOffset {
			setBlockPrev(data, nn, hdr)
		}

		if total-newSize >= format.BlockHeaderSize {
			a.stats.SplitCount++
			remOff := hdr + format.BlockHeaderSize + int32(newSize)
			writeBlock(data, remOff, total-newSize-format.BlockHeaderSize,
				format.TagFree, hdr, nn)
			if nn != format.NilOffset {
				setBlockPrev(data, nn, remOff)
			}
			setBlockNext(data, hdr, remOff)
			setBlockSize(data, hdr, newSize)
		} else {
			// The excess cannot carry a header; the block keeps the
			// absorbed total.
			setBlockSize(data, hdr, total)
		}
		return ref, payloadOf(data, hdr), nil
	}

	// Relocate: fresh allocation, copy, release the old block. On failure
	// the old block is untouched so the caller's data survives.
	newRef, payload, err := a.Alloc(newSize)
	if err != nil {
		return NilRef, nil, err
	}
	n := cur
	if newSize < n {
		n = newSize
	}
	copy(payload[:n], data[hdr+format.BlockHeaderSize:hdr+format.BlockHeaderSize+int32(n)])
	if err := a.Free(ref); err != nil {
		return NilRef, nil, err
	}
	a.stats.Relocations++

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] Resize(0x%X, %d): relocated to 0x%X\n", ref, newSize, newRef)
	}
	return newRef, payload, nil
}

// Dump walks the block list and returns one entry per block in list order.
// Read-only; callable between any two operations.
func (a *Allocator) Dump() []BlockInfo {
	data := a.p.Bytes()
	var blocks []BlockInfo
	for off := headOffset; off != format.NilOffset; off = blockNext(data, off) {
		st := StatusUsed
		if blockTag(data, off) == format.TagFree {
			st = StatusFree
		}
		blocks = append(blocks, BlockInfo{
			Offset: off,
			Size:   blockSize(data, off),
			Status: st,
		})
	}
	return blocks
}

// Stats returns the current operation counters.
func (a *Allocator) Stats() Stats {
	return a.stats
}

// PoolSize returns the arena length in bytes.
func (a *Allocator) PoolSize() int {
	return a.p.Size()
}

// headerOf validates ref and returns its header offset. The full header must
// lie inside the arena (a handle exactly at the arena end is invalid) and the
// status tag must read TagUsed. The tag check also rejects misaligned handles
// and double frees, since those read payload bytes or a free tag instead.
func (a *Allocator) headerOf(ref Ref) (int32, error) {
	if ref == NilRef {
		return 0, ErrInvalidPointer
	}
	hdr := int64(ref) - format.BlockHeaderSize
	if hdr < 0 || hdr+format.BlockHeaderSize > int64(a.p.Size()) {
		return 0, ErrInvalidPointer
	}
	if blockTag(a.p.Bytes(), int32(hdr)) != format.TagUsed {
		return 0, ErrInvalidPointer
	}
	return int32(hdr), nil
}

func payloadOf(data []byte, hdr int32) []byte {
	sz := blockSize(data, hdr)
	return data[hdr+format.BlockHeaderSize : hdr+format.BlockHeaderSize+int32(sz)]
}

// ============================================================================
// Header accessors
// ============================================================================

func blockSize(data []byte, off int32) uint32 {
	return format.ReadU32(data, int(off)+format.BlockSizeField)
}

func setBlockSize(data []byte, off int32, v uint32) {
	format.PutU32(data, int(off)+format.BlockSizeField, v)
}

func blockTag(data []byte, off int32) uint32 {
	return format.ReadU32(data, int(off)+format.BlockStatusField)
}

func setBlockTag(data []byte, off int32, v uint32) {
	format.PutU32(data, int(off)+format.BlockStatusField, v)
}

func blockPrev(data []byte, off int32) int32 {
	return format.ReadI32(data, int(off)+format.BlockPrevField)
}

func setBlockPrev(data []byte, off int32, v int32) {
	format.PutI32(data, int(off)+format.BlockPrevField, v)
}

func blockNext(data []byte, off int32) int32 {
	return format.ReadI32(data, int(off)+format.BlockNextField)
}

func setBlockNext(data []byte, off int32, v int32) {
	format.PutI32(data, int(off)+format.BlockNextField, v)
}

func writeBlock(data []byte, off int32, size uint32, tag uint32, prev, next int32) {
	setBlockSize(data, off, size)
	setBlockTag(data, off, tag)
	setBlockPrev(data, off, prev)
	setBlockNext(data, off, next)
}
