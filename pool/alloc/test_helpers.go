package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/poolkit/internal/format"
	"github.com/joshuapare/poolkit/pool"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestAllocator builds an allocator over a fresh arena of the given size
// and closes the pool when the test ends.
func newTestAllocator(t testing.TB, poolSize int) *Allocator {
	t.Helper()

	p, err := pool.New(poolSize)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	a, err := New(p)
	require.NoError(t, err)
	return a
}

// assertListInvariants checks the structural invariants that hold after any
// sequence of Alloc/Free calls, including the no-adjacent-free-blocks rule
// that coalescing maintains.
func assertListInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	checkList(t, a, true)
}

// assertLinkStructure checks the same structure but tolerates adjacent free
// blocks: an in-place shrink splits off a free remainder without merging it
// into a free right neighbor.
func assertLinkStructure(t testing.TB, a *Allocator) {
	t.Helper()
	checkList(t, a, false)
}

// checkList walks the block list and verifies:
//
//   - the first header sits at the arena base
//   - header offsets strictly increase in list order
//   - prev links mirror the next-link walk
//   - every block extent lies inside the arena, and no block overlaps its
//     predecessor (slack from in-place shrinks may leave a gap, never an
//     overlap)
//   - every status tag is TagFree or TagUsed
//   - optionally, no two link-adjacent blocks are both free
func checkList(t testing.TB, a *Allocator, forbidAdjacentFree bool) {
	t.Helper()
	data := a.p.Bytes()
	poolSize := int64(a.p.Size())

	prev := format.NilOffset
	prevFree := false
	steps := 0
	for off := headOffset; off != format.NilOffset; off = blockNext(data, off) {
		require.Less(t, steps, a.p.Size(), "block list does not terminate")
		steps++

		if prev == format.NilOffset {
			require.Equal(t, headOffset, off, "first header must sit at the arena base")
		} else {
			require.Greater(t, off, prev, "offsets must increase in list order")
			require.GreaterOrEqual(t, int64(off),
				int64(prev)+format.BlockHeaderSize+int64(blockSize(data, prev)),
				"block at 0x%X overlaps its predecessor", off)
		}
		require.Equal(t, prev, blockPrev(data, off), "prev link must mirror the walk")

		size := blockSize(data, off)
		end := int64(off) + format.BlockHeaderSize + int64(size)
		require.LessOrEqual(t, end, poolSize, "block extent must stay inside the arena")

		tag := blockTag(data, off)
		require.Contains(t, []uint32{format.TagFree, format.TagUsed}, tag,
			"header at 0x%X has a corrupt status tag", off)

		free := tag == format.TagFree
		if forbidAdjacentFree && prev != format.NilOffset {
			require.False(t, prevFree && free,
				"adjacent free blocks at 0x%X and 0x%X survived coalescing", prev, off)
		}

		prev = off
		prevFree = free
	}
}

// requireSingleFreeBlock asserts that the dump is exactly one free block
// spanning the whole arena.
func requireSingleFreeBlock(t testing.TB, a *Allocator) {
	t.Helper()
	dump := a.Dump()
	require.Len(t, dump, 1)
	require.Equal(t, StatusFree, dump[0].Status)
	require.Equal(t, uint32(a.p.Size()-format.BlockHeaderSize), dump[0].Size)
}
