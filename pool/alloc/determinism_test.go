package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replay runs a fixed alloc/free script and records the refs each Alloc
// returned along with the final dump.
func replay(t *testing.T, a *Allocator) ([]Ref, []BlockInfo) {
	t.Helper()

	var refs []Ref
	for _, size := range []uint32{48, 16, 96, 32} {
		ref, _, err := a.Alloc(size)
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	require.NoError(t, a.Free(refs[1]))
	require.NoError(t, a.Free(refs[2]))

	ref, _, err := a.Alloc(40)
	require.NoError(t, err)
	refs = append(refs, ref)

	return refs, a.Dump()
}

// TestSameSequenceSameLayout runs one script on two fresh arenas and after a
// reset of the first, and expects bit-identical placement every time.
func TestSameSequenceSameLayout(t *testing.T) {
	a := newTestAllocator(t, 512)
	b := newTestAllocator(t, 512)

	refsA, dumpA := replay(t, a)
	refsB, dumpB := replay(t, b)
	assert.Equal(t, refsA, refsB)
	assert.Equal(t, dumpA, dumpB)

	a.Init()
	refsR, dumpR := replay(t, a)
	assert.Equal(t, refsA, refsR, "a reset arena must replay identically")
	assert.Equal(t, dumpA, dumpR)
}

// TestExhaustionPointIsStable drives two arenas to exhaustion with the same
// request size and expects failure at the same call.
func TestExhaustionPointIsStable(t *testing.T) {
	countAllocs := func(a *Allocator) int {
		n := 0
		for {
			if _, _, err := a.Alloc(24); err != nil {
				require.ErrorIs(t, err, ErrOutOfMemory)
				return n
			}
			n++
		}
	}

	a := newTestAllocator(t, 1024)
	b := newTestAllocator(t, 1024)
	assert.Equal(t, countAllocs(a), countAllocs(b))
}
