package alloc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

type liveAlloc struct {
	ref     Ref
	payload []byte
	fill    byte
}

// TestRandomWorkloadKeepsInvariants drives a seeded alloc/free mix and checks
// the list structure plus payload integrity after every operation. Freed
// regions are fair game for header writes; live payloads must never change.
func TestRandomWorkloadKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(0x5EED))
	a := newTestAllocator(t, 4096)

	var live []liveAlloc
	checkLive := func() {
		for _, l := range live {
			for i, got := range l.payload {
				require.Equal(t, l.fill, got,
					"payload of 0x%X corrupted at byte %d", l.ref, i)
			}
		}
	}

	for step := 0; step < 2000; step++ {
		if len(live) == 0 || rng.Intn(3) != 0 {
			size := uint32(1 + rng.Intn(96))
			ref, payload, err := a.Alloc(size)
			if err != nil {
				require.ErrorIs(t, err, ErrOutOfMemory)
			} else {
				fill := byte(rng.Intn(256))
				for i := range payload {
					payload[i] = fill
				}
				live = append(live, liveAlloc{ref: ref, payload: payload, fill: fill})
			}
		} else {
			i := rng.Intn(len(live))
			require.NoError(t, a.Free(live[i].ref))
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		}
		assertListInvariants(t, a)
		checkLive()
	}

	// Draining the survivors must return the arena to a single free block.
	for _, l := range live {
		require.NoError(t, a.Free(l.ref))
	}
	requireSingleFreeBlock(t, a)

	st := a.Stats()
	require.Equal(t, st.BytesAllocated, st.BytesFreed,
		"every granted byte must be returned")
}

// TestRandomWorkloadStaysDeterministic replays the same seeded mix on two
// arenas and expects identical grant sequences, including failures.
func TestRandomWorkloadStaysDeterministic(t *testing.T) {
	run := func() ([]Ref, []BlockInfo) {
		rng := rand.New(rand.NewSource(42))
		a := newTestAllocator(t, 2048)
		var refs, held []Ref
		for step := 0; step < 500; step++ {
			if len(held) == 0 || rng.Intn(3) != 0 {
				ref, _, err := a.Alloc(uint32(1 + rng.Intn(128)))
				if err == nil {
					held = append(held, ref)
				}
				refs = append(refs, ref)
			} else {
				i := rng.Intn(len(held))
				require.NoError(t, a.Free(held[i]))
				held = append(held[:i], held[i+1:]...)
			}
		}
		return refs, a.Dump()
	}

	refsA, dumpA := run()
	refsB, dumpB := run()
	require.Equal(t, refsA, refsB)
	require.Equal(t, dumpA, dumpB)
}
