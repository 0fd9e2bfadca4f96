// Package format houses the low-level layout of block headers inside a pool
// arena. The goal is to keep the encoding focused and allocation-free so the
// engine packages can orchestrate blocks in a more ergonomic form: every piece
// of block metadata lives inside the arena itself, and this package is the
// only place that knows at which byte it lives.
package format

const (
	// BlockHeaderSize is the number of bytes used by the header preceding
	// every variable-size block payload.
	//
	// Layout (little-endian):
	//   0x00  u32  payload size in bytes (excludes the header)
	//   0x04  u32  status tag (TagFree or TagUsed)
	//   0x08  i32  header offset of the previous block, NilOffset if first
	//   0x0C  i32  header offset of the next block, NilOffset if last
	BlockHeaderSize = 16

	// SlotHeaderSize is the number of bytes used by a fixed-size slot header.
	// The header occupies the first bytes of the slot payload and is only
	// meaningful while the slot sits on the free list.
	//
	// Layout (little-endian):
	//   0x00  u32  status tag (TagFree or TagUsed)
	//   0x04  i32  arena offset of the next free slot, NilOffset if last
	SlotHeaderSize = 8

	// Block header field offsets.
	BlockSizeField   = 0x00
	BlockStatusField = 0x04
	BlockPrevField   = 0x08
	BlockNextField   = 0x0C

	// Slot header field offsets.
	SlotStatusField = 0x00
	SlotNextField   = 0x04
)

const (
	// TagFree and TagUsed are the status words stored in block and slot
	// headers. Distinctive magic values rather than 0/1 so that a handle
	// pointing mid-payload fails the status check instead of aliasing a
	// plausible flag.
	TagFree uint32 = 0x45455246 // "FREE"
	TagUsed uint32 = 0x44455355 // "USED"
)

const (
	// NilOffset marks the absence of a link in an intrusive header.
	NilOffset int32 = -1

	// Alignment is the worst-case scalar alignment the arena guarantees.
	// Pool sizes and fixed slot sizes must be multiples of it.
	Alignment = 8

	// AlignmentMask is used by the Align8 helpers.
	AlignmentMask = Alignment - 1
)

const (
	// DefaultPoolSize is the arena length used when the caller does not pick
	// one: four 64-byte lines.
	DefaultPoolSize = 64 * 4

	// DefaultSlotSize and DefaultSlotCount are the default fixed-slot
	// geometry: three 16-byte slots.
	DefaultSlotSize  = 16
	DefaultSlotCount = 3
)
