package alloc

import "encoding/json"

// Ref is a payload handle: the arena offset of a block's payload bytes.
// The block header sits format.BlockHeaderSize bytes before it.
type Ref = uint32

// NilRef is the null handle. Payloads never start at arena offset 0.
const NilRef Ref = 0

// Status describes a block's allocation state in a dump.
type Status uint8

const (
	StatusFree Status = iota
	StatusUsed
)

func (s Status) String() string {
	switch s {
	case StatusFree:
		return "free"
	case StatusUsed:
		return "used"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the status as its string form.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// BlockInfo is one entry of a read-only dump: the block's header offset, its
// payload size, and its status, in list order.
type BlockInfo struct {
	Offset int32  `json:"offset"`
	Size   uint32 `json:"size"`
	Status Status `json:"status"`
}

// Stats holds internal allocator counters for testing and instrumentation.
type Stats struct {
	AllocCalls       int   `json:"alloc_calls"`       // Total Alloc() calls
	FreeCalls        int   `json:"free_calls"`        // Total Free() calls
	ResizeCalls      int   `json:"resize_calls"`      // Total Resize() calls
	SplitCount       int   `json:"splits"`            // Number of block splits
	CoalesceForward  int   `json:"coalesce_forward"`  // Next-neighbor merges
	CoalesceBackward int   `json:"coalesce_backward"` // Previous-neighbor merges
	Relocations      int   `json:"relocations"`       // Resize calls that moved the payload
	BytesAllocated   int64 `json:"bytes_allocated"`   // Total payload bytes granted
	BytesFreed       int64 `json:"bytes_freed"`       // Total payload bytes released
}
