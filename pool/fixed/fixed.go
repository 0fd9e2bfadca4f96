package fixed

import (
	"fmt"

	"github.com/joshuapare/poolkit/internal/format"
	"github.com/joshuapare/poolkit/pool"
)

// Ref is a slot handle: the arena offset of the slot. Slot 0 has ref 0.
type Ref = uint32

// InvalidRef is the sentinel returned by failed allocations. It can never
// pass bounds validation.
const InvalidRef Ref = ^Ref(0)

// Config describes the slot geometry. Both values are fixed for the lifetime
// of the allocator.
type Config struct {
	SlotSize  int32 // Bytes per slot, 8-aligned, >= format.SlotHeaderSize
	SlotCount int32 // Number of slots in the arena
}

// DefaultConfig is the default geometry: three 16-byte slots.
var DefaultConfig = Config{
	SlotSize:  format.DefaultSlotSize,
	SlotCount: format.DefaultSlotCount,
}

// SlotInfo is one entry of a read-only dump, in address order.
type SlotInfo struct {
	Offset int32 `json:"offset"`
	Free   bool  `json:"free"`
}

// Allocator is the fixed-size engine. head is the free-list head slot offset,
// format.NilOffset when the list is empty.
type Allocator struct {
	p    *pool.Pool
	cfg  Config
	head int32
}

// New validates cfg, builds the backing pool, and links every slot into the
// free list in address order, head first.
func New(cfg Config) (*Allocator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	p, err := pool.New(int(cfg.SlotSize) * int(cfg.SlotCount))
	if err != nil {
		return nil, err
	}

	a := &Allocator{p: p, cfg: cfg}
	a.Init()
	return a, nil
}

func (c Config) validate() error {
	if c.SlotSize < format.SlotHeaderSize {
		return fmt.Errorf("%w: slot size %d below header size %d",
			ErrBadConfig, c.SlotSize, format.SlotHeaderSize)
	}
	if !format.IsAligned8(int(c.SlotSize)) {
		return fmt.Errorf("%w: slot size %d not %d-byte aligned",
			ErrBadConfig, c.SlotSize, format.Alignment)
	}
	if c.SlotCount <= 0 {
		return fmt.Errorf("%w: slot count %d must be positive", ErrBadConfig, c.SlotCount)
	}
	return nil
}

// Init relinks every slot into one free list in address order. Idempotent;
// discards any prior state.
func (a *Allocator) Init() {
	data := a.p.Bytes()
	for i := int32(0); i < a.cfg.SlotCount; i++ {
		off := i * a.cfg.SlotSize
		next := off + a.cfg.SlotSize
		if i == a.cfg.SlotCount-1 {
			next = format.NilOffset
		}
		format.PutU32(data, int(off)+format.SlotStatusField, format.TagFree)
		format.PutI32(data, int(off)+format.SlotNextField, next)
	}
	a.head = 0
}

// Alloc pops the free-list head and returns its offset plus the whole-slot
// payload. The request only sizes the admission check: every grant is one
// full slot.
func (a *Allocator) Alloc(size uint32) (Ref, []byte, error) {
	if size > uint32(a.cfg.SlotSize) {
		return InvalidRef, nil, fmt.Errorf("%w: requested %d, slot size %d",
			ErrTooLarge, size, a.cfg.SlotSize)
	}
	if a.head == format.NilOffset {
		return InvalidRef, nil, ErrOutOfMemory
	}

	data := a.p.Bytes()
	off := a.head
	a.head = format.ReadI32(data, int(off)+format.SlotNextField)

	format.PutU32(data, int(off)+format.SlotStatusField, format.TagUsed)
	format.PutI32(data, int(off)+format.SlotNextField, format.NilOffset)

	return Ref(off), data[off : off+a.cfg.SlotSize], nil
}

// Free validates ref and pushes the slot back onto the free-list head, so the
// most recently freed slot is reused first.
func (a *Allocator) Free(ref Ref) error {
	if int64(ref) >= int64(a.p.Size()) {
		return ErrInvalidPointer
	}
	if int32(ref)%a.cfg.SlotSize != 0 {
		return ErrInvalidPointer
	}

	data := a.p.Bytes()
	off := int32(ref)
	if format.ReadU32(data, int(off)+format.SlotStatusField) == format.TagFree {
		return ErrDoubleFree
	}

	format.PutU32(data, int(off)+format.SlotStatusField, format.TagFree)
	format.PutI32(data, int(off)+format.SlotNextField, a.head)
	a.head = off
	return nil
}

// Dump returns every slot's offset and state in address order. Read-only.
func (a *Allocator) Dump() []SlotInfo {
	data := a.p.Bytes()
	slots := make([]SlotInfo, 0, a.cfg.SlotCount)
	for i := int32(0); i < a.cfg.SlotCount; i++ {
		off := i * a.cfg.SlotSize
		slots = append(slots, SlotInfo{
			Offset: off,
			Free:   format.ReadU32(data, int(off)+format.SlotStatusField) == format.TagFree,
		})
	}
	return slots
}

// FreeCount walks the free list and returns its length.
func (a *Allocator) FreeCount() int {
	data := a.p.Bytes()
	n := 0
	for off := a.head; off != format.NilOffset; off = format.ReadI32(data, int(off)+format.SlotNextField) {
		n++
	}
	return n
}

// Config returns the slot geometry.
func (a *Allocator) Config() Config {
	return a.cfg
}

// Close releases the backing pool.
func (a *Allocator) Close() error {
	return a.p.Close()
}
