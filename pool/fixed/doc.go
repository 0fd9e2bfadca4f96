// Package fixed implements the fixed-size allocation engine: equal-sized
// slots over a pool arena, linked through a LIFO free list.
//
// Every slot's offset is i*SlotSize for some i below SlotCount. The 8-byte
// slot header lives in the first bytes of the slot and is only meaningful
// while the slot is free or freshly allocated: the payload is the whole slot,
// so a caller that writes from byte 0 overwrites the status tag and defeats
// the double-free check. The engine does not detect that.
//
// Alloc pops the list head and Free pushes onto it, so the most recently
// freed slot is handed out first. Both are O(1).
//
// Not thread-safe; callers synchronize externally.
package fixed
