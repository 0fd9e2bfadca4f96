// Package printer renders allocator dumps for humans and for tooling.
//
// The text form is one line per block or slot, suitable for a terminal. The
// JSON form mirrors the dump types' struct tags so other tools can consume it.
// A hex view of the raw arena is available for debugging header layouts.
package printer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/joshuapare/poolkit/pool/alloc"
	"github.com/joshuapare/poolkit/pool/fixed"
)

// Format selects the rendering style.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// Options controls what a Printer emits.
type Options struct {
	Format    Format
	ShowStats bool // Append operation counters after a block dump
}

// Printer renders dumps to a single writer. Zero options mean plain text
// without counters.
type Printer struct {
	w    io.Writer
	opts Options
}

func New(w io.Writer, opts Options) *Printer {
	return &Printer{w: w, opts: opts}
}

// Blocks renders a variable-size engine dump.
func (p *Printer) Blocks(blocks []alloc.BlockInfo, stats alloc.Stats) error {
	if p.opts.Format == FormatJSON {
		return p.writeJSON(blockReport{Blocks: blocks, Stats: maybeStats(p.opts, stats)})
	}

	fmt.Fprintf(p.w, "%-10s %-6s %s\n", "OFFSET", "STATE", "SIZE")
	for _, b := range blocks {
		fmt.Fprintf(p.w, "0x%08X %-6s %d\n", b.Offset, b.Status, b.Size)
	}
	if p.opts.ShowStats {
		fmt.Fprintf(p.w, "\nallocs=%d frees=%d resizes=%d splits=%d\n",
			stats.AllocCalls, stats.FreeCalls, stats.ResizeCalls, stats.SplitCount)
		fmt.Fprintf(p.w, "coalesced fwd=%d bwd=%d relocations=%d\n",
			stats.CoalesceForward, stats.CoalesceBackward, stats.Relocations)
		fmt.Fprintf(p.w, "bytes allocated=%d freed=%d\n",
			stats.BytesAllocated, stats.BytesFreed)
	}
	return nil
}

// Slots renders a fixed-size engine dump.
func (p *Printer) Slots(slots []fixed.SlotInfo) error {
	if p.opts.Format == FormatJSON {
		return p.writeJSON(slotReport{Slots: slots})
	}

	fmt.Fprintf(p.w, "%-10s %s\n", "OFFSET", "STATE")
	for _, s := range slots {
		state := "used"
		if s.Free {
			state = "free"
		}
		fmt.Fprintf(p.w, "0x%08X %s\n", s.Offset, state)
	}
	return nil
}

type blockReport struct {
	Blocks []alloc.BlockInfo `json:"blocks"`
	Stats  *alloc.Stats      `json:"stats,omitempty"`
}

type slotReport struct {
	Slots []fixed.SlotInfo `json:"slots"`
}

func maybeStats(opts Options, stats alloc.Stats) *alloc.Stats {
	if !opts.ShowStats {
		return nil
	}
	return &stats
}

func (p *Printer) writeJSON(v interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
