package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/poolkit/internal/format"
	"github.com/joshuapare/poolkit/pool"
	"github.com/joshuapare/poolkit/pool/alloc"
	"github.com/joshuapare/poolkit/pool/printer"
)

var (
	exercisePoolSize int
	exerciseStats    bool
	exerciseHex      bool
)

func init() {
	cmd := newExerciseCmd()
	cmd.Flags().IntVar(&exercisePoolSize, "pool-size", format.DefaultPoolSize, "Arena size in bytes (8-aligned)")
	cmd.Flags().BoolVar(&exerciseStats, "stats", false, "Print operation counters after each dump")
	cmd.Flags().BoolVar(&exerciseHex, "hex", false, "Print a hex view of the arena after the run")
	rootCmd.AddCommand(cmd)
}

func newExerciseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Run a scripted scenario on the variable-size engine",
		Long: `The exercise command drives the variable-size engine through a fixed
scenario on a fresh arena: allocation with splitting, coalescing on free,
rejected invalid handles, resizing, and exhaustion. Each stage prints a
block dump so the layout changes are visible.

Example:
  poolctl exercise
  poolctl exercise --pool-size 1024 --stats
  poolctl exercise --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExercise()
		},
	}
	return cmd
}

func runExercise() error {
	printVerbose("Creating %d-byte arena\n", exercisePoolSize)

	p, err := pool.New(exercisePoolSize)
	if err != nil {
		return err
	}
	defer p.Close()

	a, err := alloc.New(p)
	if err != nil {
		return err
	}
	pr := printer.New(os.Stdout, printer.Options{
		Format:    outputFormat(),
		ShowStats: exerciseStats,
	})
	dump := func(stage string) error {
		printInfo("--- %s ---\n", stage)
		return pr.Blocks(a.Dump(), a.Stats())
	}

	if err := dump("fresh arena"); err != nil {
		return err
	}

	// Three blocks, then release the outer two so freeing the middle one
	// shows a merge on both sides.
	refA, _, err := a.Alloc(48)
	if err != nil {
		return err
	}
	refB, _, err := a.Alloc(64)
	if err != nil {
		return err
	}
	refC, _, err := a.Alloc(32)
	if err != nil {
		return err
	}
	if err := dump("after three allocations"); err != nil {
		return err
	}

	if err := a.Free(refA); err != nil {
		return err
	}
	if err := a.Free(refC); err != nil {
		return err
	}
	if err := dump("after freeing the outer blocks"); err != nil {
		return err
	}

	if err := a.Free(refB); err != nil {
		return err
	}
	if err := dump("after freeing the middle block"); err != nil {
		return err
	}

	// Handle validation: every rejection must leave the arena untouched.
	if err := a.Free(alloc.NilRef); !errors.Is(err, alloc.ErrInvalidPointer) {
		return fmt.Errorf("null handle not rejected: %v", err)
	}
	printInfo("null handle rejected: ok\n")
	if err := a.Free(refB); !errors.Is(err, alloc.ErrInvalidPointer) {
		return fmt.Errorf("stale handle not rejected: %v", err)
	}
	printInfo("stale handle rejected: ok\n")
	if err := a.Free(alloc.Ref(3)); !errors.Is(err, alloc.ErrInvalidPointer) {
		return fmt.Errorf("misaligned handle not rejected: %v", err)
	}
	printInfo("misaligned handle rejected: ok\n")
	if err := a.Free(alloc.Ref(uint32(exercisePoolSize) * 2)); !errors.Is(err, alloc.ErrInvalidPointer) {
		return fmt.Errorf("out-of-bounds handle not rejected: %v", err)
	}
	printInfo("out-of-bounds handle rejected: ok\n")

	// Resize ladder: grow in place, grow enough to relocate, shrink back.
	ref, _, err := a.Alloc(24)
	if err != nil {
		return err
	}
	for _, size := range []uint32{48, 96, 16} {
		ref, _, err = a.Resize(ref, size)
		if err != nil {
			return err
		}
		printVerbose("resized to %d, handle 0x%X\n", size, ref)
	}
	if err := dump("after the resize ladder"); err != nil {
		return err
	}
	// A zero-size resize releases the block.
	if ref, _, err = a.Resize(ref, 0); err != nil {
		return err
	}
	if ref != alloc.NilRef {
		return fmt.Errorf("zero-size resize returned live handle 0x%X", ref)
	}

	// Exhaust, then drain.
	var held []alloc.Ref
	for {
		r, _, err := a.Alloc(16)
		if errors.Is(err, alloc.ErrOutOfMemory) {
			break
		}
		if err != nil {
			return err
		}
		held = append(held, r)
	}
	printInfo("exhausted after %d allocations of 16 bytes\n", len(held))
	if err := dump("at exhaustion"); err != nil {
		return err
	}
	for _, r := range held {
		if err := a.Free(r); err != nil {
			return err
		}
	}
	if err := dump("after draining"); err != nil {
		return err
	}

	if exerciseHex {
		printInfo("--- arena bytes ---\n")
		if err := pr.HexDump(p.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
